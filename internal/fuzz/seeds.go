package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var builtinSeeds = []string{
	"",
	"a b c",
	"hover:(bg-gray-400 font-medium)",
	"a1 a2:(b1 b2:(c1 c2-(d1 d2) c3) b3) a3",
	"b:[&:not(c)]:d:(!a z)",
	"md:(w-1/2 h-[calc(100%-4rem)])",
	"a-( ~ b c )",
	"hover:(\n!m-2\np-2\n)",
	"a:(b c)-(d e)",
	"x-(a b",
	"a:() b)",
	"w-[x:(a b)]",
	"[[[(((",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

var seedExts = map[string]bool{
	".html":  true,
	".templ": true,
	".vue":   true,
	".go":    true,
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все поддерживаемые файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !seedExts[filepath.Ext(path)] {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
