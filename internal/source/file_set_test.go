package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("index.html", []byte(`<a class="x">`), 0)
	id2 := fs.Add("index.html", []byte(`<a class="y">`), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids %d, %d", id1, id2)
	}

	// индекс указывает на последнюю версию
	latest, ok := fs.GetLatest("index.html")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != `<a class="x">` {
		t.Errorf("old version lost: %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.html", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, expected)
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], val)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.html", []byte("ab\ncd\n\nef"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам '\n'
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.html", []byte("one\ntwo\n\nfour")))

	want := map[uint32]string{0: "", 1: "one", 2: "two", 3: "", 4: "four", 5: ""}
	for line, s := range want {
		if got := f.GetLine(line); got != s {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, s)
		}
	}
}

func TestLoadRoundTripsEncoding(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		raw     []byte
		content string
		flags   FileFlags
	}{
		{name: "plain", raw: []byte("a\nb"), content: "a\nb"},
		{name: "bom", raw: append([]byte{0xEF, 0xBB, 0xBF}, "a\nb"...), content: "a\nb", flags: FileHadBOM},
		{name: "crlf", raw: []byte("a\r\nb\r\n"), content: "a\nb\n", flags: FileNormalizedCRLF},
		{name: "utf16le", raw: []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, content: "hi", flags: FileHadBOM | FileUTF16LE},
		{name: "utf16be", raw: []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, content: "hi", flags: FileHadBOM | FileUTF16BE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".html")
			if err := os.WriteFile(path, tt.raw, 0o600); err != nil {
				t.Fatal(err)
			}
			fs := NewFileSet()
			id, err := fs.Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			f := fs.Get(id)
			if string(f.Content) != tt.content {
				t.Errorf("content = %q, want %q", f.Content, tt.content)
			}
			if f.Flags != tt.flags {
				t.Errorf("flags = %b, want %b", f.Flags, tt.flags)
			}
			back, err := f.Encode(f.Content)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(back, tt.raw) {
				t.Errorf("Encode = %v, want %v", back, tt.raw)
			}
		})
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(tmp, "other", "file.html")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Errorf("RelativePath = %q, want %q", got, want)
	}

	got, err = RelativePath(filepath.Join(baseDir, "x", "y.html"), baseDir)
	if err != nil {
		t.Fatal(err)
	}
	if got != "x/y.html" {
		t.Errorf("RelativePath inside base = %q", got)
	}
}

func TestSpan(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 15, End: 30}
	if got := a.Cover(b); got != (Span{File: 1, Start: 10, End: 30}) {
		t.Errorf("Cover = %v", got)
	}
	if !a.Overlaps(b) || a.Overlaps(Span{File: 1, Start: 20, End: 25}) {
		t.Error("Overlaps mismatch")
	}
	if got := a.Sub(2, 4); got != (Span{File: 1, Start: 12, End: 14}) {
		t.Errorf("Sub = %v", got)
	}
	if a.Len() != 10 || a.Empty() || !(Span{Start: 3, End: 3}).Empty() {
		t.Error("Len/Empty mismatch")
	}
	if a.String() != "1:10-20" {
		t.Errorf("String = %q", a.String())
	}
}
