package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every file of one run. Spans refer to files by FileID.
// Not safe for concurrent Add; the driver loads files before fanning out.
type FileSet struct {
	files   []File
	byPath  map[string]FileID // последняя версия файла по пути
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// SetBaseDir sets the directory "relative" paths are printed against.
func (fileSet *FileSet) SetBaseDir(dir string) { fileSet.baseDir = dir }

// BaseDir falls back to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir != "" {
		return fileSet.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add registers content (already UTF-8 with LF endings) under a fresh
// FileID, even when path was added before.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	path = normalizePath(path)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fileSet.byPath[path] = id
	return id
}

// AddVirtual registers in-memory content such as stdin.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// ReadSource reads path and undoes its on-disk encoding: BOM, UTF-16 and
// CRLF. Safe to call concurrently.
func ReadSource(path string) ([]byte, FileFlags, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the caller
	if err != nil {
		return nil, 0, err
	}
	content, flags, err := decode(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	if content, crlf := normalizeCRLF(content); crlf {
		return content, flags | FileNormalizedCRLF, nil
	}
	return content, flags, nil
}

// Load is ReadSource followed by Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	content, flags, err := ReadSource(path)
	if err != nil {
		return 0, err
	}
	return fileSet.Add(path, content, flags), nil
}

func (fileSet *FileSet) Get(id FileID) *File { return &fileSet.files[id] }

func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// GetLatest returns the newest FileID added under path.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.byPath[normalizePath(path)]
	return id, ok
}

// Resolve converts span offsets to 1-based line/column pairs.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	idx := fileSet.files[span.File].LineIdx
	return toLineCol(idx, span.Start), toLineCol(idx, span.End)
}

func (f *File) Text(span Span) string {
	return string(f.Content[span.Start:span.End])
}

// Encode converts UTF-8, LF-only content back to the encoding f was read
// with.
func (f *File) Encode(content []byte) ([]byte, error) {
	out, err := encode(content, f.Flags)
	if err != nil {
		return nil, fmt.Errorf("%s: encode: %w", f.Path, err)
	}
	return out, nil
}

// GetLine returns line lineNum (1-based) without its '\n', or "" when
// the file is shorter.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if lineNum > 1 {
		start = int(f.LineIdx[lineNum-2]) + 1
	}
	end := len(f.Content)
	if int(lineNum) <= len(f.LineIdx) {
		end = int(f.LineIdx[lineNum-1])
	}
	return string(f.Content[start:end])
}

// FormatPath prints f.Path for a --path-mode value: absolute, relative,
// basename or auto (short paths kept, long absolute ones shortened).
func (f *File) FormatPath(mode, baseDir string) string {
	var (
		out string
		err error
	)
	switch mode {
	case "absolute":
		out, err = AbsolutePath(f.Path)
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		out, err = RelativePath(f.Path, baseDir)
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return BaseName(f.Path)
		}
		return f.Path
	default:
		return f.Path
	}
	if err != nil {
		return f.Path
	}
	return out
}
