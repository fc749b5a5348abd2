package diagfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"uno/internal/diag"
	"uno/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview returns the whole lines touched by edit, as they are
// and as they would be once the edit is applied.
func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("nil FileSet")
	}
	if int(edit.Span.File) >= fs.Len() {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	content := fs.Get(edit.Span.File).Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(content) {
		return fixEditPreview{}, fmt.Errorf("edit span %d..%d out of range", start, end)
	}
	// строки целиком: от предыдущего \n до следующего
	lineStart := bytes.LastIndexByte(content[:start], '\n') + 1
	lineEnd := len(content)
	if i := bytes.IndexByte(content[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}
	head, tail := string(content[lineStart:start]), string(content[end:lineEnd])
	return fixEditPreview{
		before: splitPreviewLines(string(content[lineStart:lineEnd])),
		after:  splitPreviewLines(head + edit.NewText + tail),
	}, nil
}

func splitPreviewLines(block string) []string {
	if block == "" {
		return nil
	}
	return strings.Split(block, "\n")
}
