package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"uno/internal/source"
)

// shortLine is one `severity CODE path:line:col message` row.
type shortLine struct {
	sev, code, path, msg string
	line, col            uint32
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
}

// FormatShort renders diags one per line sorted by location. With
// includeNotes every note follows as a `note` row under the same code.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var rows []shortLine
	for i := range diags {
		d := &diags[i]
		if row, ok := shortRow(fs, d.Primary, d.Severity.Label(), d.Code, d.Message); ok {
			rows = append(rows, row)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if row, ok := shortRow(fs, n.Span, "note", d.Code, n.Msg); ok {
				rows = append(rows, row)
			}
		}
	}
	slices.SortStableFunc(rows, func(a, b shortLine) int {
		return cmp.Or(
			strings.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			strings.Compare(a.code, b.code),
			strings.Compare(a.msg, b.msg),
		)
	})
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.String()
	}
	return strings.Join(out, "\n")
}

func shortRow(fs *source.FileSet, span source.Span, sev string, code Code, msg string) (shortLine, bool) {
	if int(span.File) >= fs.Len() {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(span)
	path := fs.Get(span.File).FormatPath("relative", fs.BaseDir())
	return shortLine{
		sev:  sev,
		code: code.ID(),
		path: strings.TrimPrefix(path, "./"),
		msg:  oneLine(msg),
		line: start.Line,
		col:  start.Col,
	}, true
}

// oneLine folds line breaks so each diagnostic stays on one row.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
