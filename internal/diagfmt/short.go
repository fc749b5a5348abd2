package diagfmt

import (
	"io"

	"uno/internal/diag"
	"uno/internal/source"
)

// Short пишет по одной строке на диагностику, формат diag.FormatShort.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShort(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
