package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"uno/internal/diag"
	"uno/internal/source"
)

type palette struct {
	sev   map[diag.Severity]*color.Color
	code  *color.Color
	gut   *color.Color
	caret *color.Color
	note  *color.Color
	fix   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		code:  color.New(color.Bold),
		gut:   color.New(color.FgBlue),
		caret: color.New(color.FgMagenta, color.Bold),
		note:  color.New(color.FgGreen),
		fix:   color.New(color.FgGreen, color.Bold),
	}
	all := []*color.Color{p.code, p.gut, p.caret, p.note, p.fix}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	start, _ := fs.Resolve(d.Primary)
	sevColor := p.sev[d.Severity]
	if sevColor == nil {
		sevColor = p.code
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col,
		sevColor.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
	writeSnippet(w, fs, d.Primary, opts, p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				displayPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	if !opts.ShowFixes || len(d.Fixes) == 0 {
		return
	}
	for _, f := range sortedFixes(d.Fixes) {
		title := f.Title
		if f.IsPreferred {
			title += " (preferred)"
		}
		fmt.Fprintf(w, "  %s %s [%s, %s]\n", p.fix.Sprint("fix:"), title, f.Kind, f.Applicability)
		for _, e := range f.Edits {
			old := e.OldText
			if old == "" {
				if file := fs.Get(e.Span.File); file != nil {
					old = file.Text(e.Span)
				}
			}
			fmt.Fprintf(w, "      %q -> %q\n", clip(old, opts.Width), clip(e.NewText, opts.Width))
			if !opts.ShowPreview {
				continue
			}
			if pv, err := buildFixEditPreview(fs, e); err == nil {
				for _, l := range pv.before {
					fmt.Fprintf(w, "      - %s\n", l)
				}
				for _, l := range pv.after {
					fmt.Fprintf(w, "      + %s\n", l)
				}
			}
		}
	}
}

// writeSnippet prints the primary line with Context lines around it and
// an underline below the span.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette) {
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(opts.Context, 0)) // #nosec G115 -- non-negative int8
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	gutter := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := file.GetLine(ln)
		if ln > start.Line && text == "" && ln > uint32(len(file.LineIdx)) {
			break
		}
		fmt.Fprintf(w, " %s %s\n", p.gut.Sprintf("%*d |", gutter, ln), clip(text, opts.Width))
		if ln != start.Line {
			continue
		}
		col := int(start.Col) - 1
		stop := len(text)
		if end.Line == start.Line {
			stop = min(int(end.Col)-1, len(text))
		}
		col = min(col, len(text))
		stop = max(stop, col)
		pad := padFor(text[:col])
		width := max(runewidth.StringWidth(text[col:stop]), 1)
		marks := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n", p.gut.Sprintf("%*s |", gutter, ""), pad, p.caret.Sprint(marks))
	}
}

// padFor keeps tabs so the caret lines up under tabbed source.
func padFor(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, int(width), "")
	}
	return runewidth.Truncate(s, int(width), "...")
}

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	if int(id) >= fs.Len() {
		return "<unknown>"
	}
	f := fs.Get(id)
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", fs.BaseDir())
	}
}

func sortedFixes(in []diag.Fix) []diag.Fix {
	fixes := append([]diag.Fix(nil), in...)
	sort.SliceStable(fixes, func(i, j int) bool {
		fi, fj := fixes[i], fixes[j]
		if fi.IsPreferred != fj.IsPreferred {
			return fi.IsPreferred
		}
		if fi.Applicability != fj.Applicability {
			return fi.Applicability < fj.Applicability
		}
		if fi.Kind != fj.Kind {
			return fi.Kind < fj.Kind
		}
		if fi.Title != fj.Title {
			return fi.Title < fj.Title
		}
		return fi.ID < fj.ID
	})
	return fixes
}
