package diag

import (
	"testing"

	"uno/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	page := fs.Add("/workspace/web/index.html", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		New(SevWarning, GroupUnclosed, source.Span{File: page, Start: 2, End: 3}, "variant group is never closed"),
		New(SevInfo, StyleExpandable, source.Span{File: page, Start: 0, End: 1}, "first line\nsecond").
			WithNote(source.Span{File: page, Start: 2, End: 3}, "note line"),
	}

	expected := "info UNO2001 web/index.html:1:1 first line second\n" +
		"warning UNO1001 web/index.html:2:1 variant group is never closed\n" +
		"note UNO2001 web/index.html:2:1 note line"

	if got := FormatShort(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimitSortFilter(t *testing.T) {
	b := NewBag(3)
	span := func(start uint32) source.Span { return source.Span{Start: start, End: start + 1} }

	b.Add(New(SevInfo, StyleExpandable, span(5), "x"))
	b.Add(New(SevInfo, StyleExpandable, span(1), "y"))
	b.Add(New(SevWarning, GroupEmpty, span(1), "z"))
	if b.Add(New(SevError, IOReadFailed, span(0), "z")) {
		t.Fatal("bag accepted a diagnostic past its limit")
	}
	if b.HasErrors() || b.Count(SevWarning) != 1 || b.Count(SevInfo) != 2 {
		t.Fatal("unexpected severity summary")
	}

	b.Sort()
	items := b.Items()
	if items[0].Code != GroupEmpty || items[1].Message != "y" || items[2].Message != "x" {
		t.Fatalf("unexpected order after sort: %+v", items)
	}

	b.Filter(func(d Diagnostic) bool { return d.Severity >= SevWarning })
	if b.Len() != 1 {
		t.Fatalf("Filter left %d items", b.Len())
	}
	b.Transform(func(d Diagnostic) Diagnostic {
		d.Severity = SevError
		return d
	})
	if !b.HasErrors() {
		t.Fatal("Transform did not promote severity")
	}
}

func TestBagMergeRespectsLimit(t *testing.T) {
	all := NewBag(2)
	part := NewBag(0)
	for i := range uint32(3) {
		part.Add(New(SevInfo, StyleExpandable, source.Span{Start: i, End: i + 1}, "x"))
	}
	if dropped := all.Merge(part); dropped != 1 || all.Len() != 2 {
		t.Fatalf("dropped=%d len=%d", dropped, all.Len())
	}
	if all.Merge(nil) != 0 {
		t.Fatal("nil merge dropped diagnostics")
	}
}

func TestReporters(t *testing.T) {
	bag := NewBag(0)
	r := &BagReporter{Bag: bag}
	sp := source.Span{Start: 1, End: 2}

	ReportWarning(r, GroupStrayParen, sp, "stray").Emit()
	b := ReportInfo(r, StyleExpandable, sp, "expand").
		WithFixSuggestion(Fix{Title: "expand", Edits: []TextEdit{{Span: sp, NewText: "a"}}})
	b.Emit()
	b.Emit()

	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if got := bag.Items()[1].Fixes; len(got) != 1 || got[0].Edits[0].NewText != "a" {
		t.Fatalf("fix lost: %+v", got)
	}
}

func TestCodeAndSeverityStrings(t *testing.T) {
	if GroupUnclosed.ID() != "UNO1001" {
		t.Errorf("ID = %s", GroupUnclosed.ID())
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown code title = %s", Code(9999).Title())
	}
	if SevError.Label() != "error" {
		t.Errorf("Label = %s", SevError.Label())
	}
}
