package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, run := BeginCtx(ctx, ScopeDriver, "fmt")
	phaseCtx, phase := BeginCtx(ctx, ScopePhase, "extract")
	_, file := BeginCtx(phaseCtx, ScopeFile, "file:a.html")
	file.End("")
	phase.End("2 files")
	run.WithExtra("changed", "1").End("")

	out := buf.String()
	if strings.Contains(out, "file:a.html") {
		t.Fatalf("file scope leaked at phase level:\n%s", out)
	}
	for _, want := range []string{"→ fmt", "  → extract", "  ← extract (2 files)", "← fmt {changed=1}"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeFile, "cache", "hit", 7)
	Point(tr, ScopeSite, "site", "dropped", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %q", lines)
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "point" || ev.Scope != "file" || ev.ParentID != 7 || ev.Detail != "hit" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestRingKeepsFileEventsAtErrorLevel(t *testing.T) {
	ring := NewRingTracer(2, LevelError)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeFile, name, "", 0)
	}
	Point(ring, ScopeSite, "site", "", 0)

	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("dump = %q", buf.String())
	}
}

func TestNopAndOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("LevelOff must give a disabled tracer")
	}
	span := Begin(tr, ScopeDriver, "x", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatal("nop span must be inert")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
}

func TestParse(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %v %v", m, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v %v", f, err)
	}
}

func TestMultiFansOut(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelDetail)
	tr := NewMultiTracer(LevelDetail, NewStreamTracer(&buf, LevelDetail, FormatText), ring)
	Point(tr, ScopePhase, "write", "", 0)
	if len(ring.Snapshot()) != 1 || !strings.Contains(buf.String(), "• write") {
		t.Fatalf("fan out failed: %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
}
