package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("collect")
	tm.End(idx, "3 files")
	tm.Add("expand", 2*time.Millisecond, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Note != "3 files" || r.Phases[1].DurationMS != 2 {
		t.Fatalf("report = %+v", r)
	}
	if r.TotalMS < 2 {
		t.Fatalf("total = %v", r.TotalMS)
	}
	s := tm.Summary()
	if !strings.Contains(s, "collect") || !strings.Contains(s, "// 3 files") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	tm.Add("y", time.Second, "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("report = %+v", r)
	}
}

func TestTimerTrack(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("process")
	tm.Track(idx, 3*time.Millisecond)
	tm.Track(idx, 5*time.Millisecond)
	tm.Track(7, time.Second)
	tm.End(idx, "")

	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Files != 2 || r.Phases[0].WorkMS != 8 {
		t.Fatalf("report = %+v", r)
	}
	if s := tm.Summary(); !strings.Contains(s, "(2 files, 8.00 ms work)") {
		t.Fatalf("summary:\n%s", s)
	}
}
