// Package observ measures pipeline phases for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one row of the --timings table. Work sums the per-file time
// reported by Track; with parallel jobs it exceeds Dur.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Work  time.Duration
	Files int
	Note  string
}

// Timer is safe for concurrent use; a nil *Timer ignores every call.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin opens a phase and returns its handle for Track and End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

func (t *Timer) phase(idx int) *Phase {
	if idx < 0 || idx >= len(t.phases) {
		return nil
	}
	return &t.phases[idx]
}

// Track adds the time spent on one file to phase idx.
func (t *Timer) Track(idx int, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if p := t.phase(idx); p != nil {
		p.Work += d
		p.Files++
	}
}

// End closes phase idx; unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if p := t.phase(idx); p != nil {
		p.Dur = time.Since(p.Start)
		p.Note = note
	}
}

// Add records a phase measured elsewhere.
func (t *Timer) Add(name string, dur time.Duration, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Dur: dur, Note: note})
}

type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	WorkMS     float64 `json:"work_ms,omitempty"`
	Files      int     `json:"files,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report: фазы идут друг за другом, total это сумма их Dur.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{
			Name:       p.Name,
			DurationMS: ms(p.Dur),
			WorkMS:     ms(p.Work),
			Files:      p.Files,
			Note:       p.Note,
		})
	}
	r.TotalMS = ms(total)
	return r
}

// Summary renders Report as the table printed on stderr.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-12s %8.2f ms", p.Name, p.DurationMS)
		if p.Files > 0 {
			fmt.Fprintf(&b, "  (%d files, %.2f ms work)", p.Files, p.WorkMS)
		}
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %8.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
