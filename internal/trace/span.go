package trace

import (
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// stamp fills Seq for events built outside this file.
func stamp(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = seq.Add(1)
	}
}

// Span is an open begin/end pair; End emits the closing event.
type Span struct {
	tracer  Tracer
	begin   Event
	started time.Time
	extra   map[string]string
}

var inert = &Span{tracer: Nop}

// Begin opens a span under parent (0 for a root span). Spans the tracer
// would drop cost nothing.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().records(scope) {
		return inert
	}
	now := time.Now()
	s := &Span{
		tracer:  t,
		started: now,
		begin: Event{
			Time:     now,
			Seq:      seq.Add(1),
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   spanIDs.Add(1),
			ParentID: parent,
			Name:     name,
		},
	}
	ev := s.begin
	t.Emit(&ev)
	return s
}

// End closes the span with an optional detail and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.begin.SpanID == 0 {
		return 0
	}
	ev := s.begin
	ev.Time = time.Now()
	ev.Seq = seq.Add(1)
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.extra
	s.tracer.Emit(&ev)
	return ev.Time.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.begin.SpanID == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 1)
	}
	s.extra[key] = value
	return s
}

// ID is 0 for spans that were not recorded.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event, e.g. a cache hit.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().records(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		SpanID:   spanIDs.Add(1),
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
