package trace

import "time"

// Kind is begin, end or point.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{"unknown", "begin", "end", "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // одна команда: fmt, diag, fix
	ScopePhase                   // collect, read, process, fix
	ScopeFile                    // один файл
	ScopeSite                    // одна строка классов
)

var scopeNames = [...]string{"unknown", "driver", "phase", "file", "site"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event is what every Tracer receives. Extra is only set on span ends.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "fmt", "process", a file path
	Detail   string
	Extra    map[string]string
}
