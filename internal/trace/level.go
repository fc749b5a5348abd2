package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls how much of the run is traced.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // только дамп кольца при падении
	LevelPhase        // команда и фазы
	LevelDetail       // плюс файлы
	LevelDebug        // плюс отдельные строки классов
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value; empty means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	if i := slices.Index(levelNames, strings.ToLower(s)); i >= 0 {
		return Level(i), nil // #nosec G115 -- index into a five-element table
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
}

// ShouldEmit reports whether a stream at level l prints scope events.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePhase
	case LevelDetail:
		return scope <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}

// records also admits what a ring keeps at LevelError.
func (l Level) records(scope Scope) bool {
	return l.ShouldEmit(scope) || (l == LevelError && scope <= ScopeFile)
}
