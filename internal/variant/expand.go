package variant

import (
	"fmt"
	"strings"
)

// Engine selects the group detection strategy.
type Engine uint8

const (
	// EngineParser is the character state machine. It expands nested groups
	// in one sweep and repeats sweeps until the text is stable.
	EngineParser Engine = iota
	// EnginePattern rewrites innermost groups with a regular expression, one
	// nesting level per pass, bounded by Options.MaxDepth.
	EnginePattern
)

// DefaultMaxDepth bounds the pattern engine when Options.MaxDepth is zero.
const DefaultMaxDepth = 10

func (e Engine) String() string {
	switch e {
	case EngineParser:
		return "parser"
	case EnginePattern:
		return "pattern"
	default:
		return fmt.Sprintf("engine(%d)", uint8(e))
	}
}

// ParseEngine converts a config or flag value into an Engine.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parser", "state":
		return EngineParser, nil
	case "pattern", "regex", "regexp":
		return EnginePattern, nil
	default:
		return EngineParser, fmt.Errorf("unknown engine %q (want parser|pattern)", s)
	}
}

// Options tunes ExpandWith and Passes.
type Options struct {
	Engine Engine
	// MaxDepth caps pattern engine passes; <=0 means DefaultMaxDepth.
	// The parser engine ignores it.
	MaxDepth int
}

// Expand rewrites every variant group in s and returns the flat,
// single-space separated result. It never fails: text that is not a
// well-formed group is kept as is.
func Expand(s string) string {
	return run(s, Options{}, nil)
}

// ExpandWith is Expand with an explicit engine.
func ExpandWith(s string, opts Options) string {
	return run(s, opts, nil)
}

// Passes returns the result of every pass that changed the text, in order.
// The last element equals ExpandWith(s, opts); an input that is already
// stable yields nil.
func Passes(s string, opts Options) []string {
	var out []string
	run(s, opts, func(pass string) {
		out = append(out, pass)
	})
	return out
}

// HasGroups reports whether expansion changes s beyond whitespace.
func HasGroups(s string) bool {
	n := Normalize(s)
	return sweep(n) != n
}

func run(s string, opts Options, record func(string)) string {
	if opts.Engine == EnginePattern {
		return runPattern(s, opts.MaxDepth, record)
	}
	prev := s
	for {
		// каждый изменяющий проход убирает скобки или лишние пробелы
		next := sweep(Normalize(prev))
		if next == prev {
			return prev
		}
		if record != nil {
			record(next)
		}
		prev = next
	}
}

func runPattern(s string, depth int, record func(string)) string {
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	prev := s
	for {
		next := shallowPattern(prev)
		depth--
		if next == prev || depth == 0 {
			return prev
		}
		if record != nil {
			record(next)
		}
		prev = next
	}
}
