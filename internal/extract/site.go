package extract

import (
	"strconv"
	"strings"

	"uno/internal/source"
)

// Kind tells where a site was found and how to write it back.
type Kind uint8

const (
	// KindAttribute is the value of a markup attribute; Span excludes quotes.
	KindAttribute Kind = iota
	// KindCall is a string literal argument in markup; Span excludes quotes.
	KindCall
	// KindGoLiteral is a Go string literal; Span includes the quotes.
	KindGoLiteral
)

func (k Kind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindCall:
		return "call"
	case KindGoLiteral:
		return "go-literal"
	}
	return "unknown"
}

// Site is one class string found in a file.
type Site struct {
	Span  source.Span
	Value string // decoded class string
	Kind  Kind
	Quote byte // '"', '\'' or '`'
	// Name is the attribute or function the site belongs to.
	Name string
	// verbatim is set when Value equals the bytes between the quotes.
	verbatim bool
}

// Render returns the replacement text for Span when the class string
// becomes value.
func (s Site) Render(value string) string {
	if s.Kind != KindGoLiteral {
		return value
	}
	if s.Quote == '`' && !strings.Contains(value, "`") {
		return "`" + value + "`"
	}
	return strconv.Quote(value)
}

// ValueSpan maps a byte range of Value to a source span. When the literal
// holds escapes the mapping is inexact and the whole site span is returned.
func (s Site) ValueSpan(from, to int) source.Span {
	if !s.verbatim || from < 0 || to > len(s.Value) || from > to {
		return s.Span
	}
	base := uint32(0)
	if s.Kind == KindGoLiteral {
		base = 1
	}
	return s.Span.Sub(base+uint32(from), base+uint32(to)) // #nosec G115 -- bounded by len(Value)
}
