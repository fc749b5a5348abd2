// Package uno expands variant groups in utility-class strings, the
// `hover:(bg-gray-400 font-medium)` shorthand of UnoCSS and Windi CSS.
//
//	uno.Expand("hover:(bg-gray-400 font-medium) font-(light mono)")
//	// "hover:bg-gray-400 hover:font-medium font-light font-mono"
//
// The same function backs the `uno fmt` command, so classes rewritten in
// source files at build time and classes expanded at runtime are identical.
package uno

import (
	"time"

	"uno/internal/classes"
	"uno/internal/variant"
)

type (
	// Engine selects the group detection strategy.
	Engine = variant.Engine
	// Options tunes ExpandWith.
	Options = variant.Options
	// Fragment is an optional class string for Classes and Join.
	Fragment = classes.Fragment
)

const (
	EngineParser  = variant.EngineParser
	EnginePattern = variant.EnginePattern
)

// Expand rewrites every variant group in s into a flat, single-space
// separated class list. It never fails.
func Expand(s string) string {
	return variant.Expand(s)
}

// ExpandWith is Expand with an explicit engine.
func ExpandWith(s string, opts Options) string {
	return variant.ExpandWith(s, opts)
}

// Join concatenates non-empty class parts; see classes.Join for the accepted
// argument types.
func Join(parts ...any) string {
	return classes.Join(parts...)
}

// Classes joins parts and expands the result.
func Classes(parts ...any) string {
	return classes.Expand(parts...)
}

// Merge is Classes followed by tailwind conflict resolution.
func Merge(parts ...any) string {
	return classes.Merge(parts...)
}

// If includes value only when cond holds.
func If(cond bool, value string) Fragment {
	return classes.If(cond, value)
}

// Opt includes value when ok is true.
func Opt(value string, ok bool) Fragment {
	return classes.Opt(value, ok)
}

// Expander memoizes expansions for hot runtime paths.
type Expander struct {
	memo *classes.Memo
}

// ExpanderOption configures NewExpander.
type ExpanderOption func(*expanderConfig)

type expanderConfig struct {
	opts    Options
	ttl     time.Duration
	cleanup time.Duration
}

// WithEngine selects the expansion engine.
func WithEngine(e Engine) ExpanderOption {
	return func(c *expanderConfig) { c.opts.Engine = e }
}

// WithMaxDepth bounds pattern engine passes.
func WithMaxDepth(n int) ExpanderOption {
	return func(c *expanderConfig) { c.opts.MaxDepth = n }
}

// WithTTL sets how long an expansion stays cached and how often expired
// entries are purged.
func WithTTL(ttl, cleanup time.Duration) ExpanderOption {
	return func(c *expanderConfig) {
		c.ttl = ttl
		c.cleanup = cleanup
	}
}

// NewExpander returns a memoizing expander.
func NewExpander(opts ...ExpanderOption) *Expander {
	var cfg expanderConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &Expander{memo: classes.NewMemo(cfg.opts, cfg.ttl, cfg.cleanup)}
}

// Expand returns the cached expansion of s.
func (e *Expander) Expand(s string) string {
	return e.memo.Expand(s)
}

// Classes joins parts and returns the cached expansion.
func (e *Expander) Classes(parts ...any) string {
	return e.memo.Classes(parts...)
}
