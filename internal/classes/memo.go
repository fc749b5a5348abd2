package classes

import (
	"time"

	"github.com/patrickmn/go-cache"

	"uno/internal/variant"
)

const (
	DefaultTTL     = 5 * time.Minute
	DefaultCleanup = 10 * time.Minute
)

// Memo caches expansions of hot class strings. Safe for concurrent use.
type Memo struct {
	opts  variant.Options
	store *cache.Cache
}

// NewMemo creates a memo whose entries live for ttl; expired entries are
// purged every cleanup interval. Zero durations select the defaults.
func NewMemo(opts variant.Options, ttl, cleanup time.Duration) *Memo {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if cleanup == 0 {
		cleanup = DefaultCleanup
	}
	return &Memo{
		opts:  opts,
		store: cache.New(ttl, cleanup),
	}
}

// Expand returns the expansion of s, computing it at most once per TTL.
func (m *Memo) Expand(s string) string {
	if v, ok := m.store.Get(s); ok {
		if out, ok := v.(string); ok {
			return out
		}
	}
	out := variant.ExpandWith(s, m.opts)
	m.store.Set(s, out, cache.DefaultExpiration)
	return out
}

// Classes joins parts and expands the result through the memo.
func (m *Memo) Classes(parts ...any) string {
	return m.Expand(Join(parts...))
}

// Len reports the number of cached entries, expired ones included until
// the next cleanup.
func (m *Memo) Len() int {
	return m.store.ItemCount()
}

// Reset drops every cached entry.
func (m *Memo) Reset() {
	m.store.Flush()
}
