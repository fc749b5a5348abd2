package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a limit. Not safe for concurrent use;
// wrap it in a BagReporter when several goroutines report.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag keeps at most max diagnostics; max <= 0 means no limit.
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add возвращает false, когда лимит уже исчерпан.
func (b *Bag) Add(d Diagnostic) bool {
	if b.full() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) full() bool { return b.max > 0 && len(b.items) >= b.max }

// Merge appends other's diagnostics in order while the limit allows and
// returns how many were dropped.
func (b *Bag) Merge(other *Bag) (dropped int) {
	if other == nil {
		return 0
	}
	for i, d := range other.items {
		if !b.Add(d) {
			return len(other.items) - i
		}
	}
	return 0
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Count returns the number of diagnostics with severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for _, d := range b.items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int { return len(b.items) }

// Items is the bag's backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Filter keeps diagnostics for which keep is true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

// Transform replaces every diagnostic with fn(d).
func (b *Bag) Transform(fn func(Diagnostic) Diagnostic) {
	for i := range b.items {
		b.items[i] = fn(b.items[i])
	}
}

// Sort orders by file and span; on one span the more severe diagnostic
// comes first, then the lower code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
