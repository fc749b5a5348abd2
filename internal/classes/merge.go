package classes

import (
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"

	"uno/internal/variant"
)

// Merge expands parts and resolves conflicting utilities, the last one
// winning (`p-2 p-4` becomes `p-4`).
func Merge(parts ...any) string {
	return twmerge.Merge(Expand(parts...))
}

// Dedup drops repeated classes, keeping the first occurrence.
func Dedup(s string) string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range variant.Fields(s) {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return strings.Join(out, " ")
}

// Duplicates lists classes that occur more than once, in order of their
// second occurrence.
func Duplicates(s string) []string {
	count := make(map[string]int)
	var dups []string
	for _, c := range variant.Fields(s) {
		count[c]++
		if count[c] == 2 {
			dups = append(dups, c)
		}
	}
	return dups
}

// MergeWith expands s with opts and resolves conflicting utilities.
func MergeWith(s string, opts variant.Options) string {
	return twmerge.Merge(variant.ExpandWith(s, opts))
}
