// Package extract finds class strings in markup and Go source files.
//
// Markup files (.html, .templ, .vue, .svelte, .jsx, .tsx, .astro) are
// scanned for class attributes and for string literal arguments of the
// configured functions. Go files are parsed and only literal arguments of
// the configured calls are reported.
package extract

import (
	"errors"
	"path/filepath"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"uno/internal/source"
)

// ErrUnsupported is returned for files whose extension has no scanner.
var ErrUnsupported = errors.New("unsupported file type")

// Config lists the attribute and function names that carry classes.
type Config struct {
	Attributes []string
	Functions  []string
}

// DefaultConfig covers plain HTML, JSX and the uno runtime helpers.
func DefaultConfig() Config {
	return Config{
		Attributes: []string{"class", "className"},
		Functions:  []string{"uno.Classes", "uno.Expand", "uno.Merge"},
	}
}

var markupExts = map[string]bool{
	".html":   true,
	".htm":    true,
	".templ":  true,
	".vue":    true,
	".svelte": true,
	".jsx":    true,
	".tsx":    true,
	".astro":  true,
}

// Supported reports whether path has a scanner.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".go" || markupExts[ext]
}

// Extractor holds the needle automaton for one Config. It is not safe for
// concurrent use; create one per goroutine.
type Extractor struct {
	cfg     Config
	needles []needle
	ac      ahocorasick.AhoCorasick
}

type needleKind uint8

const (
	needleAttr needleKind = iota
	needleCall
)

type needle struct {
	kind needleKind
	name string
}

// New builds an Extractor for cfg.
func New(cfg Config) *Extractor {
	x := &Extractor{cfg: cfg}
	patterns := make([]string, 0, len(cfg.Attributes)+len(cfg.Functions))
	for _, a := range cfg.Attributes {
		if a == "" {
			continue
		}
		x.needles = append(x.needles, needle{kind: needleAttr, name: a})
		patterns = append(patterns, a)
	}
	for _, f := range cfg.Functions {
		if f == "" {
			continue
		}
		x.needles = append(x.needles, needle{kind: needleCall, name: f})
		patterns = append(patterns, f)
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	x.ac = builder.Build(patterns)
	return x
}

// Extract returns the class sites of f in source order.
func (x *Extractor) Extract(f *source.File) ([]Site, error) {
	ext := strings.ToLower(filepath.Ext(f.Path))
	switch {
	case ext == ".go":
		return x.extractGo(f)
	case markupExts[ext]:
		return x.extractMarkup(f), nil
	default:
		return nil, ErrUnsupported
	}
}
