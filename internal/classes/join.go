// Package classes builds class strings from mixed arguments and runs them
// through variant group expansion.
package classes

import (
	"fmt"
	"reflect"
	"strings"

	"uno/internal/variant"
)

// Fragment is a class string that may be left out.
type Fragment struct {
	Value string
	On    bool
}

// If includes value only when cond holds.
func If(cond bool, value string) Fragment {
	return Fragment{Value: value, On: cond}
}

// Opt mirrors the comma-ok idiom: value is included when ok is true.
func Opt(value string, ok bool) Fragment {
	return Fragment{Value: value, On: ok}
}

// Join concatenates the non-empty parts with single spaces. It accepts
// string, *string, []string, Fragment, []Fragment, fmt.Stringer and nil;
// other values are formatted with fmt.Sprint. Nil pointers, false
// fragments and empty strings are skipped.
func Join(parts ...any) string {
	var b strings.Builder
	add := func(s string) {
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	for _, p := range parts {
		switch v := p.(type) {
		case nil:
		case string:
			add(v)
		case *string:
			if v != nil {
				add(*v)
			}
		case []string:
			for _, s := range v {
				add(s)
			}
		case Fragment:
			if v.On {
				add(v.Value)
			}
		case []Fragment:
			for _, f := range v {
				if f.On {
					add(f.Value)
				}
			}
		case fmt.Stringer:
			if !nilPointer(v) {
				add(v.String())
			}
		default:
			if !nilPointer(v) {
				add(fmt.Sprint(v))
			}
		}
	}
	return b.String()
}

// nilPointer catches typed nil pointers hidden in an interface; their
// String methods usually dereference the receiver.
func nilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Expand joins parts and expands variant groups in the result.
func Expand(parts ...any) string {
	return variant.Expand(Join(parts...))
}

// ExpandEach expands every part on its own before joining. For parts whose
// groups are balanced it returns the same string as Expand.
func ExpandEach(parts ...any) string {
	expanded := make([]string, 0, len(parts))
	for _, p := range parts {
		expanded = append(expanded, variant.Expand(Join(p)))
	}
	return Join(expanded)
}
