package variant

import (
	"regexp"
	"strings"
	"sync"
)

// groupPattern matches one innermost group: a lazy prefix, the separator and
// a body that holds no parentheses outside of bracket literals.
var groupPattern = sync.OnceValue(func() *regexp.Regexp {
	const (
		ws       = `\t\n\v\f\r `
		prefix   = `((?:[!@<~\w+:_/-]|\[&?>?:?[^` + ws + `]*\])+?)`
		sep      = `(-|:)`
		body     = `((?:[~!<>\w` + ws + `:/\\,%#.$?-]|\[.*?\])+?)`
		fullExpr = prefix + sep + `\(` + body + `\)`
	)
	return regexp.MustCompile(fullExpr)
})

// shallowPattern normalizes s and rewrites every innermost group once.
func shallowPattern(s string) string {
	s = Normalize(s)
	matches := groupPattern().FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		b.WriteString(expandMembers(s[m[2]:m[3]], s[m[4]:m[5]], s[m[6]:m[7]]))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
