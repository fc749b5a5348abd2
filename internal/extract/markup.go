package extract

import (
	"strings"

	"uno/internal/source"
)

func (x *Extractor) extractMarkup(f *source.File) []Site {
	text := string(f.Content)
	var sites []Site
	next := 0 // сайты не перекрываются
	for _, m := range x.ac.FindAll(text) {
		if m.Start() < next {
			continue
		}
		n := x.needles[m.Pattern()]
		var found []Site
		var end int
		switch n.kind {
		case needleAttr:
			found, end = attrSite(f, text, m.Start(), m.End(), n.name)
		case needleCall:
			found, end = callSites(f, text, m.Start(), m.End(), n.name)
		}
		if len(found) == 0 {
			continue
		}
		sites = append(sites, found...)
		next = end
	}
	return sites
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || c == '$' || c == '.' || c == ':' || c == '@' ||
		c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func skipSpace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}

// attrSite reads `name = "value"`, `name='value'` or `name={"value"}`.
func attrSite(f *source.File, text string, start, end int, name string) ([]Site, int) {
	if start > 0 && isIdentByte(text[start-1]) {
		return nil, 0
	}
	if end < len(text) && isIdentByte(text[end]) {
		return nil, 0
	}
	i := skipSpace(text, end)
	if i >= len(text) || text[i] != '=' {
		return nil, 0
	}
	i = skipSpace(text, i+1)
	braced := false
	if i < len(text) && text[i] == '{' {
		braced = true
		i = skipSpace(text, i+1)
	}
	if i >= len(text) {
		return nil, 0
	}
	q := text[i]
	if q != '"' && q != '\'' && !(braced && q == '`') {
		return nil, 0
	}
	closeAt := strings.IndexByte(text[i+1:], q)
	if closeAt < 0 {
		return nil, 0
	}
	value := text[i+1 : i+1+closeAt]
	if templated(value) || (braced && strings.IndexByte(value, '\\') >= 0) {
		return nil, 0
	}
	kind := KindAttribute
	if braced {
		kind = KindCall
	}
	site := Site{
		Span:     spanOf(f, i+1, i+1+closeAt),
		Value:    value,
		Kind:     kind,
		Quote:    q,
		Name:     name,
		verbatim: true,
	}
	return []Site{site}, i + 2 + closeAt
}

// templated reports interpolation markers whose contents are not classes.
func templated(v string) bool {
	return strings.Contains(v, "{{") || strings.Contains(v, "${") || strings.Contains(v, "<%") || strings.Contains(v, "{%")
}

// callSites reads the literal arguments of `name(...)`. Arguments that are
// not plain string literals are skipped.
func callSites(f *source.File, text string, start, end int, name string) ([]Site, int) {
	if start > 0 && isIdentByte(text[start-1]) {
		return nil, 0
	}
	i := skipSpace(text, end)
	if i >= len(text) || text[i] != '(' {
		return nil, 0
	}
	i++
	var sites []Site
	for {
		i = skipSpace(text, i)
		if i >= len(text) {
			return sites, i
		}
		switch c := text[i]; {
		case c == ')':
			return sites, i + 1
		case c == ',':
			i++
			continue
		case c == '"' || c == '\'' || c == '`':
			lit, litEnd, ok := readLiteral(text, i)
			if !ok {
				return sites, len(text)
			}
			after := skipSpace(text, litEnd)
			plainArg := after < len(text) && (text[after] == ',' || text[after] == ')')
			if plainArg && strings.IndexByte(lit, '\\') < 0 && !templated(lit) {
				sites = append(sites, Site{
					Span:     spanOf(f, i+1, litEnd-1),
					Value:    lit,
					Kind:     KindCall,
					Quote:    c,
					Name:     name,
					verbatim: true,
				})
			}
			i = litEnd
		default:
			i = skipExpr(text, i)
		}
	}
}

// readLiteral returns the raw contents of the quoted literal at text[i] and
// the offset past its closing quote.
func readLiteral(text string, i int) (string, int, bool) {
	q := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			if q != '`' {
				j++
			}
		case q:
			return text[i+1 : j], j + 1, true
		}
	}
	return "", 0, false
}

// skipExpr advances past one argument expression up to a top-level ',' or ')'.
func skipExpr(text string, i int) int {
	depth := 0
	for i < len(text) {
		switch c := text[i]; c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return i
			}
			depth--
		case ',':
			if depth == 0 {
				return i
			}
		case '"', '\'', '`':
			if _, end, ok := readLiteral(text, i); ok {
				i = end
				continue
			}
		}
		i++
	}
	return i
}

func spanOf(f *source.File, start, end int) source.Span {
	return source.Span{File: f.ID, Start: uint32(start), End: uint32(end)} // #nosec G115 -- file size checked by FileSet.Add
}
