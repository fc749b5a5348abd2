package variant

func isWord(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isSep(c byte) bool {
	return c == '-' || c == ':'
}

// isPrefixChar reports characters allowed in a group prefix outside of
// bracket segments.
func isPrefixChar(c byte) bool {
	if isWord(c) {
		return true
	}
	switch c {
	case '!', '@', '<', '~', '+', ':', '/', '-':
		return true
	}
	return false
}

// isBodyChar reports characters allowed in a group body outside of bracket
// literals. Parentheses, `@`, `+` and quotes are not body characters.
func isBodyChar(c byte) bool {
	if isWord(c) || isSpace(c) {
		return true
	}
	switch c {
	case '~', '!', '<', '>', ':', '/', '\\', ',', '%', '#', '.', '$', '?', '-':
		return true
	}
	return false
}

// bracketEnd returns the offset just past the `]` that balances the `[` at
// s[i]. With spaces=false the literal must not cross whitespace.
func bracketEnd(s string, i int, spaces bool) (int, bool) {
	depth := 0
	for j := i; j < len(s); j++ {
		c := s[j]
		switch {
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case !spaces && isSpace(c):
			return 0, false
		}
	}
	return 0, false
}

// bracketTable answers bracketEnd for one string in constant time.
type bracketTable struct {
	closeAt   []int // offset past the balancing `]`, 0 when unbalanced
	nextSpace []int
}

func newBracketTable(s string) *bracketTable {
	t := &bracketTable{
		closeAt:   make([]int, len(s)),
		nextSpace: make([]int, len(s)+1),
	}
	var open []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			open = append(open, i)
		case ']':
			if n := len(open); n > 0 {
				t.closeAt[open[n-1]] = i + 1
				open = open[:n-1]
			}
		}
	}
	t.nextSpace[len(s)] = len(s)
	for i := len(s) - 1; i >= 0; i-- {
		if isSpace(s[i]) {
			t.nextSpace[i] = i
		} else {
			t.nextSpace[i] = t.nextSpace[i+1]
		}
	}
	return t
}

// end is bracketEnd(s, i, spaces) for the `[` at s[i].
func (t *bracketTable) end(i int, spaces bool) (int, bool) {
	e := t.closeAt[i]
	if e == 0 || !spaces && t.nextSpace[i] < e {
		return 0, false
	}
	return e, true
}
