package variant

import "strings"

// sweep runs one left-to-right pass over normalized text and expands every
// group it recognises, nested ones included. Text it cannot parse as a
// group is copied unchanged.
func sweep(s string) string {
	sc := scanner{s: s}
	if strings.IndexByte(s, '[') >= 0 {
		sc.brackets = newBracketTable(s)
	}
	var b strings.Builder
	last := 0
	matched := false
	for i := 0; i < len(s); {
		end, expanded, ok := sc.matchGroup(i)
		if ok {
			if !matched {
				b.Grow(len(s))
				matched = true
			}
			b.WriteString(s[last:i])
			b.WriteString(expanded)
			i = end
			last = end
			continue
		}
		if end > i {
			i = end
			continue
		}
		// скобочный литерал вне группы непрозрачен
		if s[i] == '[' {
			if end, ok := sc.brackets.end(i, false); ok {
				i = end
				continue
			}
		}
		i++
	}
	if !matched {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// scanner holds the state of one sweep. Body results depend only on the
// offset right after `(`, so each body is scanned at most once.
type scanner struct {
	s        string
	brackets *bracketTable
	bodies   map[int]bodyScan
}

type bodyScan struct {
	end  int
	body string
	ok   bool
}

// matchGroup tries to read `prefix<sep>(body)` starting exactly at start.
// The prefix grows one element at a time and the first separator followed
// by `(` with a well-formed body wins.
//
// On failure end is where the prefix run stopped. Every later start inside
// the run reaches the same `(` and fails the same way, so callers resume
// scanning at end.
func (sc *scanner) matchGroup(start int) (end int, expanded string, ok bool) {
	s := sc.s
	i := start
	for i < len(s) {
		next, ok := sc.prefixElem(i)
		if !ok {
			return i, "", false
		}
		i = next
		if i+1 < len(s) && isSep(s[i]) && s[i+1] == '(' {
			if end, body, ok := sc.scanBody(i + 2); ok {
				return end, expandMembers(s[start:i], s[i:i+1], body), true
			}
		}
	}
	return i, "", false
}

func (sc *scanner) prefixElem(i int) (int, bool) {
	if sc.s[i] == '[' {
		return sc.brackets.end(i, false)
	}
	if isPrefixChar(sc.s[i]) {
		return i + 1, true
	}
	return 0, false
}

// scanBody reads a group body starting right after `(` and returns the
// offset past the closing `)` together with the body text, nested groups
// already expanded.
func (sc *scanner) scanBody(i int) (end int, body string, ok bool) {
	if r, seen := sc.bodies[i]; seen {
		return r.end, r.body, r.ok
	}
	r := sc.readBody(i)
	if sc.bodies == nil {
		sc.bodies = make(map[int]bodyScan)
	}
	sc.bodies[i] = r
	return r.end, r.body, r.ok
}

func (sc *scanner) readBody(i int) bodyScan {
	s := sc.s
	var b strings.Builder
	last := i
	for i < len(s) {
		c := s[i]
		if c == ')' {
			b.WriteString(s[last:i])
			if b.Len() == 0 {
				return bodyScan{}
			}
			return bodyScan{end: i + 1, body: b.String(), ok: true}
		}
		end, expanded, ok := sc.matchGroup(i)
		if ok {
			// the expansion has to fit into this body, otherwise the outer
			// group waits for a later pass
			if !validBody(expanded) {
				return bodyScan{}
			}
			b.WriteString(s[last:i])
			b.WriteString(expanded)
			i = end
			last = end
			continue
		}
		if end > i {
			// prefix run without a group: '@' и '+' в теле запрещены
			if !validBody(s[i:end]) {
				return bodyScan{}
			}
			i = end
			continue
		}
		if c == '[' {
			end, ok := sc.brackets.end(i, true)
			if !ok {
				return bodyScan{}
			}
			i = end
			continue
		}
		if !isBodyChar(c) {
			return bodyScan{}
		}
		i++
	}
	return bodyScan{}
}

func validBody(s string) bool {
	for i := 0; i < len(s); {
		if s[i] == '[' {
			end, ok := bracketEnd(s, i, true)
			if !ok {
				return false
			}
			i = end
			continue
		}
		if !isBodyChar(s[i]) {
			return false
		}
		i++
	}
	return true
}

// expandMembers distributes prefix and sep over the whitespace separated
// members of body. `~` stands for the bare prefix; a leading `!` moves in
// front of the whole token.
func expandMembers(prefix, sep, body string) string {
	members := Fields(body)
	if len(members) == 0 {
		return ""
	}
	var b strings.Builder
	for i, m := range members {
		if i > 0 {
			b.WriteByte(' ')
		}
		if m == "~" {
			b.WriteString(prefix)
			continue
		}
		if strings.HasPrefix(m, "!") {
			b.WriteByte('!')
			m = m[1:]
		}
		b.WriteString(prefix)
		b.WriteString(sep)
		b.WriteString(m)
	}
	return b.String()
}
