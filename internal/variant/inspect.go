package variant

import "sort"

// IssueKind classifies syntax that Expand leaves untouched.
type IssueKind uint8

const (
	IssueUnclosedGroup IssueKind = iota + 1
	IssueEmptyGroup
	IssueStrayParen
	IssueUnclosedBracket
)

func (k IssueKind) String() string {
	switch k {
	case IssueUnclosedGroup:
		return "unclosed-group"
	case IssueEmptyGroup:
		return "empty-group"
	case IssueStrayParen:
		return "stray-paren"
	case IssueUnclosedBracket:
		return "unclosed-bracket"
	default:
		return "unknown"
	}
}

// Issue points at a byte range of the inspected string.
type Issue struct {
	Kind  IssueKind
	Start int
	End   int
}

// Message returns a human readable description.
func (i Issue) Message() string {
	switch i.Kind {
	case IssueUnclosedGroup:
		return "variant group is never closed"
	case IssueEmptyGroup:
		return "variant group has no members"
	case IssueStrayParen:
		return "closing parenthesis without a group"
	case IssueUnclosedBracket:
		return "bracket literal is never closed"
	default:
		return "unknown issue"
	}
}

// Inspect reports malformed group syntax in s. Offsets refer to s as given,
// before whitespace normalization. Parentheses inside bracket literals are
// ignored.
func Inspect(s string) []Issue {
	var issues []Issue
	var opens []int
	var brackets *bracketTable
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			if brackets == nil {
				brackets = newBracketTable(s)
			}
			end, ok := brackets.end(i, true)
			if !ok {
				issues = append(issues, Issue{Kind: IssueUnclosedBracket, Start: i, End: i + 1})
				continue
			}
			i = end - 1
		case '(':
			opens = append(opens, i)
		case ')':
			if len(opens) == 0 {
				issues = append(issues, Issue{Kind: IssueStrayParen, Start: i, End: i + 1})
				continue
			}
			open := opens[len(opens)-1]
			opens = opens[:len(opens)-1]
			if open > 0 && isSep(s[open-1]) && blank(s[open+1:i]) {
				issues = append(issues, Issue{Kind: IssueEmptyGroup, Start: groupStart(s, open), End: i + 1})
			}
		}
	}
	for _, open := range opens {
		issues = append(issues, Issue{Kind: IssueUnclosedGroup, Start: groupStart(s, open), End: open + 1})
	}
	sort.SliceStable(issues, func(a, b int) bool {
		return issues[a].Start < issues[b].Start
	})
	return issues
}

func blank(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}

// groupStart walks back from the `(` at open to the first byte of its prefix.
func groupStart(s string, open int) int {
	i := open
	for i > 0 {
		c := s[i-1]
		if isSpace(c) || c == '(' || c == ')' {
			break
		}
		i--
	}
	return i
}
