package testkit

import (
	"fmt"
	"strings"

	"uno/internal/variant"
)

// CheckExpansion runs a minimal set of invariants on one expansion result:
// 1) output is whitespace-normalized
// 2) expanding the output again changes nothing
// 3) input without groups only loses whitespace
// 4) no parenthesis pair outside brackets survives that could have expanded
func CheckExpansion(input, output string) error {
	// 1) normalized
	if output != variant.Normalize(output) {
		return fmt.Errorf("output is not normalized: %q", output)
	}

	// 2) fixed point
	if again := variant.Expand(output); again != output {
		return fmt.Errorf("expansion is not idempotent: %q -> %q", output, again)
	}

	// 3) no-op on plain text
	if !variant.HasGroups(input) && output != variant.Normalize(input) {
		return fmt.Errorf("input without groups changed: %q -> %q", input, output)
	}

	// 4) stable output has no expandable group left
	if variant.HasGroups(output) {
		return fmt.Errorf("output still has groups: %q", output)
	}
	return nil
}

// CheckIssues verifies that every issue range is inside input.
func CheckIssues(input string, issues []variant.Issue) error {
	for _, is := range issues {
		if is.Start < 0 || is.End > len(input) || is.Start >= is.End {
			return fmt.Errorf("issue %s has bad range [%d,%d) for input of %d bytes", is.Kind, is.Start, is.End, len(input))
		}
		switch is.Kind {
		case variant.IssueStrayParen:
			if input[is.Start] != ')' {
				return fmt.Errorf("stray paren issue points at %q", input[is.Start])
			}
		case variant.IssueUnclosedBracket:
			if input[is.Start] != '[' {
				return fmt.Errorf("bracket issue points at %q", input[is.Start])
			}
		case variant.IssueUnclosedGroup:
			if !strings.HasSuffix(input[is.Start:is.End], "(") {
				return fmt.Errorf("unclosed group issue does not end at '(': %q", input[is.Start:is.End])
			}
		}
	}
	return nil
}
