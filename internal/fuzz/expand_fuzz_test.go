package fuzztests

import (
	"testing"

	"uno/internal/testkit"
	"uno/internal/variant"
)

const maxFuzzInput = 1 << 12 // 4 KiB

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}

func FuzzExpand(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		s := clampInput(input)
		out := variant.Expand(s)
		if err := testkit.CheckExpansion(s, out); err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzPatternEngine(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		s := clampInput(input)
		out := variant.ExpandWith(s, variant.Options{Engine: variant.EnginePattern})
		if out != variant.Normalize(out) && len(variant.Passes(s, variant.Options{Engine: variant.EnginePattern})) < variant.DefaultMaxDepth-1 {
			t.Fatalf("pattern engine returned unnormalized text %q", out)
		}
	})
}

func FuzzInspect(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		s := clampInput(input)
		if err := testkit.CheckIssues(s, variant.Inspect(s)); err != nil {
			t.Fatal(err)
		}
	})
}
