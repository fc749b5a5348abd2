package variant_test

import (
	"strings"
	"testing"
	"time"

	"uno/internal/variant"
)

type expandCase struct {
	name  string
	input string
	want  string
}

// corpus is shared by both engines.
var corpus = []expandCase{
	{name: "empty", input: "", want: ""},
	{name: "whitespace only", input: " \n\t ", want: ""},
	{name: "plain tokens", input: "a b c", want: "a b c"},
	{name: "chained variants without group", input: "a:b:c", want: "a:b:c"},
	{name: "hover group", input: "hover:(bg-gray-400 font-medium)", want: "hover:bg-gray-400 hover:font-medium"},
	{name: "dash group", input: "font-(light mono)", want: "font-light font-mono"},
	{
		name:  "deep nesting",
		input: "a1 a2:(b1 b2:(c1 c2-(d1 d2) c3) b3) a3",
		want:  "a1 a2:b1 a2:b2:c1 a2:b2:c2-d1 a2:b2:c2-d2 a2:b2:c3 a2:b3 a3",
	},
	{
		name:  "stacked variants",
		input: "bg-white font-light sm:hover:(bg-gray-100 font-medium)",
		want:  "bg-white font-light sm:hover:bg-gray-100 sm:hover:font-medium",
	},
	{name: "lt breakpoint", input: "lt-sm:hover:(p-1 p-2)", want: "lt-sm:hover:p-1 lt-sm:hover:p-2"},
	{name: "lt shorthand", input: "<sm:hover:(p-1 p-2)", want: "<sm:hover:p-1 <sm:hover:p-2"},
	{name: "sm", input: "sm:(p-1 p-2)", want: "sm:p-1 sm:p-2"},
	{name: "dark lg", input: "dark:lg:(p-1 p-2)", want: "dark:lg:p-1 dark:lg:p-2"},
	{name: "at breakpoint", input: "at-lg:(p-1 p-2)", want: "at-lg:p-1 at-lg:p-2"},
	{name: "units", input: "md:(w-40vw pr-4.5rem)", want: "md:w-40vw md:pr-4.5rem"},
	{name: "arbitrary grid", input: "lt-md:(grid grid-cols-[1fr,50%])", want: "lt-md:grid lt-md:grid-cols-[1fr,50%]"},
	{name: "arbitrary grid lt", input: "<md:(grid grid-cols-[1fr,50%])", want: "<md:grid <md:grid-cols-[1fr,50%]"},
	{name: "important prefix", input: "!hover:(m-2 p-2)", want: "!hover:m-2 !hover:p-2"},
	{name: "important member multiline", input: "hover:(\n!m-2\np-2\n)", want: "!hover:m-2 hover:p-2"},
	{name: "important member trailing space", input: "hover:(\n!m-2 \np-2\n)", want: "!hover:m-2 hover:p-2"},
	{name: "calc bracket", input: "md:(w-1/2 h-[calc(100%-4rem)])", want: "md:w-1/2 md:h-[calc(100%-4rem)]"},
	{name: "self selector twice", input: "[&]:(w-4 h-4) [&]:(w-4 h-4)", want: "[&]:w-4 [&]:h-4 [&]:w-4 [&]:h-4"},
	{name: "self selector", input: "[&]:(a-b c-d)", want: "[&]:a-b [&]:c-d"},
	{name: "independent groups", input: "hello a:(b c) c:(a:b d)", want: "hello a:b a:c c:a:b c:d"},
	{name: "important member", input: "b:c:d:(!a z)", want: "!b:c:d:a b:c:d:z"},
	{name: "dash groups", input: "a-(b c) c-(a:b d)", want: "a-b a-c c-a:b c-d"},
	{name: "self placeholder", input: "a-(~ b c)", want: "a a-b a-c"},
	{name: "self placeholder padded", input: "a-( ~ b c )", want: "a a-b a-c"},
	{name: "nested dash", input: "a-(b c-(d e f))", want: "a-b a-c-d a-c-e a-c-f"},
	{name: "bracket with parens in prefix", input: "b:[&:not(c)]:d:(!a z)", want: "!b:[&:not(c)]:d:a b:[&:not(c)]:d:z"},
	{name: "surrounding whitespace", input: "  a:(b:(c-d d-c)) ", want: "a:b:c-d a:b:d-c"},
	{name: "at prefix", input: "@a:(c-d d-c)", want: "@a:c-d @a:d-c"},
	{name: "important at prefix", input: "!@a:(c-d d-c)", want: "!@a:c-d !@a:d-c"},
	{name: "question mark member", input: "a:(b?c d)", want: "a:b?c a:d"},
	{
		name:  "mixed whitespace",
		input: " \n \t text-(red\nlg:(sm blue)) \tm-(t1\n\t r-2)  \n ",
		want:  "text-red text-lg:sm text-lg:blue m-t1 m-r-2",
	},
	{
		name:  "multiline template",
		input: "p-(x4 y5)\ntext-red\n    text-lg\n            sm:fw300\n                m-(t1 r-2)",
		want:  "p-x4 p-y5 text-red text-lg sm:fw300 m-t1 m-r-2",
	},
	{name: "group glued to group", input: "a:(b c)-(d e)", want: "a:b a:c-d a:c-e"},
	{name: "placeholder inside nested", input: "hover:(text-(~ red) ~)", want: "hover:text hover:text-red hover"},
	{name: "blank group removed", input: "a:( ) b", want: "b"},
	{name: "empty group kept", input: "a:() b", want: "a:() b"},
	{name: "unclosed group kept", input: "x-(a b", want: "x-(a b"},
	{name: "plus prefix", input: "+a:(b c)", want: "+a:b +a:c"},
	{name: "invalid member char keeps group", input: "a:(b=c d)", want: "a:(b=c d)"},
	{name: "prefix after foreign char", input: "foo=bar:(a b)", want: "foo=bar:a bar:b"},
}

func TestExpand(t *testing.T) {
	for _, tt := range corpus {
		t.Run(tt.name, func(t *testing.T) {
			if got := variant.Expand(tt.input); got != tt.want {
				t.Fatalf("Expand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandPatternEngine(t *testing.T) {
	opts := variant.Options{Engine: variant.EnginePattern}
	for _, tt := range corpus {
		t.Run(tt.name, func(t *testing.T) {
			if got := variant.ExpandWith(tt.input, opts); got != tt.want {
				t.Fatalf("pattern engine: ExpandWith(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandIdempotent(t *testing.T) {
	for _, tt := range corpus {
		once := variant.Expand(tt.input)
		if twice := variant.Expand(once); twice != once {
			t.Errorf("%s: second expansion changed %q into %q", tt.name, once, twice)
		}
	}
}

func TestExpandBracketOpacity(t *testing.T) {
	// the parser never looks inside a bracket literal outside of a group
	in := "w-[x:(a_b)] p-(1 2)"
	want := "w-[x:(a_b)] p-1 p-2"
	if got := variant.Expand(in); got != want {
		t.Fatalf("Expand(%q) = %q, want %q", in, got, want)
	}
}

// Malformed input and long tokens must not make the parser backtrack: each
// case is far below a millisecond when every body is scanned once.
func TestExpandMalformedInputTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unclosed nested groups", input: strings.Repeat("aaaa-(", 40) + "b"},
		{name: "unclosed groups with members", input: strings.Repeat("x:(a b-(", 30) + "c"},
		{name: "long token", input: strings.Repeat("a", 200_000)},
		{name: "long token with separators", input: strings.Repeat("a-b:", 50_000)},
		{name: "unclosed brackets", input: strings.Repeat("[", 50_000)},
		{name: "unclosed brackets in group", input: "p-(" + strings.Repeat("[a", 20_000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, engine := range []variant.Engine{variant.EngineParser, variant.EnginePattern} {
				start := time.Now()
				got := variant.ExpandWith(tt.input, variant.Options{Engine: engine})
				if elapsed := time.Since(start); elapsed > 2*time.Second {
					t.Fatalf("%s: took %v on %d bytes", engine, elapsed, len(tt.input))
				}
				if got != tt.input {
					t.Fatalf("%s: malformed input changed: %q", engine, got)
				}
			}
			start := time.Now()
			variant.HasGroups(tt.input)
			variant.Inspect(tt.input)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Fatalf("HasGroups+Inspect took %v", elapsed)
			}
		})
	}
}

func TestExpandDeepNestingTime(t *testing.T) {
	const depth = 300
	in := strings.Repeat("a-(", depth) + "b" + strings.Repeat(")", depth)
	want := strings.Repeat("a-", depth) + "b"
	start := time.Now()
	if got := variant.Expand(in); got != want {
		t.Fatalf("Expand = %q, want %q", got, want)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("took %v", elapsed)
	}
}

// A group glued to the end of a finished group: the parser closes `a-(b)`
// first, the pattern engine expands the innermost group first and then sees
// `a-bc` as one prefix.
func TestEnginesDivergeOnGluedGroups(t *testing.T) {
	in := "a-(b)c-(d-(e f))"
	if got, want := variant.Expand(in), "a-bc-d-e c-d-f"; got != want {
		t.Fatalf("parser: %q, want %q", got, want)
	}
	got := variant.ExpandWith(in, variant.Options{Engine: variant.EnginePattern})
	if want := "a-bc-d-e a-bc-d-f"; got != want {
		t.Fatalf("pattern: %q, want %q", got, want)
	}
}

func TestPasses(t *testing.T) {
	in := "a-(b c-(d e f))"

	parser := variant.Passes(in, variant.Options{})
	if len(parser) != 1 || parser[0] != "a-b a-c-d a-c-e a-c-f" {
		t.Fatalf("parser passes = %q", parser)
	}

	pattern := variant.Passes(in, variant.Options{Engine: variant.EnginePattern})
	want := []string{"a-(b c-d c-e c-f)", "a-b a-c-d a-c-e a-c-f"}
	if len(pattern) != len(want) {
		t.Fatalf("pattern passes = %q, want %q", pattern, want)
	}
	for i := range want {
		if pattern[i] != want[i] {
			t.Fatalf("pass %d = %q, want %q", i, pattern[i], want[i])
		}
	}

	if got := variant.Passes("a b", variant.Options{}); got != nil {
		t.Fatalf("stable input produced passes %q", got)
	}
}

func TestPatternMaxDepth(t *testing.T) {
	in := "a-(b c-(d e f))"
	got := variant.ExpandWith(in, variant.Options{Engine: variant.EnginePattern, MaxDepth: 2})
	if want := "a-(b c-d c-e c-f)"; got != want {
		t.Fatalf("MaxDepth=2 got %q, want %q", got, want)
	}
	// the parser engine has no ceiling
	got = variant.ExpandWith(in, variant.Options{Engine: variant.EngineParser, MaxDepth: 1})
	if want := "a-b a-c-d a-c-e a-c-f"; got != want {
		t.Fatalf("parser got %q, want %q", got, want)
	}
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    variant.Engine
		wantErr bool
	}{
		{in: "", want: variant.EngineParser},
		{in: "parser", want: variant.EngineParser},
		{in: " Pattern ", want: variant.EnginePattern},
		{in: "regex", want: variant.EnginePattern},
		{in: "lalr", wantErr: true},
	}
	for _, tt := range tests {
		got, err := variant.ParseEngine(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseEngine(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEngine(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEngine(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"a":               "a",
		"  a  ":           "a",
		"a\t\n\v\f\rb":    "a b",
		"a b":             "a b",
		"\n a \n b \n c ": "a b c",
	}
	for in, want := range tests {
		if got := variant.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasGroups(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a b", false},
		{"  a \n b ", false},
		{"a:(b)", true},
		{"a:() b", false},
		{"md:(w-1/2 h-[calc(100%-4rem)])", true},
		{"h-[calc(100%-4rem)]", false},
	}
	for _, tt := range tests {
		if got := variant.HasGroups(tt.in); got != tt.want {
			t.Errorf("HasGroups(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
