package variant

import "testing"

func TestInspect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Issue
	}{
		{name: "clean", input: "hover:(a b) c", want: nil},
		{name: "brackets hide parens", input: "b:[&:not(c)]:d:(!a z) md:(h-[calc(100%-4rem)])", want: nil},
		{
			name:  "unclosed group",
			input: "x a:(b c",
			want:  []Issue{{Kind: IssueUnclosedGroup, Start: 2, End: 5}},
		},
		{
			name:  "empty group and stray paren",
			input: "a:() b)",
			want: []Issue{
				{Kind: IssueEmptyGroup, Start: 0, End: 4},
				{Kind: IssueStrayParen, Start: 6, End: 7},
			},
		},
		{
			name:  "blank group",
			input: "p-( \n )",
			want:  []Issue{{Kind: IssueEmptyGroup, Start: 0, End: 7}},
		},
		{
			name:  "unclosed bracket",
			input: "w-[x y",
			want:  []Issue{{Kind: IssueUnclosedBracket, Start: 2, End: 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Inspect(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Inspect(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("issue %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIssueMessages(t *testing.T) {
	for k := IssueUnclosedGroup; k <= IssueUnclosedBracket; k++ {
		if k.String() == "unknown" {
			t.Errorf("kind %d has no name", k)
		}
		if (Issue{Kind: k}).Message() == "unknown issue" {
			t.Errorf("kind %s has no message", k)
		}
	}
}

func TestFields(t *testing.T) {
	got := Fields(" a\tb \n c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Fields = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Fields[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
