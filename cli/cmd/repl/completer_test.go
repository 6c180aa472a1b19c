package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/defcull/lang"
)

func TestWordBounds_ExprOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "typeof(fo", 9, "fo", 7, 9},
		{"after_comma", "f(a, fo", 7, "fo", 5, 7},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		// Minus splits words, matching expression syntax.
		{"after_minus", "a - DEB", 7, "DEB", 4, 7},
		{"underscored", "NODE_ENV", 8, "NODE_ENV", 0, 8},
		// After dot is an empty word (for triggering child completions).
		{"empty_after_dot", "config.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath_WithOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x = a.b.", 8, "a.b"},
		{"underscored_chain", "process.env.", 12, "process.env"},
		{"partial_member", "process.env.NODE", 12, "process.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	table := lang.Table{
		"DEBUG":                {Kind: lang.LitBool},
		"process.env.NODE_ENV": {Kind: lang.LitString, Str: "production"},
		"process.env.PORT":     {Kind: lang.LitNumber, Num: 8080},
		"process.platform":     {Kind: lang.LitString, Str: "linux"},
	}

	tests := []struct {
		name   string
		parent string
		want   []string
	}{
		{
			name:   "roots_and_keywords",
			parent: "",
			want: []string{
				"DEBUG", "false", "null", "process",
				"true", "typeof", "undefined",
			},
		},
		{
			name:   "first_level",
			parent: "process",
			want:   []string{"env", "platform"},
		},
		{
			name:   "second_level",
			parent: "process.env",
			want:   []string{"NODE_ENV", "PORT"},
		},
		{
			name:   "leaf_has_no_children",
			parent: "process.env.NODE_ENV",
			want:   nil,
		},
		{
			name:   "unknown_parent",
			parent: "window",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := childCandidates(table, tt.parent)
			if !slices.Equal(got, tt.want) {
				t.Errorf("childCandidates(%q) = %v, want %v",
					tt.parent, got, tt.want)
			}
		})
	}
}
