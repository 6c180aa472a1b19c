package lang

import (
	"context"
	"testing"
)

func str(s string) *Literal   { return &Literal{Kind: LitString, Str: s} }
func num(n float64) *Literal  { return &Literal{Kind: LitNumber, Num: n} }
func boolean(b bool) *Literal { return &Literal{Kind: LitBool, Bool: b} }

// TestSubstitute tests define replacement against scoping and path rules.
func TestSubstitute(t *testing.T) {
	tests := []struct {
		name  string
		input string
		table Table
		count int
		want  string
	}{
		{
			name:  "simple identifier",
			input: "DEBUG;",
			table: Table{"DEBUG": boolean(true)},
			count: 1,
			want:  "true;\n",
		},
		{
			name:  "multiple occurrences",
			input: "A + A + A;",
			table: Table{"A": num(2)},
			count: 3,
			want:  "2 + 2 + 2;\n",
		},
		{
			name:  "exact dotted path",
			input: "process.env.NODE_ENV;",
			table: Table{"process.env.NODE_ENV": str("production")},
			count: 1,
			want:  "'production';\n",
		},
		{
			name:  "prefix of a chain does not match the chain",
			input: "process.env.NODE_ENV;",
			table: Table{"process.env": str("nope")},
			count: 0,
			want:  "process.env.NODE_ENV;\n",
		},
		{
			name:  "inner chain is not a lookup site",
			input: "a.b.c.d;",
			table: Table{"a.b.c": num(1), "b.c.d": num(2)},
			count: 0,
			want:  "a.b.c.d;\n",
		},
		{
			name:  "root still matches under a longer chain",
			input: "a.b.c;",
			table: Table{"a": str("x")},
			count: 1,
			want:  "'x'.b.c;\n",
		},
		{
			name:  "maximal chain wins over root",
			input: "a.b;",
			table: Table{"a.b": num(1), "a": num(2)},
			count: 1,
			want:  "1;\n",
		},
		{
			name:  "root matches when chain misses",
			input: "a.b;",
			table: Table{"a": str("x")},
			count: 1,
			want:  "'x'.b;\n",
		},
		{
			name:  "bound root blocks substitution",
			input: "var DEBUG = 1; DEBUG;",
			table: Table{"DEBUG": boolean(true)},
			count: 0,
			want:  "var DEBUG = 1;\nDEBUG;\n",
		},
		{
			name:  "shadowed in function only",
			input: "function f(DEBUG) { return DEBUG; } DEBUG;",
			table: Table{"DEBUG": boolean(false)},
			count: 1,
			want:  "function f(DEBUG) {\n  return DEBUG;\n}\nfalse;\n",
		},
		{
			name:  "hoisted var shadows before declaration",
			input: "DEBUG; var DEBUG;",
			table: Table{"DEBUG": boolean(true)},
			count: 0,
			want:  "DEBUG;\nvar DEBUG;\n",
		},
		{
			name:  "let shadows only its block",
			input: "{ let A = 0; A; } A;",
			table: Table{"A": num(7)},
			count: 1,
			want:  "{\n  let A = 0;\n  A;\n}\n7;\n",
		},
		{
			name:  "assignment target is not substituted",
			input: "A = 1;",
			table: Table{"A": num(0)},
			count: 0,
			want:  "A = 1;\n",
		},
		{
			name:  "assignment value is substituted",
			input: "x = A;",
			table: Table{"A": num(5)},
			count: 1,
			want:  "x = 5;\n",
		},
		{
			name:  "update operand is not substituted",
			input: "A++;",
			table: Table{"A": num(0)},
			count: 0,
			want:  "A++;\n",
		},
		{
			name:  "index key inside a write target is substituted",
			input: "obj[KEY] = 1;",
			table: Table{"KEY": str("k")},
			count: 1,
			want:  "obj['k'] = 1;\n",
		},
		{
			name:  "call arguments are substituted",
			input: "log(LEVEL, msg);",
			table: Table{"LEVEL": num(3)},
			count: 1,
			want:  "log(3, msg);\n",
		},
		{
			name:  "object values substituted but keys kept",
			input: "x = { A: A };",
			table: Table{"A": num(9)},
			count: 1,
			want:  "x = { A: 9 };\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error = %v", tt.input, err)
			}

			if got := Substitute(prog, tt.table); got != tt.count {
				t.Errorf("Substitute count = %d, want %d", got, tt.count)
			}

			if got := Emit(prog); got != tt.want {
				t.Errorf("Emit = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSubstituteClones tests that substituted literals do not share nodes.
func TestSubstituteClones(t *testing.T) {
	lit := num(1)
	table := Table{"A": lit}

	prog, err := ParseString(context.Background(), "A; A;")
	if err != nil {
		t.Fatalf("ParseString error = %v", err)
	}

	Substitute(prog, table)

	first := prog.Body[0].(*ExprStmt).X.(*Literal)
	second := prog.Body[1].(*ExprStmt).X.(*Literal)

	if first == lit || second == lit || first == second {
		t.Error("substituted literals must be independent copies")
	}
}

// TestSubstituteEmptyTable tests that an empty table is a no-op.
func TestSubstituteEmptyTable(t *testing.T) {
	prog, err := ParseString(context.Background(), "a + b;")
	if err != nil {
		t.Fatalf("ParseString error = %v", err)
	}

	if got := Substitute(prog, nil); got != 0 {
		t.Errorf("Substitute count = %d, want 0", got)
	}
}
