package lang

import (
	"context"
	"testing"
)

// foldAll parses source and runs fold passes to a fixed point, returning
// the emitted result.
func foldAll(t *testing.T, source string) string {
	t.Helper()

	prog, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatalf("ParseString(%q) error = %v", source, err)
	}

	for range NodeCount(prog) + 1 {
		if FoldConstants(prog) == 0 {
			break
		}
	}

	return Emit(prog)
}

// TestFoldArithmetic tests numeric folding with coercion semantics.
func TestFoldArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2;", "3;\n"},
		{"2 * 3 + 4;", "10;\n"},
		{"10 / 4;", "2.5;\n"},
		{"7 % 3;", "1;\n"},
		{"1 - 2;", "-1;\n"},
		{"-5;", "-5;\n"},
		{"+'42';", "42;\n"},
		{"true + 1;", "2;\n"},
		{"null + 1;", "1;\n"},
		{"'3' * '4';", "12;\n"},
		{"'  8  ' - 0;", "8;\n"},
		{"'' + 0;", "'0';\n"},
		{"'0x10' * 1;", "16;\n"},
		{"'0b101' * 1;", "5;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := foldAll(t, tt.input); got != tt.want {
				t.Errorf("fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFoldNoLiteralSpelling tests that NaN and infinite results are left
// in place rather than folded.
func TestFoldNoLiteralSpelling(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 / 0;", "1 / 0;\n"},
		{"-1 / 0;", "-1 / 0;\n"},
		{"0 / 0;", "0 / 0;\n"},
		{"'x' * 2;", "'x' * 2;\n"},
		{"undefined + 1;", "undefined + 1;\n"},
		{"+'Infinity';", "+'Infinity';\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := foldAll(t, tt.input); got != tt.want {
				t.Errorf("fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFoldStringConcat tests that + concatenates when either operand is a
// string.
func TestFoldStringConcat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"'a' + 'b';", "'ab';\n"},
		{"'n=' + 42;", "'n=42';\n"},
		{"1 + '2';", "'12';\n"},
		{"'v' + true;", "'vtrue';\n"},
		{"'v' + null;", "'vnull';\n"},
		{"'v' + undefined;", "'vundefined';\n"},
		{"'n=' + 1.5;", "'n=1.5';\n"},
		{"'n=' + -0;", "'n=0';\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := foldAll(t, tt.input); got != tt.want {
				t.Errorf("fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFoldEquality tests strict and loose equality folding.
func TestFoldEquality(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 === 1;", "true;\n"},
		{"1 === '1';", "false;\n"},
		{"1 == '1';", "true;\n"},
		{"0 == false;", "true;\n"},
		{"null == undefined;", "true;\n"},
		{"null === undefined;", "false;\n"},
		{"null == 0;", "false;\n"},
		{"'a' !== 'b';", "true;\n"},
		{"1 != 2;", "true;\n"},
		{"'abc' === 'abc';", "true;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := foldAll(t, tt.input); got != tt.want {
				t.Errorf("fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFoldRelational tests ordering comparisons over strings and numbers.
func TestFoldRelational(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 < 2;", "true;\n"},
		{"2 <= 2;", "true;\n"},
		{"3 > 4;", "false;\n"},
		{"'a' < 'b';", "true;\n"},
		{"'10' < '9';", "true;\n"},
		{"'10' < 9;", "false;\n"},
		{"'x' < 1;", "false;\n"},
		{"'x' >= 1;", "false;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := foldAll(t, tt.input); got != tt.want {
				t.Errorf("fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFoldLogical tests that short-circuit folding yields the operand the
// evaluation would yield.
func TestFoldLogical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"true && x;", "x;\n"},
		{"false && x;", "false;\n"},
		{"true || x;", "true;\n"},
		{"false || x;", "x;\n"},
		{"0 || 'default';", "'default';\n"},
		{"'' || fallback();", "fallback();\n"},
		{"x && y;", "x && y;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := foldAll(t, tt.input); got != tt.want {
				t.Errorf("fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFoldUnary tests logical not and typeof folding.
func TestFoldUnary(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"!true;", "false;\n"},
		{"!0;", "true;\n"},
		{"!'';", "true;\n"},
		{"!'x';", "false;\n"},
		{"!null;", "true;\n"},
		{"!undefined;", "true;\n"},
		{"typeof 'a';", "'string';\n"},
		{"typeof 1;", "'number';\n"},
		{"typeof true;", "'boolean';\n"},
		{"typeof undefined;", "'undefined';\n"},
		{"typeof null;", "'object';\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := foldAll(t, tt.input); got != tt.want {
				t.Errorf("fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFoldTernary tests conditional expression folding.
func TestFoldTernary(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"true ? a : b;", "a;\n"},
		{"false ? a : b;", "b;\n"},
		{"1 < 2 ? 'y' : 'n';", "'y';\n"},
		{"x ? a : b;", "x ? a : b;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := foldAll(t, tt.input); got != tt.want {
				t.Errorf("fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestEliminateDeadBranches tests statement-level conditional culling.
func TestEliminateDeadBranches(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
		want  string
	}{
		{
			name:  "if true keeps then",
			input: "if (true) { a(); } else { b(); }",
			count: 1,
			want:  "{\n  a();\n}\n",
		},
		{
			name:  "if false keeps else",
			input: "if (false) { a(); } else { b(); }",
			count: 1,
			want:  "{\n  b();\n}\n",
		},
		{
			name:  "if false without else vanishes",
			input: "if (false) { a(); }",
			count: 1,
			want:  "",
		},
		{
			name:  "while false vanishes",
			input: "while (false) { spin(); }",
			count: 1,
			want:  "",
		},
		{
			name:  "while true survives",
			input: "while (true) { spin(); }",
			count: 0,
			want:  "while (true) {\n  spin();\n}\n",
		},
		{
			name:  "for falsy keeps initializer",
			input: "for (var i = 0; false; i++) { body(); }",
			count: 1,
			want:  "var i = 0;\n",
		},
		{
			name:  "for falsy without init vanishes",
			input: "for (; false; ) { body(); }",
			count: 1,
			want:  "",
		},
		{
			name:  "for without condition survives",
			input: "for (;;) { body(); }",
			count: 0,
			want:  "for (; ; ) {\n  body();\n}\n",
		},
		{
			name:  "nested in function body",
			input: "function f() { if (false) { a(); } }",
			count: 1,
			want:  "function f() {\n}\n",
		},
		{
			name:  "nested in function expression",
			input: "var f = function () { if (true) { a(); } };",
			count: 1,
			want:  "var f = function () {\n  {\n    a();\n  }\n};\n",
		},
		{
			name:  "non-literal condition untouched",
			input: "if (x) { a(); }",
			count: 0,
			want:  "if (x) {\n  a();\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error = %v", tt.input, err)
			}

			if got := EliminateDeadBranches(prog); got != tt.count {
				t.Errorf("EliminateDeadBranches count = %d, want %d", got, tt.count)
			}

			if got := Emit(prog); got != tt.want {
				t.Errorf("Emit = %q, want %q", got, tt.want)
			}
		})
	}
}
