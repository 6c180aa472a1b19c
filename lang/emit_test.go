package lang

import (
	"context"
	"testing"
)

// TestEmitNormalization tests layout normalization of whole statements.
func TestEmitNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unbraced bodies gain braces",
			input: "if (a) b; else c;",
			want:  "if (a) {\n  b;\n} else {\n  c;\n}\n",
		},
		{
			name:  "else if stays on one line",
			input: "if (a) { x; } else if (b) { y; } else { z; }",
			want:  "if (a) {\n  x;\n} else if (b) {\n  y;\n} else {\n  z;\n}\n",
		},
		{
			name:  "while body",
			input: "while (a) b;",
			want:  "while (a) {\n  b;\n}\n",
		},
		{
			name:  "nested indentation",
			input: "if (a) { if (b) { c; } }",
			want:  "if (a) {\n  if (b) {\n    c;\n  }\n}\n",
		},
		{
			name:  "double quotes become single",
			input: `x = "hi";`,
			want:  "x = 'hi';\n",
		},
		{
			name:  "var declarators",
			input: "var a=1,b = 2 ;",
			want:  "var a = 1, b = 2;\n",
		},
		{
			name:  "empty statement dropped",
			input: "a; ; b;",
			want:  "a;\nb;\n",
		},
		{
			name:  "object literal statement grouped",
			input: "({ a: 1 });",
			want:  "({ a: 1 });\n",
		},
		{
			name:  "function expression statement grouped",
			input: "(function () { });",
			want:  "(function () {\n});\n",
		},
		{
			name:  "empty object",
			input: "x = {};",
			want:  "x = {};\n",
		},
		{
			name:  "quoted object key",
			input: "x = { 'a b': 1 };",
			want:  "x = { 'a b': 1 };\n",
		},
		{
			name:  "array literal",
			input: "x = [1, 'a', true];",
			want:  "x = [1, 'a', true];\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error = %v", tt.input, err)
			}

			if got := Emit(prog); got != tt.want {
				t.Errorf("Emit = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestEmitStable tests that emitted output re-parses and re-emits
// unchanged.
func TestEmitStable(t *testing.T) {
	inputs := []string{
		"if (a) { b(); } else if (c) { d(); }",
		"for (var i = 0; i < 10; i++) { f(i); }",
		"var x = { a: 1, 'b c': [2, 3] };",
		"function f(a, b) { return a + b * 2; }",
		"x = y ? -1 : +1;",
		"while (a && !b) { a = a - 1; }",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Format(context.Background(), input)
			if err != nil {
				t.Fatalf("Format(%q) error = %v", input, err)
			}

			second, err := Format(context.Background(), first)
			if err != nil {
				t.Fatalf("Format(second) error = %v", err)
			}

			if first != second {
				t.Errorf("unstable emit:\nfirst  = %q\nsecond = %q", first, second)
			}
		})
	}
}

// TestQuoteRoundTrip tests that Quote output decodes back to the original
// value through the lexer.
func TestQuoteRoundTrip(t *testing.T) {
	values := []string{
		"",
		"plain",
		"it's",
		`back\slash`,
		"line\nbreak",
		"tab\there",
		"ctrl\x01char",
		"unicode é世",
	}

	for _, value := range values {
		t.Run(value, func(t *testing.T) {
			quoted := Quote(value)

			tokens, err := Tokenize(quoted)
			if err != nil {
				t.Fatalf("Tokenize(%q) error = %v", quoted, err)
			}

			if tokens[0].Type != STRING || tokens[0].Str != value {
				t.Errorf("round trip of %q through %q = %q", value, quoted, tokens[0].Str)
			}
		})
	}
}

// TestLiteralString tests literal source rendering.
func TestLiteralString(t *testing.T) {
	tests := []struct {
		lit  *Literal
		want string
	}{
		{&Literal{Kind: LitNumber, Num: 42}, "42"},
		{&Literal{Kind: LitNumber, Num: 1.5}, "1.5"},
		{&Literal{Kind: LitNumber, Num: 0}, "0"},
		{&Literal{Kind: LitString, Str: "hi"}, "'hi'"},
		{&Literal{Kind: LitBool, Bool: true}, "true"},
		{&Literal{Kind: LitBool}, "false"},
		{&Literal{Kind: LitNull}, "null"},
		{&Literal{Kind: LitUndefined}, "undefined"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.lit.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestEmitUnarySpacing tests that stacked sign operators keep a separating
// space.
func TestEmitUnarySpacing(t *testing.T) {
	prog := &Program{Body: []Stmt{
		&ExprStmt{X: &Unary{Op: MINUS, X: &Unary{Op: MINUS, X: &Ident{Name: "x"}}}},
	}}

	if got, want := Emit(prog), "- -x;\n"; got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}
