package lang

import (
	"context"
	"strings"
	"testing"
)

// TestTransform tests the full pipeline end to end.
func TestTransform(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		table       Table
		want        string
		substituted int
		eliminated  int
	}{
		{
			name:   "guarded debug block removed",
			source: "if (DEBUG) { log('on'); } run();",
			table:  Table{"DEBUG": boolean(false)},
			want:   "run();\n",

			substituted: 1,
			eliminated:  1,
		},
		{
			name:   "string equality selects branch",
			source: "if (bar === 'bar') { yes(); } else { no(); }",
			table:  Table{"bar": str("bar")},
			want:   "{\n  yes();\n}\n",

			substituted: 1,
			eliminated:  1,
		},
		{
			name:   "dotted define folds through comparison",
			source: "if (process.env.NODE_ENV === 'production') { min(); } else { dev(); }",
			table:  Table{"process.env.NODE_ENV": str("production")},
			want:   "{\n  min();\n}\n",

			substituted: 1,
			eliminated:  1,
		},
		{
			name:   "cascade eliminates outer then inner",
			source: "if (A) { if (B) { f(); } g(); }",
			table:  Table{"A": boolean(true), "B": boolean(false)},
			want:   "{\n  g();\n}\n",

			substituted: 2,
			eliminated:  2,
		},
		{
			name:   "while false culled",
			source: "while (SPIN) { work(); } done();",
			table:  Table{"SPIN": boolean(false)},
			want:   "done();\n",

			substituted: 1,
			eliminated:  1,
		},
		{
			name:   "for falsy keeps initializer",
			source: "for (var i = 0; ENABLED; i++) { step(); }",
			table:  Table{"ENABLED": boolean(false)},
			want:   "var i = 0;\n",

			substituted: 1,
			eliminated:  1,
		},
		{
			name:   "ternary folds without elimination",
			source: "var level = VERBOSE ? 'debug' : 'info';",
			table:  Table{"VERBOSE": boolean(true)},
			want:   "var level = 'debug';\n",

			substituted: 1,
			eliminated:  0,
		},
		{
			name:   "logical fallback collapses",
			source: "var host = HOST || 'localhost';",
			table:  Table{"HOST": str("")},
			want:   "var host = 'localhost';\n",

			substituted: 1,
			eliminated:  0,
		},
		{
			name:   "shadowed define untouched",
			source: "function f() { var DEBUG = true; if (DEBUG) { x(); } } if (DEBUG) { y(); }",
			table:  Table{"DEBUG": boolean(false)},
			want:   "function f() {\n  var DEBUG = true;\n  if (DEBUG) {\n    x();\n  }\n}\n",

			substituted: 1,
			eliminated:  1,
		},
		{
			name:   "empty table normalizes only",
			source: "if(a){b( );}",
			table:  Table{},
			want:   "if (a) {\n  b();\n}\n",

			substituted: 0,
			eliminated:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Transform(context.Background(), tt.source, tt.table)
			if err != nil {
				t.Fatalf("Transform error = %v", err)
			}

			if result.Source != tt.want {
				t.Errorf("Source = %q, want %q", result.Source, tt.want)
			}

			if result.Substituted != tt.substituted {
				t.Errorf("Substituted = %d, want %d", result.Substituted, tt.substituted)
			}

			if result.Eliminated != tt.eliminated {
				t.Errorf("Eliminated = %d, want %d", result.Eliminated, tt.eliminated)
			}

			if result.Passes < 1 {
				t.Errorf("Passes = %d, want at least 1", result.Passes)
			}
		})
	}
}

// TestTransformIdempotent tests that transforming the output again with the
// same table changes nothing further.
func TestTransformIdempotent(t *testing.T) {
	table := Table{"DEBUG": boolean(false), "process.env.NODE_ENV": str("production")}
	source := `
if (DEBUG) { trace(); }
if (process.env.NODE_ENV === 'production') { compact(); } else { verbose(); }
var retries = DEBUG ? 100 : 3;
`

	first, err := Transform(context.Background(), source, table)
	if err != nil {
		t.Fatalf("Transform error = %v", err)
	}

	second, err := Transform(context.Background(), first.Source, table)
	if err != nil {
		t.Fatalf("Transform(second) error = %v", err)
	}

	if second.Source != first.Source {
		t.Errorf("not idempotent:\nfirst  = %q\nsecond = %q", first.Source, second.Source)
	}

	if second.Substituted != 0 || second.Eliminated != 0 {
		t.Errorf("second pass counters = (%d, %d), want (0, 0)",
			second.Substituted, second.Eliminated)
	}
}

// TestTransformInputUnchanged tests that the input string is never
// modified (strings are immutable, but the result must be distinct).
func TestTransformPreservesRuntimeConditions(t *testing.T) {
	// Conditions that depend on runtime values must survive untouched.
	source := "if (user.isAdmin) { panel(); }\n"

	result, err := Transform(context.Background(), source, Table{"DEBUG": boolean(true)})
	if err != nil {
		t.Fatalf("Transform error = %v", err)
	}

	if result.Source != "if (user.isAdmin) {\n  panel();\n}\n" {
		t.Errorf("Source = %q", result.Source)
	}

	if result.Eliminated != 0 {
		t.Errorf("Eliminated = %d, want 0", result.Eliminated)
	}
}

// TestTransformParseError tests that malformed input aborts with no
// partial output.
func TestTransformParseError(t *testing.T) {
	result, err := Transform(context.Background(), "if (a { b; }", Table{})
	if err == nil {
		t.Fatal("Transform error = nil, want parse error")
	}

	if result != nil {
		t.Errorf("result = %v, want nil on error", result)
	}
}

// TestTransformFoldBudget tests that a tiny explicit budget aborts a
// transformation that needs more passes.
func TestTransformFoldBudget(t *testing.T) {
	// Deeply nested folds need several passes through elimination: each
	// pass removes one level of if-nesting. With budget 1 the pipeline
	// must give up.
	source := "if (A) { if (A) { if (A) { f(); } } }"

	_, err := Transform(
		context.Background(), source,
		Table{"A": boolean(true)},
		WithFoldBudget(1),
	)
	if err == nil {
		t.Fatal("Transform error = nil, want budget error")
	}

	if !strings.Contains(err.Error(), "budget") {
		t.Errorf("error = %q, want budget exceeded", err)
	}

	// The derived default budget must be ample for the same input.
	result, err := Transform(context.Background(), source, Table{"A": boolean(true)})
	if err != nil {
		t.Fatalf("Transform error = %v", err)
	}

	if result.Eliminated != 3 {
		t.Errorf("Eliminated = %d, want 3", result.Eliminated)
	}
}

// TestTableValidate tests symbol table validation.
func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{name: "empty", table: Table{}},
		{name: "simple name", table: Table{"DEBUG": boolean(true)}},
		{name: "dotted path", table: Table{"a.b.c": num(1)}},
		{name: "nil value", table: Table{"X": nil}, wantErr: true},
		{name: "empty segment", table: Table{"a..b": num(1)}, wantErr: true},
		{name: "leading dot", table: Table{".a": num(1)}, wantErr: true},
		{name: "numeric segment", table: Table{"a.1": num(1)}, wantErr: true},
		{name: "reserved word key", table: Table{"function": num(1)}, wantErr: true},
		{name: "empty key", table: Table{"": num(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestTransformInvalidTable tests that validation runs before parsing.
func TestTransformInvalidTable(t *testing.T) {
	_, err := Transform(context.Background(), "a;", Table{"bad key": num(1)})
	if err == nil {
		t.Fatal("Transform error = nil, want table error")
	}

	if !strings.Contains(err.Error(), "invalid symbol table") {
		t.Errorf("error = %q, want invalid table", err)
	}
}
