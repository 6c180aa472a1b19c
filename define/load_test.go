package define

import (
	"context"
	"strings"
	"testing"

	"github.com/ardnew/defcull/lang"
)

// TestLoadReader tests YAML define table loading.
func TestLoadReader(t *testing.T) {
	input := `
DEBUG: false
retries: 3
timeout: 1.5
name: production
empty: null
process:
  env:
    NODE_ENV: production
    PORT: 8080
feature:
  flags:
    beta: true
`

	table, err := LoadReader(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadReader error = %v", err)
	}

	tests := []struct {
		key  string
		kind lang.LitKind
		str  string
		num  float64
	}{
		{key: "DEBUG", kind: lang.LitBool},
		{key: "retries", kind: lang.LitNumber, num: 3},
		{key: "timeout", kind: lang.LitNumber, num: 1.5},
		{key: "name", kind: lang.LitString, str: "production"},
		{key: "empty", kind: lang.LitNull},
		{key: "process.env.NODE_ENV", kind: lang.LitString, str: "production"},
		{key: "process.env.PORT", kind: lang.LitNumber, num: 8080},
		{key: "feature.flags.beta", kind: lang.LitBool},
	}

	if len(table) != len(tests) {
		t.Errorf("len = %d, want %d", len(table), len(tests))
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			lit, ok := table[tt.key]
			if !ok {
				t.Fatalf("key %q missing", tt.key)
			}

			if lit.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", lit.Kind, tt.kind)
			}

			switch tt.kind {
			case lang.LitString:
				if lit.Str != tt.str {
					t.Errorf("Str = %q, want %q", lit.Str, tt.str)
				}
			case lang.LitNumber:
				if lit.Num != tt.num {
					t.Errorf("Num = %v, want %v", lit.Num, tt.num)
				}
			}
		})
	}
}

// TestLoadReaderEmpty tests that empty input yields an empty table.
func TestLoadReaderEmpty(t *testing.T) {
	table, err := LoadReader(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadReader error = %v", err)
	}

	if len(table) != 0 {
		t.Errorf("len = %d, want 0", len(table))
	}
}

// TestLoadReaderExpr tests {{ ... }} expression evaluation in values.
func TestLoadReaderExpr(t *testing.T) {
	input := `
sum: '{{ 1 + 2 }}'
greeting: "{{ 'hello, ' + 'world' }}"
flag: '{{ 2 > 1 }}'
literal: 'no braces here'
blank: '{{ }}'
`

	table, err := LoadReader(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadReader error = %v", err)
	}

	if lit := table["sum"]; lit.Kind != lang.LitNumber || lit.Num != 3 {
		t.Errorf("sum = %v, want number 3", lit)
	}

	if lit := table["greeting"]; lit.Kind != lang.LitString || lit.Str != "hello, world" {
		t.Errorf("greeting = %v, want 'hello, world'", lit)
	}

	if lit := table["flag"]; lit.Kind != lang.LitBool || !lit.Bool {
		t.Errorf("flag = %v, want true", lit)
	}

	if lit := table["literal"]; lit.Kind != lang.LitString || lit.Str != "no braces here" {
		t.Errorf("literal = %v, want plain string", lit)
	}

	if lit := table["blank"]; lit.Kind != lang.LitString || lit.Str != "" {
		t.Errorf("blank = %v, want empty string", lit)
	}
}

// TestLoadReaderBadYAML tests that malformed documents are rejected.
func TestLoadReaderBadYAML(t *testing.T) {
	_, err := LoadReader(context.Background(), strings.NewReader("a: [1, 2\n"))
	if err == nil {
		t.Fatal("LoadReader error = nil, want YAML error")
	}

	if !strings.Contains(err.Error(), "failed to load define table") {
		t.Errorf("error = %q", err)
	}
}

// TestLoadReaderBadExpr tests that a broken expression names the define.
func TestLoadReaderBadExpr(t *testing.T) {
	_, err := LoadReader(
		context.Background(),
		strings.NewReader("bad: '{{ 1 +++ }}'\n"),
	)
	if err == nil {
		t.Fatal("LoadReader error = nil, want compile error")
	}

	if !strings.Contains(err.Error(), "failed to compile define expression") {
		t.Errorf("error = %q", err)
	}
}

// TestLoadReaderSequenceValue tests that sequence values are rejected.
func TestLoadReaderSequenceValue(t *testing.T) {
	_, err := LoadReader(
		context.Background(),
		strings.NewReader("xs: [1, 2, 3]\n"),
	)
	if err == nil {
		t.Fatal("LoadReader error = nil, want unsupported value error")
	}

	if !strings.Contains(err.Error(), "unsupported define value") {
		t.Errorf("error = %q", err)
	}
}
