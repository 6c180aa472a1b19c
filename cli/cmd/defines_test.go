package cmd

import (
	"context"
	"testing"

	"github.com/ardnew/defcull/lang"
)

// TestDefinesRun tests free-variable listing against the symbol table.
func TestDefinesRun(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		defines []string
		all     bool
		want    string
	}{
		{
			name:    "resolved and unresolved",
			source:  "if (DEBUG) { log(msg); }",
			defines: []string{"DEBUG=false"},
			want:    "DEBUG = false\nlog\nmsg\n",
		},
		{
			name:    "dotted keys grouped under root",
			source:  "f(process.env.NODE_ENV, process.arch);",
			defines: []string{"process.env.NODE_ENV=production", "process.env.PORT=8080"},
			want: "f\n" +
				"process.env.NODE_ENV = 'production'\n" +
				"process.env.PORT = 8080\n",
		},
		{
			name:    "bound names omitted",
			source:  "var DEBUG = true; if (DEBUG) { x(); }",
			defines: []string{"DEBUG=false"},
			want:    "x\n",
		},
		{
			name:    "all flag lists unreachable entries",
			source:  "run();",
			defines: []string{"DEBUG=false", "UNUSED=1"},
			all:     true,
			want:    "run\n# DEBUG = false\n# UNUSED = 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defines := &Defines{
				Define: tt.defines,
				All:    tt.all,
				Source: writeSource(t, tt.source),
			}

			output, err := captureStdout(t, func() error {
				return defines.Run(context.Background())
			})
			if err != nil {
				t.Fatalf("Defines.Run() error = %v", err)
			}

			if output != tt.want {
				t.Errorf("output = %q, want %q", output, tt.want)
			}
		})
	}
}

// TestRootedKeys tests key lookup rooted at a free variable name.
func TestRootedKeys(t *testing.T) {
	table := lang.Table{
		"process.env.NODE_ENV": {Kind: lang.LitString, Str: "production"},
		"process.env.PORT":     {Kind: lang.LitNumber, Num: 8080},
		"processor":            {Kind: lang.LitNumber, Num: 1},
		"DEBUG":                {Kind: lang.LitBool},
	}

	tests := []struct {
		name string
		root string
		want int
	}{
		{name: "dotted root", root: "process", want: 2},
		{name: "exact key", root: "DEBUG", want: 1},
		{name: "prefix is not a path", root: "proc", want: 0},
		{name: "unknown", root: "window", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rootedKeys(table, tt.root); len(got) != tt.want {
				t.Errorf("rootedKeys(%q) = %v, want %d keys", tt.root, got, tt.want)
			}
		})
	}
}
