package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatal(err)
	}

	return buf.String(), runErr
}

// writeSource writes a temp source file and returns its path.
func writeSource(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.js")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// TestCullRun tests the default command end to end.
func TestCullRun(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		defines []string
		want    string
	}{
		{
			name:    "dead branch culled",
			source:  "if (DEBUG) { trace(); } run();",
			defines: []string{"DEBUG=false"},
			want:    "run();\n",
		},
		{
			name:    "dotted define",
			source:  "if (process.env.NODE_ENV === 'production') { a(); } else { b(); }",
			defines: []string{"process.env.NODE_ENV=production"},
			want:    "{\n  a();\n}\n",
		},
		{
			name:   "no defines normalizes",
			source: "if(x){y( );}",
			want:   "if (x) {\n  y();\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cull := &Cull{
				Define: tt.defines,
				Source: writeSource(t, tt.source),
			}

			output, err := captureStdout(t, func() error {
				return cull.Run(context.Background())
			})
			if err != nil {
				t.Fatalf("Cull.Run() error = %v", err)
			}

			if output != tt.want {
				t.Errorf("output = %q, want %q", output, tt.want)
			}
		})
	}
}

// TestCullRunStdin tests reading the source from stdin.
func TestCullRunStdin(t *testing.T) {
	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdin = r

	go func() {
		defer w.Close()
		io.WriteString(w, "if (DEBUG) { t(); } r();")
	}()

	cull := &Cull{
		Define: []string{"DEBUG=false"},
		Source: "-",
	}

	output, runErr := captureStdout(t, func() error {
		return cull.Run(context.Background())
	})
	if runErr != nil {
		t.Fatalf("Cull.Run() error = %v", runErr)
	}

	if output != "r();\n" {
		t.Errorf("output = %q, want %q", output, "r();\n")
	}
}

// TestCullRunWrite tests in-place rewriting.
func TestCullRunWrite(t *testing.T) {
	path := writeSource(t, "if (DEBUG) { t(); } r();")

	cull := &Cull{
		Define: []string{"DEBUG=false"},
		Write:  true,
		Source: path,
	}

	output, err := captureStdout(t, func() error {
		return cull.Run(context.Background())
	})
	if err != nil {
		t.Fatalf("Cull.Run() error = %v", err)
	}

	if output != "" {
		t.Errorf("output = %q, want nothing on stdout with -w", output)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "r();\n" {
		t.Errorf("rewritten file = %q, want %q", string(data), "r();\n")
	}
}

// TestCullRunParseError tests that malformed input reports an error.
func TestCullRunParseError(t *testing.T) {
	cull := &Cull{Source: writeSource(t, "if (a { b; }")}

	_, err := captureStdout(t, func() error {
		return cull.Run(context.Background())
	})
	if err == nil {
		t.Error("Cull.Run() expected parse error")
	}
}

// TestCullRunDefineFile tests transformation with a YAML define table.
func TestCullRunDefineFile(t *testing.T) {
	defines := filepath.Join(t.TempDir(), "defines.yaml")

	content := "process:\n  env:\n    NODE_ENV: production\n"
	if err := os.WriteFile(defines, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cull := &Cull{
		Defines: defines,
		Source: writeSource(
			t, "if (process.env.NODE_ENV !== 'production') { dev(); } ship();",
		),
	}

	output, err := captureStdout(t, func() error {
		return cull.Run(context.Background())
	})
	if err != nil {
		t.Fatalf("Cull.Run() error = %v", err)
	}

	if output != "ship();\n" {
		t.Errorf("output = %q, want %q", output, "ship();\n")
	}
}
