package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve_ReadsFlagValues(t *testing.T) {
	doc := `
log-level: debug
log_format: text
fold-budget: 64
log_pretty: true
`

	resolver, err := resolve(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	tests := []struct {
		name     string
		flag     string
		expected any
	}{
		{"hyphen key", "log-level", "debug"},
		{"underscore key via hyphen flag", "log-format", "text"},
		{"number as string", "fold-budget", "64"},
		{"bool passthrough", "log-pretty", true},
		{"missing flag", "output", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFlag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			val, err := resolver.Resolve(nil, nil, mockFlag)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}

			if val != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, val)
			}
		})
	}
}

func TestResolve_MalformedConfigIsEmpty(t *testing.T) {
	resolver, err := resolve(strings.NewReader("not: [valid\n"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	mockFlag := &kong.Flag{Value: &kong.Value{Name: "log-level"}}

	val, err := resolver.Resolve(nil, nil, mockFlag)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("expected nil from empty config, got %v", val)
	}
}

func TestResolve_ReadErrorIsEmpty(t *testing.T) {
	resolver, err := resolve(&errorReader{})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	mockFlag := &kong.Flag{Value: &kong.Value{Name: "log-level"}}

	val, err := resolver.Resolve(nil, nil, mockFlag)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("expected nil from unreadable config, got %v", val)
	}
}

func TestResolve_ValidateAlwaysPasses(t *testing.T) {
	resolver, err := resolve(strings.NewReader("log-level: info\n"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if err := resolver.Validate(nil); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

// errorReader is a reader that always returns an error.
type errorReader struct{}

func (e *errorReader) Read([]byte) (int, error) {
	return 0, errors.New("read refused")
}
