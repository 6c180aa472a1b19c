package lang

import (
	"context"
	"strings"
	"testing"
)

// TestTransformReader tests the reader-based pipeline entry.
func TestTransformReader(t *testing.T) {
	ClearCache()

	table := Table{"DEBUG": boolean(false)}
	source := "if (DEBUG) { trace(); } run();"

	result, err := TransformReader(
		context.Background(), strings.NewReader(source), table,
	)
	if err != nil {
		t.Fatalf("TransformReader error = %v", err)
	}

	if result.Source != "run();\n" {
		t.Errorf("Source = %q, want %q", result.Source, "run();\n")
	}
}

// TestTransformReaderCached tests that repeated transformations of the
// same input share one result.
func TestTransformReaderCached(t *testing.T) {
	ClearCache()

	table := Table{"A": num(1)}
	source := "x = A + 1;"

	first, err := TransformReader(
		context.Background(), strings.NewReader(source), table,
	)
	if err != nil {
		t.Fatalf("TransformReader error = %v", err)
	}

	second, err := TransformReader(
		context.Background(), strings.NewReader(source), table,
	)
	if err != nil {
		t.Fatalf("TransformReader(second) error = %v", err)
	}

	if first != second {
		t.Error("expected the cached result instance on the second call")
	}
}

// TestTransformReaderTableDistinct tests that different tables do not
// collide in the cache.
func TestTransformReaderTableDistinct(t *testing.T) {
	ClearCache()

	source := "x = A;"

	one, err := TransformReader(
		context.Background(), strings.NewReader(source), Table{"A": num(1)},
	)
	if err != nil {
		t.Fatalf("TransformReader error = %v", err)
	}

	two, err := TransformReader(
		context.Background(), strings.NewReader(source), Table{"A": num(2)},
	)
	if err != nil {
		t.Fatalf("TransformReader error = %v", err)
	}

	if one.Source == two.Source {
		t.Errorf("distinct tables produced identical output %q", one.Source)
	}
}

// TestClearCache tests that clearing forces a fresh transformation.
func TestClearCache(t *testing.T) {
	ClearCache()

	source := "y = B;"
	table := Table{"B": str("v")}

	first, err := TransformReader(
		context.Background(), strings.NewReader(source), table,
	)
	if err != nil {
		t.Fatalf("TransformReader error = %v", err)
	}

	ClearCache()

	second, err := TransformReader(
		context.Background(), strings.NewReader(source), table,
	)
	if err != nil {
		t.Fatalf("TransformReader(second) error = %v", err)
	}

	if first == second {
		t.Error("expected a fresh result instance after ClearCache")
	}

	if first.Source != second.Source {
		t.Errorf("fresh result differs: %q vs %q", first.Source, second.Source)
	}
}

// TestHashTableDeterministic tests that the table hash is independent of
// map iteration order and sensitive to values.
func TestHashTableDeterministic(t *testing.T) {
	a := Table{"x": num(1), "y": num(2), "z": str("s")}
	b := Table{"z": str("s"), "y": num(2), "x": num(1)}

	if hashTable(a) != hashTable(b) {
		t.Error("hash differs for identical tables")
	}

	c := Table{"x": num(1), "y": num(2), "z": str("t")}
	if hashTable(a) == hashTable(c) {
		t.Error("hash collides for different values")
	}
}
