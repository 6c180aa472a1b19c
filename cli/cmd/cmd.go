package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/defcull/define"
	"github.com/ardnew/defcull/lang"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSource opens a source argument for reading, mapping "-" to stdin.
// The caller closes the returned reader; closing stdin is a no-op.
func openSource(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrOpenSource.Wrap(err).
			With(slog.String("path", path))
	}

	return f, nil
}

// loadTable assembles the symbol table from an optional YAML define file
// and NAME=value overrides. Overrides win over file entries.
func loadTable(
	ctx context.Context,
	path string,
	overrides []string,
) (lang.Table, error) {
	var table lang.Table

	if path != "" {
		loaded, err := define.Load(ctx, path)
		if err != nil {
			return nil, err
		}

		table = loaded
	}

	parsed, err := define.ParseAll(overrides)
	if err != nil {
		return nil, err
	}

	return define.Merge(table, parsed), nil
}
