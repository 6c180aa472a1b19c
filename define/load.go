package define

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/defcull/lang"
	"github.com/ardnew/defcull/log"
)

// Predefined errors (sentinel values).
var (
	ErrLoadTable    = lang.NewError("failed to load define table")
	ErrExprCompile  = lang.NewError("failed to compile define expression")
	ErrExprEvaluate = lang.NewError("failed to evaluate define expression")
)

// Load reads a YAML define table from a file. See [LoadReader].
func Load(ctx context.Context, path string) (lang.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrLoadTable.Wrap(err).
			With(slog.String("path", path))
	}

	defer f.Close()

	table, err := LoadReader(ctx, f)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	return table, nil
}

// LoadReader reads a YAML define table. The document is a mapping of names
// to scalar values; nested mappings flatten into dotted paths, so
//
//	process:
//	  env:
//	    NODE_ENV: production
//
// defines process.env.NODE_ENV. A string value wrapped in {{ ... }} is
// evaluated as an expr-lang expression against the built-in environment
// before entering the table.
func LoadReader(ctx context.Context, r io.Reader) (lang.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrLoadTable.Wrap(err)
	}

	doc := make(map[string]any)

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, ErrLoadTable.Wrap(err)
		}
	}

	flat := make(map[string]any)
	flatten("", doc, flat)

	table := make(lang.Table, len(flat))

	for key, value := range flat {
		if s, ok := value.(string); ok {
			value, err = evalString(ctx, s)
			if err != nil {
				return nil, lang.WrapError(err).
					With(slog.String("define", key))
			}
		}

		lit, err := fromAny(value)
		if err != nil {
			return nil, lang.WrapError(err).
				With(slog.String("define", key))
		}

		table[key] = lit
	}

	log.Default().TraceContext(
		ctx,
		"define table loaded",
		slog.Int("defines", len(table)),
	)

	return table, nil
}

// flatten joins nested mapping keys into dotted paths.
func flatten(prefix string, node map[string]any, out map[string]any) {
	for key, value := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			flatten(path, nested, out)

			continue
		}

		out[path] = value
	}
}

// evalString resolves a string define value. Values wrapped in {{ ... }}
// are compiled and run as expr-lang expressions; anything else passes
// through unchanged.
func evalString(ctx context.Context, s string) (any, error) {
	trimmed := strings.TrimSpace(s)

	if !strings.HasPrefix(trimmed, "{{") || !strings.HasSuffix(trimmed, "}}") {
		return s, nil
	}

	source := strings.TrimSpace(trimmed[2 : len(trimmed)-2])
	if source == "" {
		return "", nil
	}

	env := makeEnvCache()
	env["env"] = envFunc(processEnvMap(nil))

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	log.Default().TraceContext(
		ctx,
		"define expression evaluated",
		slog.String("source", source),
	)

	return result, nil
}
