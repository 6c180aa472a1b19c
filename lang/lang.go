// Package lang parses, transforms, and emits JavaScript source units.
//
// The transformation pipeline substitutes compile-time defines for free
// identifier references, folds constant expressions, and culls branches
// whose conditions became literal, repeating to a fixed point before
// emitting normalized source.
package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/defcull/log"
)

// config holds the resolved pipeline settings.
type config struct {
	logger     log.Logger
	foldBudget int // 0 derives the budget from tree size
}

// Option configures the transformation pipeline.
type Option func(*config)

// WithLogger sets the logger used for pipeline tracing.
func WithLogger(logger log.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithFoldBudget caps the number of fold/eliminate passes. A zero budget
// derives the cap from the tree's node count, which is always sufficient
// for the fixed point on a finite tree.
func WithFoldBudget(budget int) Option {
	return func(cfg *config) { cfg.foldBudget = budget }
}

// makeConfig applies options over the defaults.
func makeConfig(opts ...Option) *config {
	cfg := &config{logger: log.Default()}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Result reports the outcome of one transformation.
type Result struct {
	// Source is the emitted transformed source text.
	Source string

	// Substituted counts the define occurrences replaced.
	Substituted int

	// Eliminated counts the statement-level conditionals culled.
	Eliminated int

	// Passes counts the fold/eliminate iterations run to reach the fixed
	// point.
	Passes int
}

// Validate checks that every table key is a well-formed identifier or
// dotted identifier path with a non-nil value.
func (t Table) Validate() error {
	for key, value := range t {
		if value == nil {
			return ErrInvalidTable.With(slog.String("key", key))
		}

		for part := range strings.SplitSeq(key, ".") {
			if !isIdentName(part) {
				return ErrInvalidTable.With(slog.String("key", key))
			}
		}
	}

	return nil
}

// Transform runs the full pipeline on a source unit: parse, substitute the
// table's defines, fold and cull to a fixed point, and emit. The input is
// never modified; the result holds the transformed text and the pipeline
// counters.
func Transform(
	ctx context.Context,
	source string,
	table Table,
	opts ...Option,
) (*Result, error) {
	cfg := makeConfig(opts...)

	if err := table.Validate(); err != nil {
		return nil, err
	}

	prog, err := ParseString(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	result.Substituted = Substitute(prog, table)

	cfg.logger.TraceContext(
		ctx,
		"substitution complete",
		slog.Int("replaced", result.Substituted),
	)

	budget := cfg.foldBudget
	if budget <= 0 {
		// Every productive pass removes at least one node, so the node
		// count bounds the passes needed to reach the fixed point.
		budget = NodeCount(prog) + 1
	}

	for {
		if result.Passes >= budget {
			return nil, ErrFoldBudget.With(
				slog.Int("budget", budget),
				slog.Int("passes", result.Passes),
			)
		}

		folded := FoldConstants(prog)
		culled := EliminateDeadBranches(prog)

		result.Passes++
		result.Eliminated += culled

		cfg.logger.TraceContext(
			ctx,
			"fold pass complete",
			slog.Int("pass", result.Passes),
			slog.Int("folded", folded),
			slog.Int("culled", culled),
		)

		if folded == 0 && culled == 0 {
			break
		}
	}

	result.Source = Emit(prog)

	return result, nil
}

// Format parses and re-emits a source unit without substitution or
// folding, normalizing its layout.
func Format(ctx context.Context, source string, opts ...Option) (string, error) {
	prog, err := ParseString(ctx, source, opts...)
	if err != nil {
		return "", err
	}

	return Emit(prog), nil
}
