package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/defcull/lang"
	"github.com/ardnew/defcull/log"
)

// Cull transforms a source unit: it substitutes defines for free variable
// references, folds constants, and culls dead branches.
type Cull struct {
	Define  []string `help:"Define NAME=value (value defaults to true)"    name:"define"  short:"D"`
	Defines string   `help:"YAML define table file"                        name:"defines" short:"t" type:"existingfile"`
	Write   bool     `help:"Rewrite the source file in place"                             short:"w"`
	Stats   bool     `help:"Report substitution and elimination counters"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin" name:"source"`
}

// Run executes the cull command.
func (c *Cull) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	table, err := loadTable(ctx, c.Defines, c.Define)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "cull"))
	}

	file, err := openSource(c.Source)
	if err != nil {
		return err
	}

	defer file.Close()

	result, err := lang.TransformReader(
		ctx, file, table,
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return lang.WrapError(err).
			With(
				slog.String("command", "cull"),
				slog.String("source", c.Source),
			)
	}

	if c.Stats {
		log.InfoContext(ctx, "transform complete",
			slog.String("source", c.Source),
			slog.Int("substituted", result.Substituted),
			slog.Int("eliminated", result.Eliminated),
			slog.Int("passes", result.Passes),
		)
	}

	if c.Write && c.Source != stdinSource {
		return c.rewrite(result.Source)
	}

	_, err = fmt.Print(result.Source)

	return err
}

// rewrite replaces the source file with the transformed output.
func (c *Cull) rewrite(output string) error {
	info, err := os.Stat(c.Source)
	if err != nil {
		return ErrWriteOutput.Wrap(err).
			With(slog.String("path", c.Source))
	}

	err = os.WriteFile(c.Source, []byte(output), info.Mode().Perm())
	if err != nil {
		return ErrWriteOutput.Wrap(err).
			With(slog.String("path", c.Source))
	}

	return nil
}
