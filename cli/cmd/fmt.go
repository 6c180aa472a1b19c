package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/defcull/lang"
	"github.com/ardnew/defcull/log"
)

// Fmt parses a source unit and re-emits it with normalized formatting,
// without substitution or folding.
type Fmt struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin" name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file, err := openSource(f.Source)
	if err != nil {
		return err
	}

	defer file.Close()

	data, err := io.ReadAll(bufio.NewReader(file))
	if err != nil {
		return ErrOpenSource.Wrap(err).
			With(slog.String("path", f.Source))
	}

	source, err := lang.Format(
		ctx, string(data),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "fmt"))
	}

	_, err = fmt.Print(source)

	return err
}

// AST parses a source unit and prints its syntax tree.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin" name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file, err := openSource(a.Source)
	if err != nil {
		return err
	}

	defer file.Close()

	data, err := io.ReadAll(bufio.NewReader(file))
	if err != nil {
		return ErrOpenSource.Wrap(err).
			With(slog.String("path", a.Source))
	}

	prog, err := lang.ParseString(
		ctx, string(data),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "ast"))
	}

	return lang.Fprint(os.Stdout, prog)
}
