package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/defcull/cli/cmd/repl"
	"github.com/ardnew/defcull/lang"
	"github.com/ardnew/defcull/log"
)

// Repl starts the interactive transformation shell.
type Repl struct {
	Define  []string `help:"Define NAME=value (value defaults to true)" name:"define"  short:"D"`
	Defines string   `help:"YAML define table file"                     name:"defines" short:"t" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	table, err := loadTable(ctx, r.Defines, r.Define)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "repl"))
	}

	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache namespace undefined")
	}

	return repl.Run(ctx, table, cacheDir, log.Default())
}
