package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/ardnew/defcull/lang"
	"github.com/ardnew/defcull/log"
)

// Defines lists the free variables of a source unit and, for each, the
// define it would resolve to from the symbol table.
type Defines struct {
	Define  []string `help:"Define NAME=value (value defaults to true)" name:"define"  short:"D"`
	Defines string   `help:"YAML define table file"                     name:"defines" short:"t" type:"existingfile"`
	All     bool     `help:"Also list table entries with no free reference" short:"a"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin" name:"source"`
}

// Run executes the defines command.
func (d *Defines) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	table, err := loadTable(ctx, d.Defines, d.Define)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "defines"))
	}

	file, err := openSource(d.Source)
	if err != nil {
		return err
	}

	defer file.Close()

	data, err := io.ReadAll(bufio.NewReader(file))
	if err != nil {
		return ErrOpenSource.Wrap(err).
			With(slog.String("path", d.Source))
	}

	prog, err := lang.ParseString(
		ctx, string(data),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "defines"))
	}

	// Table keys rooted at a free identifier are reachable by substitution;
	// any other key can never match an occurrence in this source unit.
	reachable := make(map[string]bool, len(table))

	for _, name := range lang.FreeVariables(prog) {
		keys := rootedKeys(table, name)
		if len(keys) == 0 {
			fmt.Printf("%s\n", name)

			continue
		}

		for _, key := range keys {
			reachable[key] = true

			fmt.Printf("%s = %s\n", key, table[key])
		}
	}

	if !d.All {
		return nil
	}

	unused := make([]string, 0, len(table))

	for key := range table {
		if !reachable[key] {
			unused = append(unused, key)
		}
	}

	sort.Strings(unused)

	for _, key := range unused {
		fmt.Printf("# %s = %s\n", key, table[key])
	}

	return nil
}

// rootedKeys returns the sorted table keys equal to name or forming a
// dotted path rooted at name.
func rootedKeys(table lang.Table, name string) []string {
	var keys []string

	for key := range table {
		if key == name || strings.HasPrefix(key, name+".") {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}
