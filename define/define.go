package define

import (
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/ardnew/defcull/lang"
)

// Predefined errors (sentinel values).
var (
	ErrBadDefine = lang.NewError("malformed define")
	ErrBadValue  = lang.NewError("unsupported define value")
)

// Parse reads one NAME=value command-line define. The name may be a dotted
// member path. A missing "=" defines the name as boolean true, matching the
// usual -D convention.
func Parse(arg string) (string, *lang.Literal, error) {
	name, value, found := strings.Cut(arg, "=")

	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, ErrBadDefine.With(slog.String("arg", arg))
	}

	if !found {
		return name, &lang.Literal{Kind: lang.LitBool, Bool: true}, nil
	}

	return name, literalOf(value), nil
}

// ParseAll reads a slice of NAME=value defines into a table. Later entries
// override earlier ones.
func ParseAll(args []string) (lang.Table, error) {
	table := make(lang.Table, len(args))

	for _, arg := range args {
		name, value, err := Parse(arg)
		if err != nil {
			return nil, err
		}

		table[name] = value
	}

	return table, nil
}

// Merge copies src entries into dst, overriding duplicates, and returns
// dst.
func Merge(dst, src lang.Table) lang.Table {
	if dst == nil {
		dst = make(lang.Table, len(src))
	}

	maps.Copy(dst, src)

	return dst
}

// literalOf reads a string as the literal it spells: the keywords true,
// false, null, and undefined, then a number, then a quoted string, and
// finally a bare string.
func literalOf(s string) *lang.Literal {
	switch strings.TrimSpace(s) {
	case "true":
		return &lang.Literal{Kind: lang.LitBool, Bool: true}
	case "false":
		return &lang.Literal{Kind: lang.LitBool}
	case "null":
		return &lang.Literal{Kind: lang.LitNull}
	case "undefined":
		return &lang.Literal{Kind: lang.LitUndefined}
	}

	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return &lang.Literal{Kind: lang.LitNumber, Num: n}
	}

	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return &lang.Literal{Kind: lang.LitString, Str: s[1 : len(s)-1]}
		}
	}

	return &lang.Literal{Kind: lang.LitString, Str: s}
}

// fromAny converts a decoded YAML scalar (or expression result) to a
// literal value.
func fromAny(v any) (*lang.Literal, error) {
	switch val := v.(type) {
	case nil:
		return &lang.Literal{Kind: lang.LitNull}, nil

	case bool:
		return &lang.Literal{Kind: lang.LitBool, Bool: val}, nil

	case int:
		return &lang.Literal{Kind: lang.LitNumber, Num: float64(val)}, nil

	case int64:
		return &lang.Literal{Kind: lang.LitNumber, Num: float64(val)}, nil

	case uint64:
		return &lang.Literal{Kind: lang.LitNumber, Num: float64(val)}, nil

	case float64:
		return &lang.Literal{Kind: lang.LitNumber, Num: val}, nil

	case string:
		return &lang.Literal{Kind: lang.LitString, Str: val}, nil

	default:
		return nil, ErrBadValue.With(
			slog.String("type", typeName(v)),
		)
	}
}

// typeName names a value's dynamic type for error reporting.
func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "mapping"
	case []any:
		return "sequence"
	default:
		return "unknown"
	}
}
