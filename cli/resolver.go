package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads flag defaults from a
// YAML configuration file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The document is a flat mapping of flag names to values. Flag names with
// hyphens (e.g. "log-level") may use underscores in the config file
// (e.g. "log_level"). Command-line flags override config file values.
//
// Example config file:
//
//	log_level: debug
//	log_format: text
//	log_pretty: true
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		// Unreadable config - return empty config
		return config{}, nil
	}

	doc := make(map[string]any)

	if err := yaml.Unmarshal(data, &doc); err != nil {
		// Malformed config - return empty config
		return config{}, nil
	}

	// Kong requires numbers as strings for parsing
	for key, value := range doc {
		switch v := value.(type) {
		case int64:
			doc[key] = strconv.FormatInt(v, 10)
		case uint64:
			doc[key] = strconv.FormatUint(v, 10)
		case float64:
			doc[key] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	return config(doc), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g. "log-level") but YAML keys may use
	// underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
