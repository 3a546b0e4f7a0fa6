// internal/config/override.go
//
// Override-file parsers.
//
// Context
// -------
// The override file is normally a `.env` file parsed by godotenv.  Only
// `XLWINGS_`-prefixed keys count, exactly like the environment layer, so
// the same file can also carry unrelated variables for other tools.  A
// path ending in `.yaml` or `.yml` is read with koanf's YAML parser
// instead; there the prefix is optional since YAML keys are usually the
// bare field names.
//
// Both parsers return keys already mapped onto schema names.  Anything
// else in the file is dropped later by the decoder, never rejected.

package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	koanf "github.com/knadh/koanf/v2"
)

var errMarshal = errors.New("config: override parser is read-only")

// parserFor picks a parser by file extension.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlOverride{inner: yaml.Parser()}
	default:
		return dotenvOverride{}
	}
}

// dotenvOverride parses KEY=VALUE text.
type dotenvOverride struct{}

func (dotenvOverride) Unmarshal(b []byte) (map[string]any, error) {
	pairs, err := godotenv.Unmarshal(string(b))
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(pairs))
	for k, v := range pairs {
		if key, ok := fieldKey(k); ok {
			out[key] = v
		}
	}
	return out, nil
}

func (dotenvOverride) Marshal(map[string]any) ([]byte, error) { return nil, errMarshal }

// yamlOverride reads a flat YAML mapping.
type yamlOverride struct {
	inner *yaml.YAML
}

func (p yamlOverride) Unmarshal(b []byte) (map[string]any, error) {
	raw, err := p.inner.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if key, ok := fieldKey(k); ok {
			out[key] = v
			continue
		}
		// Prefixed spelling wins when both appear.
		if _, seen := out[strings.ToLower(k)]; !seen {
			out[strings.ToLower(k)] = v
		}
	}
	return out, nil
}

func (yamlOverride) Marshal(map[string]any) ([]byte, error) { return nil, errMarshal }
