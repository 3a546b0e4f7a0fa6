// internal/config/sources.go
//
// Raw key/value sources feeding the resolver.
//
// Context
// -------
// The process environment is shared, mutable state.  The resolver only
// touches it through `Environ`, which production code backs with the os
// package and tests back with `MapEnv`.  `envLayer` feeds the prefixed
// variables into koanf keyed by schema field name.

package config

import (
	"errors"
	"maps"
	"os"
	"slices"
	"strings"

	kenv "github.com/knadh/koanf/providers/env/v2"
)

// Prefix namespaces every environment variable the schema binds from.
const Prefix = "XLWINGS_"

// OverridePathVar names the unprefixed variable that points at the
// override file.  DefaultOverridePath is used when it is unset.
const (
	OverridePathVar     = "DOTENV_PATH"
	DefaultOverridePath = ".env"
)

// Environ is the slice of process-environment behavior the resolver needs.
type Environ interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
	Environ() []string
}

// Sources is everything Resolve reads.
type Sources struct {
	Env        Environ
	InstallDir string // base_dir default
}

// OverridePath returns the override file location for env.
func OverridePath(env Environ) string {
	if p := env.Getenv(OverridePathVar); p != "" {
		return p
	}
	return DefaultOverridePath
}

//
// process environment
//

type osEnviron struct{}

// OSEnv returns the real process environment.
func OSEnv() Environ { return osEnviron{} }

func (osEnviron) Getenv(k string) string { return os.Getenv(k) }
func (osEnviron) LookupEnv(k string) (string, bool) { return os.LookupEnv(k) }
func (osEnviron) Setenv(k, v string) error { return os.Setenv(k, v) }
func (osEnviron) Environ() []string { return os.Environ() }

// MapEnv is an in-memory Environ.  The zero value is not usable; use
// make(MapEnv) or a literal.
type MapEnv map[string]string

func (m MapEnv) Getenv(k string) string { return m[k] }

func (m MapEnv) LookupEnv(k string) (string, bool) {
	v, ok := m[k]
	return v, ok
}

func (m MapEnv) Setenv(k, v string) error {
	if k == "" || strings.ContainsAny(k, "=\x00") {
		return errors.New("setenv: invalid key " + k)
	}
	m[k] = v
	return nil
}

// Environ returns KEY=VALUE pairs sorted by key.
func (m MapEnv) Environ() []string {
	out := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, k+"="+m[k])
	}
	return out
}

//
// env layer
//

// envLayer returns the koanf provider for Prefix-ed variables in env.  The
// prefix is matched case-insensitively and the remainder is lower-cased, so
// XLWINGS_LOG_LEVEL and xlwings_log_level both bind to log_level.  When
// both spellings are present the upper-case one wins.
func envLayer(env Environ) *kenv.Env {
	return kenv.Provider(".", kenv.Opt{
		EnvironFunc: func() []string { return orderedEnviron(env.Environ()) },
		TransformFunc: func(k, v string) (string, any) {
			key, ok := fieldKey(k)
			if !ok {
				return "", nil
			}
			return key, v
		},
	})
}

// orderedEnviron sorts kvs so later entries take precedence: other
// spellings first, canonical upper-case XLWINGS_ names last.
func orderedEnviron(kvs []string) []string {
	out := slices.Clone(kvs)
	slices.SortStableFunc(out, func(a, b string) int {
		ca, cb := canonical(a), canonical(b)
		switch {
		case ca == cb:
			return strings.Compare(a, b)
		case ca:
			return 1
		}
		return -1
	})
	return out
}

func canonical(kv string) bool {
	name, _, _ := strings.Cut(kv, "=")
	return strings.HasPrefix(name, Prefix) && name == strings.ToUpper(name)
}

// fieldKey maps a prefixed variable name onto a schema key.
func fieldKey(name string) (string, bool) {
	if len(name) <= len(Prefix) || !strings.EqualFold(name[:len(Prefix)], Prefix) {
		return "", false
	}
	return strings.ToLower(name[len(Prefix):]), true
}
