// internal/config/loader.go
//
// Configuration resolver and process-wide singleton.
//
/*
Context
--------
`Resolve()` builds one `Settings` from three layers (highest precedence
last):

  1. Built-in defaults (`Defaults`).
  2. The override file at `$DOTENV_PATH`, else `./.env`.  A missing path,
     or one that is not a regular file, is an empty layer, not an error.
  3. Environment variables prefixed `XLWINGS_` (e.g., `XLWINGS_LOG_LEVEL →
     log_level`).

The merged tree is decoded field by field, validated, and then the two
legacy variables are pushed back into the environment (see legacy.go).
`Load()` runs `Resolve` once against the real process and publishes the
result in an `atomic.Pointer`.  There is no reload.

Instrumentation
---------------
  • DEBUG spans — override file read or skipped, env overlay size.
  • ERROR spans — file parse, decode, and validation failures.
  • INFO  span  — final "config loaded" with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`), which is a no-op
    until main installs the real logger.

Notes
-----
  • `static_dir` has no source key.  `XLWINGS_STATIC_DIR` is ignored like
    any other unknown variable.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

var (
	current  atomic.Pointer[Settings]
	loadOnce sync.Once
	loadErr  error
)

/*─────────────────────────────── resolver ─────────────────────────────────*/

// Resolve merges src into a validated Settings and performs the legacy
// environment writes through src.Env.
func Resolve(src Sources) (*Settings, error) {
	if src.Env == nil {
		return nil, errors.New("config: Sources.Env is nil")
	}
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(src.InstallDir), "."), nil); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	path := OverridePath(src.Env)
	switch fi, err := os.Stat(path); {
	case err == nil && !fi.Mode().IsRegular():
		zap.S().Debugw("config override file not a regular file, skipped", "file", path)
	case err == nil:
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			zap.S().Errorw("config override file load failed", "file", path, "err", err)
			return nil, fmt.Errorf("config override file %s: %w", path, err)
		}
		zap.S().Debugw("config override file loaded", "file", path)
	case errors.Is(err, fs.ErrNotExist):
		zap.S().Debugw("config override file absent", "file", path)
	default:
		zap.S().Errorw("config override file stat failed", "file", path, "err", err)
		return nil, fmt.Errorf("config override file %s: %w", path, err)
	}

	if err := k.Load(envLayer(src.Env), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var s Settings
	if err := decodeSettings(k, &s); err != nil {
		zap.S().Errorw("config decode failed", "err", err)
		return nil, err
	}
	if err := validateSettings(&s); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	if err := PropagateLegacy(src.Env, &s); err != nil {
		zap.S().Errorw("config legacy propagation failed", "err", err)
		return nil, err
	}
	return &s, nil
}

/*──────────────────────────── singleton ───────────────────────────────────*/

// Load resolves the process configuration on first call and publishes it.
// Later calls return the first outcome without touching any source.  Call
// it before starting goroutines that read legacy environment variables.
func Load() (*Settings, error) {
	loadOnce.Do(func() {
		s, err := Resolve(Sources{Env: OSEnv(), InstallDir: installDir()})
		if err != nil {
			loadErr = err
			return
		}
		current.Store(s)
		zap.S().Infow("config loaded",
			"environment", s.Environment,
			"base_dir", s.BaseDir,
			"override_file", OverridePath(OSEnv()),
			"signing", s.SigningEnabled(),
		)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return Get(), nil
}

// Get returns a copy of the published settings, or nil before Load.
func Get() *Settings {
	s := current.Load()
	if s == nil {
		return nil
	}
	return s.clone()
}
