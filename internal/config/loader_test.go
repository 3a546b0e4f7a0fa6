// internal/config/loader_test.go
//
// Unit-tests for Resolve.
//
// Each test builds an in-memory MapEnv and, when needed, an override file
// under t.TempDir().  DOTENV_PATH always points into the temp dir so a
// stray .env in the package directory cannot leak in.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEnv returns a MapEnv whose DOTENV_PATH names a file in a fresh temp
// dir.  When body is non-empty the file is created with it.
func newEnv(t *testing.T, name, body string, vars map[string]string) MapEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if body != "" {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	env := MapEnv{OverridePathVar: path}
	for k, v := range vars {
		env[k] = v
	}
	return env
}

func resolve(t *testing.T, env MapEnv) (*Settings, error) {
	t.Helper()
	return Resolve(Sources{Env: env, InstallDir: "/opt/xlserver"})
}

func TestResolve_Defaults(t *testing.T) {
	env := newEnv(t, ".env", "", nil)

	s, err := resolve(t, env)
	require.NoError(t, err)

	assert.True(t, s.AddSecurityHeaders)
	assert.Equal(t, []string{}, s.AuthProviders)
	assert.Equal(t, []string{}, s.AuthRequiredRoles)
	assert.Empty(t, s.AuthEntraIDClientID)
	assert.Empty(t, s.AuthEntraIDTenantID)
	assert.False(t, s.AuthEntraIDMultitenant)
	assert.Equal(t, "", s.AppPath)
	assert.Equal(t, "/opt/xlserver", s.BaseDir)
	assert.Empty(t, s.ObjectCacheURL)
	assert.Equal(t, "0 12 * * sat", s.ObjectCacheExpireAt)
	assert.True(t, s.ObjectCacheEnableCompression)
	assert.Equal(t, []string{"*"}, s.CORSAllowOrigins)
	assert.Empty(t, s.DateFormat)
	assert.True(t, s.EnableAlpineJSCSP)
	assert.True(t, s.EnableBootstrap)
	assert.True(t, s.EnableExamples)
	assert.True(t, s.EnableExcelOnline)
	assert.True(t, s.EnableHTMX)
	assert.True(t, s.EnableSocketIO)
	assert.Equal(t, EnvProd, s.Environment)
	assert.Equal(t, "XLWINGS", s.FunctionsNamespace)
	assert.Empty(t, s.Hostname)
	assert.Equal(t, "INFO", s.LogLevel)
	assert.Equal(t, uuid.MustParse(DefaultManifestIDDev), s.ManifestIDDev)
	assert.Equal(t, uuid.MustParse(DefaultManifestIDQA), s.ManifestIDQA)
	assert.Equal(t, uuid.MustParse(DefaultManifestIDUAT), s.ManifestIDUAT)
	assert.Equal(t, uuid.MustParse(DefaultManifestIDStaging), s.ManifestIDStaging)
	assert.Equal(t, uuid.MustParse(DefaultManifestIDProd), s.ManifestIDProd)
	assert.Equal(t, "xlwings Server", s.ProjectName)
	assert.False(t, s.PublicAddinStore)
	assert.Empty(t, s.SecretKey)
	assert.False(t, s.SigningEnabled())
	assert.Empty(t, s.SocketIOMessageQueueURL)
	assert.False(t, s.SocketIOServerApp)
	assert.Equal(t, "/static", s.StaticURLPath)
	assert.Empty(t, s.LicenseKey)
	assert.Equal(t, filepath.Join("/opt/xlserver", "static"), s.StaticDir())
}

func TestResolve_DefaultTableCoversSchema(t *testing.T) {
	defaults := Defaults("/x")
	fields := Fields()

	assert.Len(t, defaults, len(fields))
	for _, f := range fields {
		assert.Contains(t, defaults, f)
	}
}

func TestResolve_Environment(t *testing.T) {
	for _, e := range Environments {
		t.Run(string(e), func(t *testing.T) {
			env := newEnv(t, ".env", "", map[string]string{"XLWINGS_ENVIRONMENT": string(e)})
			s, err := resolve(t, env)
			require.NoError(t, err)
			assert.Equal(t, e, s.Environment)
		})
	}

	for _, bad := range []string{"", "production", "PROD", "Dev", "test"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			env := newEnv(t, ".env", "", map[string]string{"XLWINGS_ENVIRONMENT": bad})
			_, err := resolve(t, env)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "environment", cerr.Field)
			assert.Equal(t, bad, cerr.Value)
		})
	}
}

func TestResolve_ManifestIDs(t *testing.T) {
	fields := []string{"dev", "qa", "uat", "staging", "prod"}

	for _, f := range fields {
		t.Run(f, func(t *testing.T) {
			want := uuid.New()
			env := newEnv(t, ".env", "", map[string]string{
				"XLWINGS_MANIFEST_ID_" + strings.ToUpper(f): want.String(),
			})
			s, err := resolve(t, env)
			require.NoError(t, err)

			got, ok := s.ManifestID(Environment(f))
			require.True(t, ok)
			assert.Equal(t, want, got)
		})

		t.Run(f+" malformed", func(t *testing.T) {
			env := newEnv(t, ".env", "", map[string]string{
				"XLWINGS_MANIFEST_ID_" + strings.ToUpper(f): "not-a-uuid",
			})
			_, err := resolve(t, env)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidValue)

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "manifest_id_"+f, cerr.Field)
			assert.Equal(t, "not-a-uuid", cerr.Value)
		})
	}
}

func TestResolve_StaticDirFollowsBaseDir(t *testing.T) {
	for _, dir := range []string{"/srv/app", "/srv/app/", "relative/dir", "/"} {
		env := newEnv(t, ".env", "", map[string]string{"XLWINGS_BASE_DIR": dir})
		s, err := resolve(t, env)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "static"), s.StaticDir())
	}
}

func TestResolve_StaticDirNotSettable(t *testing.T) {
	env := newEnv(t, ".env", "XLWINGS_STATIC_DIR=/file/static\n", map[string]string{
		"XLWINGS_STATIC_DIR": "/elsewhere",
		"XLWINGS_BASE_DIR":   "/srv/app",
	})
	s, err := resolve(t, env)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/app", "static"), s.StaticDir())
}

func TestResolve_Precedence(t *testing.T) {
	body := strings.Join([]string{
		"# comment",
		"XLWINGS_LOG_LEVEL=DEBUG",
		`XLWINGS_PROJECT_NAME="From File"`,
		"XLWINGS_HOSTNAME=file.example.com",
		"UNRELATED=1",
	}, "\n")
	env := newEnv(t, ".env", body, map[string]string{
		"XLWINGS_HOSTNAME": "env.example.com",
	})

	s, err := resolve(t, env)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", s.LogLevel)
	assert.Equal(t, "From File", s.ProjectName)
	assert.Equal(t, "env.example.com", s.Hostname)
}

func TestResolve_PrefixCaseInsensitive(t *testing.T) {
	env := newEnv(t, ".env", "", map[string]string{"xlwings_log_level": "WARNING"})
	s, err := resolve(t, env)
	require.NoError(t, err)
	assert.Equal(t, "WARNING", s.LogLevel)
}

func TestResolve_UpperCaseSpellingWins(t *testing.T) {
	for range 20 {
		env := newEnv(t, ".env", "", map[string]string{
			"xlwings_log_level": "ERROR",
			"XLWINGS_LOG_LEVEL": "DEBUG",
			"Xlwings_Log_Level": "WARNING",
		})
		s, err := resolve(t, env)
		require.NoError(t, err)
		assert.Equal(t, "DEBUG", s.LogLevel)
	}
}

func TestResolve_UnprefixedIgnored(t *testing.T) {
	env := newEnv(t, ".env", "", map[string]string{
		"LOG_LEVEL":   "ERROR",
		"ENVIRONMENT": "dev",
	})
	s, err := resolve(t, env)
	require.NoError(t, err)
	assert.Equal(t, "INFO", s.LogLevel)
	assert.Equal(t, EnvProd, s.Environment)
}

func TestMapEnv_EnvironSorted(t *testing.T) {
	env := MapEnv{"B": "2", "A": "1", "C": "x=y"}
	assert.Equal(t, []string{"A=1", "B=2", "C=x=y"}, env.Environ())
}

func TestResolve_UnknownKeysIgnored(t *testing.T) {
	env := newEnv(t, ".env", "XLWINGS_NOT_A_REAL_FIELD=5\n", map[string]string{
		"XLWINGS_ALSO_UNKNOWN": "x",
	})
	s, err := resolve(t, env)
	require.NoError(t, err)
	assert.NotContains(t, s.AsMap(false), "not_a_real_field")
	assert.NotContains(t, s.AsMap(false), "also_unknown")
}

func TestResolve_MissingOverrideFile(t *testing.T) {
	env := MapEnv{OverridePathVar: filepath.Join(t.TempDir(), "nope", ".env")}
	_, err := resolve(t, env)
	require.NoError(t, err)
}

func TestResolve_OverridePathIsDirectory(t *testing.T) {
	env := MapEnv{OverridePathVar: t.TempDir()}
	s, err := resolve(t, env)
	require.NoError(t, err)
	assert.Equal(t, "INFO", s.LogLevel)
	assert.Equal(t, EnvProd, s.Environment)
}

func TestResolve_DefaultOverridePath(t *testing.T) {
	assert.Equal(t, ".env", OverridePath(MapEnv{}))
	assert.Equal(t, "/etc/x.env", OverridePath(MapEnv{OverridePathVar: "/etc/x.env"}))
}

func TestResolve_YAMLOverride(t *testing.T) {
	body := strings.Join([]string{
		"environment: qa",
		"enable_htmx: false",
		"auth_providers: [entraid, custom]",
		"XLWINGS_LOG_LEVEL: ERROR",
	}, "\n")
	env := newEnv(t, "settings.yaml", body, nil)

	s, err := resolve(t, env)
	require.NoError(t, err)
	assert.Equal(t, EnvQA, s.Environment)
	assert.False(t, s.EnableHTMX)
	assert.Equal(t, []string{"entraid", "custom"}, s.AuthProviders)
	assert.Equal(t, "ERROR", s.LogLevel)
}

func TestResolve_Booleans(t *testing.T) {
	cases := map[string]bool{
		"true": true, "True": true, "1": true, "yes": true, "on": true,
		"false": false, "FALSE": false, "0": false, "no": false, "off": false,
	}
	for raw, want := range cases {
		env := newEnv(t, ".env", "", map[string]string{"XLWINGS_ENABLE_HTMX": raw})
		s, err := resolve(t, env)
		require.NoError(t, err, raw)
		assert.Equal(t, want, s.EnableHTMX, raw)
	}

	env := newEnv(t, ".env", "", map[string]string{"XLWINGS_ENABLE_HTMX": "maybe"})
	_, err := resolve(t, env)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "enable_htmx", cerr.Field)
	assert.Equal(t, "maybe", cerr.Value)
}

func TestResolve_Lists(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		env := newEnv(t, ".env", "", map[string]string{
			"XLWINGS_AUTH_PROVIDERS":      `["entraid","custom"]`,
			"XLWINGS_AUTH_REQUIRED_ROLES": `["admin"]`,
		})
		s, err := resolve(t, env)
		require.NoError(t, err)
		assert.Equal(t, []string{"entraid", "custom"}, s.AuthProviders)
		assert.Equal(t, []string{"admin"}, s.AuthRequiredRoles)
	})

	t.Run("comma separated", func(t *testing.T) {
		env := newEnv(t, ".env", "", map[string]string{
			"XLWINGS_CORS_ALLOW_ORIGINS": "https://a.example.com, https://b.example.com",
		})
		s, err := resolve(t, env)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, s.CORSAllowOrigins)
	})

	t.Run("empty", func(t *testing.T) {
		env := newEnv(t, ".env", "", map[string]string{"XLWINGS_CORS_ALLOW_ORIGINS": ""})
		s, err := resolve(t, env)
		require.NoError(t, err)
		assert.NotNil(t, s.CORSAllowOrigins)
		assert.Empty(t, s.CORSAllowOrigins)
	})

	t.Run("malformed json", func(t *testing.T) {
		env := newEnv(t, ".env", "", map[string]string{"XLWINGS_AUTH_PROVIDERS": `["entraid"`})
		_, err := resolve(t, env)
		assert.ErrorIs(t, err, ErrInvalidValue)
		var cerr *Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "auth_providers", cerr.Field)
	})

	t.Run("duplicate provider", func(t *testing.T) {
		env := newEnv(t, ".env", "", map[string]string{"XLWINGS_AUTH_PROVIDERS": `["entraid","custom","entraid"]`})
		s, err := resolve(t, env)
		require.NoError(t, err)
		assert.Equal(t, []string{"entraid", "custom"}, s.AuthProviders)
	})

	t.Run("bad origin", func(t *testing.T) {
		env := newEnv(t, ".env", "", map[string]string{"XLWINGS_CORS_ALLOW_ORIGINS": `["*","not a url"]`})
		_, err := resolve(t, env)
		var cerr *Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "cors_allow_origins[1]", cerr.Field)
		assert.Equal(t, "not a url", cerr.Value)
	})
}

func TestResolve_URLs(t *testing.T) {
	env := newEnv(t, ".env", "", map[string]string{
		"XLWINGS_OBJECT_CACHE_URL":           "redis://cache:6379/0",
		"XLWINGS_SOCKETIO_MESSAGE_QUEUE_URL": "redis://cache:6379/1",
	})
	s, err := resolve(t, env)
	require.NoError(t, err)
	assert.Equal(t, "redis://cache:6379/0", s.ObjectCacheURL)

	env = newEnv(t, ".env", "", map[string]string{"XLWINGS_OBJECT_CACHE_URL": "::nope"})
	_, err = resolve(t, env)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "object_cache_url", cerr.Field)
}

func TestResolve_CollectsEveryFailure(t *testing.T) {
	env := newEnv(t, ".env", "", map[string]string{
		"XLWINGS_MANIFEST_ID_QA":  "bad",
		"XLWINGS_MANIFEST_ID_UAT": "worse",
	})
	_, err := resolve(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest_id_qa")
	assert.Contains(t, err.Error(), "manifest_id_uat")
}

func TestResolve_EntraIDWithoutProviderAccepted(t *testing.T) {
	env := newEnv(t, ".env", "", map[string]string{
		"XLWINGS_AUTH_ENTRAID_CLIENT_ID": "client",
		"XLWINGS_AUTH_ENTRAID_TENANT_ID": "tenant",
	})
	s, err := resolve(t, env)
	require.NoError(t, err)
	assert.Equal(t, "client", s.AuthEntraIDClientID)
	assert.Empty(t, s.AuthProviders)
}

func TestResolve_NilEnv(t *testing.T) {
	_, err := Resolve(Sources{})
	assert.Error(t, err)
}

func TestSettings_CloneIsIndependent(t *testing.T) {
	env := newEnv(t, ".env", "", map[string]string{"XLWINGS_AUTH_PROVIDERS": "a,b"})
	s, err := resolve(t, env)
	require.NoError(t, err)

	c := s.clone()
	c.AuthProviders[0] = "mutated"
	c.CORSAllowOrigins[0] = "mutated"
	assert.Equal(t, "a", s.AuthProviders[0])
	assert.Equal(t, "*", s.CORSAllowOrigins[0])
}

func TestSettings_AsMap(t *testing.T) {
	env := newEnv(t, ".env", "", map[string]string{
		"XLWINGS_SECRET_KEY":  "s3cret",
		"XLWINGS_LICENSE_KEY": "lic",
		"XLWINGS_BASE_DIR":    "/srv",
	})
	s, err := resolve(t, env)
	require.NoError(t, err)

	m := s.AsMap(true)
	assert.Equal(t, "****", m["secret_key"])
	assert.Equal(t, "****", m["license_key"])
	assert.Equal(t, filepath.Join("/srv", "static"), m["static_dir"])
	assert.Equal(t, DefaultManifestIDProd, m["manifest_id_prod"])
	assert.Equal(t, "prod", m["environment"])

	assert.Equal(t, "s3cret", s.AsMap(false)["secret_key"])
}
