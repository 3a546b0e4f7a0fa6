// internal/config/model.go
//
// Typed settings model for the add-in server.
//
// Context
// -------
// `Settings` is the one object the rest of the server reads.  It is built
// by `Resolve` from three layers (defaults, override file, `XLWINGS_`
// environment variables) and never mutated afterwards.  Each field's
// `koanf` tag is its schema name, so `log_level` binds from
// `XLWINGS_LOG_LEVEL` and from `XLWINGS_LOG_LEVEL=…` in the override file.
//
// Notes
// -----
//   • `static_dir` is not a field.  It is derived from `BaseDir` on every
//     call to `StaticDir()`, so it can never go stale.
//   • Optional strings use "" for absent.  An empty `SecretKey` means
//     signing is disabled, never a default key.
//   • `AuthProviders` keeps the first occurrence of a repeated name, in
//     order, since order is evaluation priority.
//   • The entraid fields only matter when "entraid" is in `AuthProviders`.
//     That dependency is left to the auth layer.

package config

import (
	"path/filepath"
	"slices"

	"github.com/google/uuid"
)

// Environment is a deployment stage.
type Environment string

const (
	EnvDev     Environment = "dev"
	EnvQA      Environment = "qa"
	EnvUAT     Environment = "uat"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// Environments lists every accepted stage in promotion order.
var Environments = []Environment{EnvDev, EnvQA, EnvUAT, EnvStaging, EnvProd}

//
// Root aggregate
//

// Settings is the resolved configuration.  Treat it as read-only.
type Settings struct {
	// Security and auth
	AddSecurityHeaders     bool     `koanf:"add_security_headers"`
	AuthProviders          []string `koanf:"auth_providers"`
	AuthRequiredRoles      []string `koanf:"auth_required_roles"`
	AuthEntraIDClientID    string   `koanf:"auth_entraid_client_id"`
	AuthEntraIDTenantID    string   `koanf:"auth_entraid_tenant_id"`
	AuthEntraIDMultitenant bool     `koanf:"auth_entraid_multitenant"`

	// Paths
	AppPath string `koanf:"app_path"`
	BaseDir string `koanf:"base_dir" validate:"required"`

	// Networking and caching
	ObjectCacheURL               string   `koanf:"object_cache_url"                validate:"omitempty,url"`
	ObjectCacheExpireAt          string   `koanf:"object_cache_expire_at"`
	ObjectCacheEnableCompression bool     `koanf:"object_cache_enable_compression"`
	CORSAllowOrigins             []string `koanf:"cors_allow_origins"              validate:"dive,eq=*|url"`

	DateFormat string `koanf:"date_format"`

	// Feature toggles
	EnableAlpineJSCSP bool `koanf:"enable_alpinejs_csp"`
	EnableBootstrap   bool `koanf:"enable_bootstrap"`
	EnableExamples    bool `koanf:"enable_examples"`
	EnableExcelOnline bool `koanf:"enable_excel_online"`
	EnableHTMX        bool `koanf:"enable_htmx"`
	EnableSocketIO    bool `koanf:"enable_socketio"`

	Environment        Environment `koanf:"environment" validate:"oneof=dev qa uat staging prod"`
	FunctionsNamespace string      `koanf:"functions_namespace"`
	Hostname           string      `koanf:"hostname"`
	LogLevel           string      `koanf:"log_level"`

	// Manifest identifiers, overwritten per install by the init tool.
	ManifestIDDev     uuid.UUID `koanf:"manifest_id_dev"`
	ManifestIDQA      uuid.UUID `koanf:"manifest_id_qa"`
	ManifestIDUAT     uuid.UUID `koanf:"manifest_id_uat"`
	ManifestIDStaging uuid.UUID `koanf:"manifest_id_staging"`
	ManifestIDProd    uuid.UUID `koanf:"manifest_id_prod"`

	ProjectName             string `koanf:"project_name"`
	PublicAddinStore        bool   `koanf:"public_addin_store"`
	SecretKey               string `koanf:"secret_key"`
	SocketIOMessageQueueURL string `koanf:"socketio_message_queue_url" validate:"omitempty,url"`
	SocketIOServerApp       bool   `koanf:"socketio_server_app"`
	StaticURLPath           string `koanf:"static_url_path"`
	LicenseKey              string `koanf:"license_key"`
}

// StaticDir is BaseDir/static.
func (s *Settings) StaticDir() string {
	return filepath.Join(s.BaseDir, "static")
}

// SigningEnabled reports whether a secret key was configured.
func (s *Settings) SigningEnabled() bool { return s.SecretKey != "" }

// ManifestID returns the add-in manifest id for env.
func (s *Settings) ManifestID(env Environment) (uuid.UUID, bool) {
	switch env {
	case EnvDev:
		return s.ManifestIDDev, true
	case EnvQA:
		return s.ManifestIDQA, true
	case EnvUAT:
		return s.ManifestIDUAT, true
	case EnvStaging:
		return s.ManifestIDStaging, true
	case EnvProd:
		return s.ManifestIDProd, true
	}
	return uuid.Nil, false
}

// clone returns a copy that shares no slices with s.
func (s *Settings) clone() *Settings {
	c := *s
	c.AuthProviders = slices.Clone(s.AuthProviders)
	c.AuthRequiredRoles = slices.Clone(s.AuthRequiredRoles)
	c.CORSAllowOrigins = slices.Clone(s.CORSAllowOrigins)
	return &c
}
