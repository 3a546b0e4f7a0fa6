package config

import (
	"os"
	"path/filepath"
)

// Default manifest ids.  The init tool overwrites these per install.
const (
	DefaultManifestIDDev     = "dcc4d25f-3fb0-4a65-84a7-a09178f1c89d"
	DefaultManifestIDQA      = "52d6620d-f445-428b-b7d8-e4a6b40d4614"
	DefaultManifestIDUAT     = "1a421e95-576f-4ab2-9bfc-bb974d43a3e1"
	DefaultManifestIDStaging = "96eb657a-b8b4-49a3-83a1-5e5357f6d9e1"
	DefaultManifestIDProd    = "81513a27-f17b-4c2d-a5ae-585a2b48d73c"
)

// DefaultObjectCacheExpireAt is noon every Saturday.
const DefaultObjectCacheExpireAt = "0 12 * * sat"

// Defaults returns the built-in value of every schema field.  installDir
// becomes the base_dir default.  The map is freshly allocated on each call.
func Defaults(installDir string) map[string]any {
	return map[string]any{
		"add_security_headers":            true,
		"auth_providers":                  []string{},
		"auth_required_roles":             []string{},
		"auth_entraid_client_id":          "",
		"auth_entraid_tenant_id":          "",
		"auth_entraid_multitenant":        false,
		"app_path":                        "",
		"base_dir":                        installDir,
		"object_cache_url":                "",
		"object_cache_expire_at":          DefaultObjectCacheExpireAt,
		"object_cache_enable_compression": true,
		"cors_allow_origins":              []string{"*"},
		"date_format":                     "",
		"enable_alpinejs_csp":             true,
		"enable_bootstrap":                true,
		"enable_examples":                 true,
		"enable_excel_online":             true,
		"enable_htmx":                     true,
		"enable_socketio":                 true,
		"environment":                     string(EnvProd),
		"functions_namespace":             "XLWINGS",
		"hostname":                        "",
		"log_level":                       "INFO",
		"manifest_id_dev":                 DefaultManifestIDDev,
		"manifest_id_qa":                  DefaultManifestIDQA,
		"manifest_id_uat":                 DefaultManifestIDUAT,
		"manifest_id_staging":             DefaultManifestIDStaging,
		"manifest_id_prod":                DefaultManifestIDProd,
		"project_name":                    "xlwings Server",
		"public_addin_store":              false,
		"secret_key":                      "",
		"socketio_message_queue_url":      "",
		"socketio_server_app":             false,
		"static_url_path":                 "/static",
		"license_key":                     "",
	}
}

// installDir is the directory holding the running binary, with symlinks
// resolved.  Falls back to the working directory.
func installDir() string {
	exe, err := os.Executable()
	if err == nil {
		if real, err := filepath.EvalSymlinks(exe); err == nil {
			exe = real
		}
		return filepath.Dir(exe)
	}
	wd, _ := os.Getwd()
	return wd
}
