// Package metrics holds Prometheus instruments describing the resolved
// configuration.  All collectors are registered with the global registry,
// so serving promhttp.Handler() is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xlwings/xlserver/internal/config"
)

var (
	ConfigInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "xlserver_config_info",
			Help: "Always 1; labels carry the deployment environment and project name.",
		}, []string{"environment", "project"})

	FeatureEnabled = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "xlserver_feature_enabled",
			Help: "1 when the named feature toggle is on, 0 otherwise.",
		}, []string{"feature"})
)

func init() {
	prometheus.MustRegister(ConfigInfo, FeatureEnabled)
}

// Features lists the toggles exported by Publish, keyed by label value.
func Features(s *config.Settings) map[string]bool {
	return map[string]bool{
		"add_security_headers":            s.AddSecurityHeaders,
		"enable_alpinejs_csp":             s.EnableAlpineJSCSP,
		"enable_bootstrap":                s.EnableBootstrap,
		"enable_examples":                 s.EnableExamples,
		"enable_excel_online":             s.EnableExcelOnline,
		"enable_htmx":                     s.EnableHTMX,
		"enable_socketio":                 s.EnableSocketIO,
		"object_cache_enable_compression": s.ObjectCacheEnableCompression,
		"socketio_server_app":             s.SocketIOServerApp,
		"public_addin_store":              s.PublicAddinStore,
	}
}

// Publish sets every gauge from s.  Called once after config.Load.
func Publish(s *config.Settings) {
	ConfigInfo.Reset()
	ConfigInfo.WithLabelValues(string(s.Environment), s.ProjectName).Set(1)
	for name, on := range Features(s) {
		v := 0.0
		if on {
			v = 1
		}
		FeatureEnabled.WithLabelValues(name).Set(v)
	}
}
