// internal/server/router.go
//
// Root router for the add-in server.
//
// Routes
// ------
//   • GET  /healthz                    – liveness plus environment name
//   • GET  /metrics                    – Prometheus
//   • GET  <app_path><static_url_path>/* – files under StaticDir()
//   • GET  /debug/config               – redacted settings, dev only
//
// Business routes are mounted by the caller on the returned chi.Router.

package server

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xlwings/xlserver/internal/config"
	"github.com/xlwings/xlserver/internal/middleware"
)

// NewRouter builds the middleware chain and static routes from s.
func NewRouter(s *config.Settings) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if s.AddSecurityHeaders {
		r.Use(middleware.Security(s.EnableAlpineJSCSP))
	}
	r.Use(middleware.CORS(s.CORSAllowOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{
			"status":      "ok",
			"environment": string(s.Environment),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	prefix := StaticPrefix(s)
	r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(s.StaticDir()))))

	if s.Environment == config.EnvDev {
		view := s.AsMap(true)
		r.Get("/debug/config", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, view)
		})
	}
	return r
}

// StaticPrefix is the URL path static assets are served under, without a
// trailing slash.  It is "" when assets sit at the site root.
func StaticPrefix(s *config.Settings) string {
	return strings.TrimSuffix(path.Join("/", s.AppPath, s.StaticURLPath), "/")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
