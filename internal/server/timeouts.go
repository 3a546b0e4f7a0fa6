// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
//   • ReadHeaderTimeout – abort slow-loris headers (5 s)
//   • ReadTimeout       – cap request body reads (30 s)
//   • WriteTimeout      – cap total response time (60 s, long enough for
//                         custom-function calls from Excel)
//   • IdleTimeout       – close keep-alives on idle clients (120 s)
//

package server

import (
	"net/http"
	"time"
)

// New constructs an *http.Server around handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
