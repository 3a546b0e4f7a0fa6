// cmd/web/main.go
//
// xlserver – HTTP entry point.
//
// Start-up order
// --------------
//
//  1. Resolve configuration (defaults < override file < XLWINGS_ env).
//     This also writes the legacy XLWINGS_LICENSE_KEY/XLWINGS_DATE_FORMAT
//     variables, so it must finish before anything else starts.
//
//  2. Start the daily rotating logger (tees to console in a TTY).
//
//  3. Publish config gauges for /metrics.
//
//  4. Build the router and serve until SIGINT/SIGTERM.
//
// A configuration error exits non-zero before any listener opens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xlwings/xlserver/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.Load).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
