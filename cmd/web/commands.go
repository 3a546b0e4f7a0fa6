package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/xlwings/xlserver/internal/config"
	"github.com/xlwings/xlserver/internal/logger"
	"github.com/xlwings/xlserver/internal/metrics"
	"github.com/xlwings/xlserver/internal/server"
)

// loadFunc resolves the process configuration.  main passes config.Load.
type loadFunc func() (*config.Settings, error)

const shutdownGrace = 10 * time.Second

func newRootCmd(load loadFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "xlserver",
		Short:         "Excel add-in server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(load), newConfigCmd(load))
	return root
}

type serveOptions struct {
	addr string
}

func (o *serveOptions) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.addr, "addr", ":8000", "listen address")
}

func newServeCmd(load loadFunc) *cobra.Command {
	opts := &serveOptions{}
	c := &cobra.Command{
		Use:   "serve",
		Short: "Resolve configuration and serve HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			log, err := logger.New(s.BaseDir, s.LogLevel, runningInTTY())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			metrics.Publish(s)
			srv := server.New(opts.addr, server.NewRouter(s))

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			log.Infow("listening",
				"addr", opts.addr,
				"environment", s.Environment,
				"static", server.StaticPrefix(s)+"/",
			)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			log.Infow("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	opts.bind(c.Flags())
	return c
}

func newConfigCmd(load loadFunc) *cobra.Command {
	var showSecrets bool
	c := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(s.AsMap(!showSecrets)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	c.Flags().BoolVar(&showSecrets, "show-secrets", false, "print secret_key and license_key in clear")
	return c
}
