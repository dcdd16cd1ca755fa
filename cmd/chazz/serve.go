package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/chazz"
	"github.com/aretw0/chazz/internal/cli"
	"github.com/aretw0/chazz/internal/config"
	chazzhttp "github.com/aretw0/chazz/pkg/adapters/http"
	"github.com/aretw0/chazz/pkg/convert"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long: `Exposes the transformation engine as a JSON API over HTTP.

The OpenAPI description is served at /openapi.yaml and Prometheus metrics at /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		metrics := convert.NewMetrics(reg)
		engine := markup.NewEngine(markup.WithObserver(metrics.Observer()))

		handler, err := chazzhttp.NewHandler(engine,
			chazzhttp.WithLogger(logger),
			chazzhttp.WithVersion(chazz.Version),
			chazzhttp.WithRegistry(reg),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    ":" + cfg.Serve.Port,
			Handler: handler,
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Chazz Server", "addr", srv.Addr, "version", chazz.Version)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown", "signal", fmt.Sprint(ctx.Signal()))

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Serve.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", cfg.Serve.ShutdownTimeout, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("failed to kill server: %w", err)
				}
			}
			logger.Info("Chazz Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP(config.FlagName("serve.port"), "p", config.Default().Serve.Port, "HTTP port to listen on")
	config.BindFlags(serveCmd.Flags(), "serve.port", "serve.shutdown_timeout")
}
