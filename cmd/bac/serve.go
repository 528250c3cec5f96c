package main

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/petit-bac/internal/api"
	"github.com/Veraticus/petit-bac/internal/metrics"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve word validation over HTTP",
		Long: `Start an HTTP server exposing:

  GET  /api/v1/validate?category=ANIMAL&word=chien
  POST /api/v1/validate    {"category": "ANIMAL", "word": "chien"}
  GET  /api/v1/categories
  GET  /healthz
  GET  /metrics            Prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			a.registry.MustRegister(
				metrics.NewCacheCollector(a.store),
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			if viper.GetString("logging.level") != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			router := api.New(a.svc, api.Options{
				Gatherer:       a.registry,
				Lists:          a.lists,
				RequestTimeout: 2 * a.cfg.WebTimeout,
			})

			slog.Info("Serving word validation",
				"addr", a.cfg.ServerAddr,
				"validators", a.svc.AvailableValidators(),
				"backend", a.cfg.CacheBackend)

			if err := api.Serve(ctx, a.cfg.ServerAddr, router); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
