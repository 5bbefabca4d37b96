package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"moviefinder/internal/logging"
	"moviefinder/internal/telemetry"
	"moviefinder/internal/tmdb"
	"moviefinder/internal/web"
)

const telemetryFlushTimeout = 5 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the movie finder web front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if value := strings.TrimSpace(bind); value != "" {
				cfg.Server.Bind = value
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownTelemetry, err := telemetry.Setup(runCtx, cfg.Telemetry, logger)
			if err != nil {
				return fmt.Errorf("init telemetry: %w", err)
			}
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
				defer cancel()
				if err := shutdownTelemetry(flushCtx); err != nil {
					logger.Warn("telemetry shutdown", logging.Error(err))
				}
			}()

			if !cfg.HasTMDBToken() {
				logger.Warn("tmdb api token not configured; catalog requests will be rejected",
					logging.String("config", ctx.configPath),
				)
			}

			catalog, err := tmdb.New(cfg.TMDB.APIToken, cfg.TMDB.BaseURL, cfg.TMDB.Language,
				tmdb.WithHTTPClient(&http.Client{Timeout: cfg.TMDBTimeout()}),
				tmdb.WithRequestsPerSecond(cfg.TMDB.RequestsPerSecond),
				tmdb.WithLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("create catalog client: %w", err)
			}

			server, err := web.New(cfg, catalog, logger)
			if err != nil {
				return fmt.Errorf("create web server: %w", err)
			}
			if err := server.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", server.Addr())

			<-runCtx.Done()
			server.Stop()
			logger.Info("moviefinder shutting down")
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}
