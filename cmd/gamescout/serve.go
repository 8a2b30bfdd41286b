// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tomtom215/gamescout/internal/api"
	"github.com/tomtom215/gamescout/internal/config"
	"github.com/tomtom215/gamescout/internal/logging"
	"github.com/tomtom215/gamescout/internal/supervisor"
	"github.com/tomtom215/gamescout/internal/supervisor/services"
)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := logging.WithComponent("gamescout")
	logger.Info().Str("config", cfg.String()).Msg("Starting gamescout with supervisor tree")

	stack, err := buildEngine(cfg, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}
	defer stack.Close()

	tree, err := supervisor.NewSupervisorTree(slog.New(logging.NewSlogHandler()), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	engineService := services.NewEngineService(stack.Engine, services.EngineServiceConfig{
		RefreshInterval: cfg.Catalog.RefreshInterval,
	}, logging.WithComponent("engine-service"))
	tree.AddEngineService(engineService)

	handler := api.NewHandler(stack.Engine, stack.Catalog, engineService, api.HandlerConfig{
		RequestTimeout:   cfg.Server.Timeout,
		MaxCommentLength: cfg.API.MaxCommentLength,
		RebuildPerHour:   cfg.API.RebuildPerHour,
		RebuildBurst:     cfg.API.RebuildBurst,
	})
	mwConfig := api.DefaultMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.API.CORSOrigins
	mwConfig.RateLimitRequests = cfg.API.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.API.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.API.RateLimitDisabled
	if cfg.API.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	router := api.NewRouter(handler, api.NewMiddleware(mwConfig), cfg.Server.Timeout)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.Server.Timeout/2,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPService(server, server.Addr, cfg.Server.ShutdownTimeout,
		logging.WithComponent("http-api")))

	logger.Info().Str("addr", server.Addr).Msg("Supervisor tree starting")
	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree stopped with error")
		return err
	}
	logger.Info().Msg("Gamescout stopped")
	return nil
}
