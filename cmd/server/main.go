// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/nutricoach/internal/api"
	"github.com/tomtom215/nutricoach/internal/config"
	"github.com/tomtom215/nutricoach/internal/logging"
	"github.com/tomtom215/nutricoach/internal/supervisor"
	"github.com/tomtom215/nutricoach/internal/supervisor/services"
)

func main() {
	// Config errors are logged with the default logger.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("store_path", cfg.Store.Path).
		Bool("in_memory", cfg.Store.InMemory).
		Msg("Starting NutriCoach")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; set NUTRICOACH_SECURITY_CORS_ORIGINS outside development")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	comps, err := initComponents(cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize components")
	}
	defer func() {
		if err := comps.Close(); err != nil {
			logging.Error().Err(err).Msg("Error during shutdown")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	// Maintenance layer
	tree.AddMaintenanceService(services.NewMaintenanceService(
		cfg.Gamification.MaintenanceInterval,
		logging.WithComponent("maintenance"),
		maintenanceTasks(comps)...,
	))
	if !cfg.Store.InMemory {
		gc := services.NewMaintenanceService(
			cfg.Store.GCInterval,
			logging.WithComponent("store-gc"),
			gcTask(comps, cfg.Store.GCDiscardRatio),
		)
		tree.AddMaintenanceService(gc)
	}

	// Events layer
	if cfg.Notify.LogEvents {
		tree.AddEventService(services.NewEventLogService(comps.notifier, logging.WithComponent("event-log")))
		logging.Info().Str("topic", cfg.Notify.Topic).Msg("Event log consumer enabled")
	}
	if comps.events != nil {
		tree.AddEventService(services.NewWebSocketHubService(comps.events))
		tree.AddEventService(services.NewEventRelayService(comps.notifier, comps.events))
		logging.Info().Msg("Event stream enabled at /ws/users/{userID}/events")
	}

	// API layer
	router := api.NewRouter(comps.handler, api.NewMiddleware(buildMiddlewareConfig(cfg)))
	server := newHTTPServer(cfg, router)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
		cancel()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("NutriCoach stopped")
}
