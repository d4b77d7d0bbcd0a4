// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/api"
	"github.com/tomtom215/nutricoach/internal/config"
	"github.com/tomtom215/nutricoach/internal/gamification"
	"github.com/tomtom215/nutricoach/internal/notify"
	"github.com/tomtom215/nutricoach/internal/plan"
	"github.com/tomtom215/nutricoach/internal/recommend"
	"github.com/tomtom215/nutricoach/internal/snapshot"
	"github.com/tomtom215/nutricoach/internal/store"
	"github.com/tomtom215/nutricoach/internal/supervisor/services"
	"github.com/tomtom215/nutricoach/internal/websocket"
)

// components holds everything the HTTP layer and the background services
// share.
type components struct {
	store           *store.Store
	recommendations *store.RecommendationRepository
	notifier        *notify.Notifier
	engine          *recommend.Engine
	challenges      *gamification.ChallengeService
	events          *websocket.Hub
	handler         *api.Handler
}

// Close releases the notifier and the database.
func (c *components) Close() error {
	if err := c.notifier.Close(); err != nil {
		return fmt.Errorf("close notifier: %w", err)
	}
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// initComponents opens the store and builds the engine, the plan tracker
// and gamification on top of it.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initComponents(cfg *config.Config, logger zerolog.Logger) (*components, error) {
	db, err := store.Open(store.Config{Path: cfg.Store.Path, InMemory: cfg.Store.InMemory}, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	goals := store.NewGoalRepository(db)
	records := store.NewRecordRepository(db)
	plans := store.NewPlanRepository(db)
	recs := store.NewRecommendationRepository(db)
	prefs := store.NewPreferencesRepository(db)

	notifier := notify.New(notify.Config{Topic: cfg.Notify.Topic, BufferSize: cfg.Notify.BufferSize}, logger)

	aggregator, err := snapshot.NewAggregator(buildSnapshotConfig(cfg), store.NewNutritionAnalyzer(records), records, goals, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	aggregator.WithPlans(plans).WithPreferences(prefs)

	engine, err := recommend.NewDefaultEngine(buildEngineConfig(cfg), logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	engine.SetAssembler(aggregator)
	engine.SetRepository(recs)

	progression := gamification.NewProgression(
		store.NewAchievementRepository(db),
		store.NewLedgerRepository(db),
		logger,
	).WithNotifier(notifier)
	challenges := gamification.NewChallengeService(store.NewChallengeRepository(db), progression, logger).
		WithNotifier(notifier)
	tracker := plan.NewTracker(plans, buildPlanConfig(cfg), logger).
		WithNotifier(notifier).
		WithRewards(progression)

	handler := api.NewHandler(api.Deps{
		Engine:      engine,
		Assembler:   aggregator,
		Goals:       goals,
		Records:     records,
		Preferences: prefs,
		Plans:       tracker,
		Generator:   plan.NewGenerator(),
		Progression: progression,
		Challenges:  challenges,
	}, api.Limits{
		MaxResults: cfg.Engine.MaxResults,
		TodayLimit: cfg.Engine.TodayLimit,
	})

	var events *websocket.Hub
	if cfg.Notify.StreamEvents {
		events = websocket.NewHub(logger)
		handler.WithEventStream(events, cfg.Security.CORSOrigins)
	}

	return &components{
		store:           db,
		recommendations: recs,
		notifier:        notifier,
		engine:          engine,
		challenges:      challenges,
		events:          events,
		handler:         handler,
	}, nil
}

// buildEngineConfig maps the service configuration onto the engine's.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		Limits: recommend.LimitsConfig{
			MaxResults: cfg.Engine.MaxResults,
			TodayLimit: cfg.Engine.TodayLimit,
		},
		Cache: recommend.CacheConfig{
			Enabled:    cfg.Engine.CacheEnabled,
			TTL:        cfg.Engine.CacheTTL,
			MaxEntries: cfg.Engine.CacheCapacity,
		},
		Plans: recommend.PlanConfig{
			StalledProgress:   cfg.Engine.StalledProgress,
			StalledAfterDays:  cfg.Engine.StalledAfterDays,
			FinishingProgress: cfg.Engine.FinishingProgress,
			FinishingDaysLeft: cfg.Engine.FinishingDaysLeft,
		},
	}
}

func buildSnapshotConfig(cfg *config.Config) snapshot.Config {
	return snapshot.Config{
		GapWindowDays:    cfg.Engine.GapWindowDays,
		ScoreHistoryDays: cfg.Engine.ScoreHistoryDays,
		FetchTimeout:     cfg.Engine.FetchTimeout,
		BreakerFailures:  cfg.Engine.BreakerFailures,
		BreakerCooldown:  cfg.Engine.BreakerCooldown,
	}
}

func buildPlanConfig(cfg *config.Config) plan.Config {
	return plan.Config{
		DailyTaskQuota:     cfg.Plan.DailyTaskQuota,
		ProgressWindowDays: cfg.Plan.ProgressWindowDays,
	}
}

func buildMiddlewareConfig(cfg *config.Config) api.MiddlewareConfig {
	mw := api.DefaultMiddlewareConfig()
	if len(cfg.Security.CORSOrigins) > 0 {
		mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	}
	if cfg.Security.RateLimitReqs > 0 {
		mw.RateLimitRequests = cfg.Security.RateLimitReqs
	}
	if cfg.Security.RateLimitWindow > 0 {
		mw.RateLimitWindow = cfg.Security.RateLimitWindow
	}
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return mw
}

// maintenanceTasks are the periodic purges, in the order they run.
func maintenanceTasks(c *components) []services.MaintenanceTask {
	return []services.MaintenanceTask{
		{Name: "challenge_purge", Run: c.challenges.PurgeExpired},
		{Name: "recommendation_purge", Run: c.recommendations.DeleteExpiredRecommendations},
		{Name: "cache_purge", Run: func(_ context.Context, _ time.Time) (int, error) {
			return c.engine.PurgeCache(), nil
		}},
	}
}

// gcTask runs one round of value log garbage collection.
func gcTask(c *components, discardRatio float64) services.MaintenanceTask {
	return services.MaintenanceTask{
		Name: "store_gc",
		Run: func(_ context.Context, _ time.Time) (int, error) {
			return 0, c.store.RunGC(discardRatio)
		},
	}
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
}
