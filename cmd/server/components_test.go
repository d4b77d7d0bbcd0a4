// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/api"
	"github.com/tomtom215/nutricoach/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("NUTRICOACH_STORE_IN_MEMORY", "true")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func TestBuildEngineConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Engine.MaxResults = 7
	cfg.Engine.CacheTTL = time.Minute

	ec := buildEngineConfig(cfg)
	if err := ec.Validate(); err != nil {
		t.Fatalf("mapped engine config invalid: %v", err)
	}
	if ec.Limits.MaxResults != 7 {
		t.Errorf("MaxResults = %d, want 7", ec.Limits.MaxResults)
	}
	if ec.Cache.TTL != time.Minute {
		t.Errorf("Cache.TTL = %v, want 1m", ec.Cache.TTL)
	}
	if err := buildSnapshotConfig(cfg).Validate(); err != nil {
		t.Errorf("mapped snapshot config invalid: %v", err)
	}
}

func TestBuildMiddlewareConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.CORSOrigins = []string{"https://app.example.com"}
	cfg.Security.RateLimitReqs = 0

	mw := buildMiddlewareConfig(cfg)
	if len(mw.CORSAllowedOrigins) != 1 || mw.CORSAllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", mw.CORSAllowedOrigins)
	}
	if mw.RateLimitRequests != api.DefaultMiddlewareConfig().RateLimitRequests {
		t.Errorf("RateLimitRequests = %d, want default", mw.RateLimitRequests)
	}
}

func TestInitComponents(t *testing.T) {
	cfg := testConfig(t)

	comps, err := initComponents(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("initComponents() error = %v", err)
	}
	defer func() {
		if err := comps.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	if comps.events == nil {
		t.Error("event stream hub not created with default config")
	}

	router := api.NewRouter(comps.handler, api.NewMiddleware(buildMiddlewareConfig(cfg)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}

	for _, task := range append(maintenanceTasks(comps), gcTask(comps, cfg.Store.GCDiscardRatio)) {
		if _, err := task.Run(context.Background(), time.Now()); err != nil {
			t.Errorf("task %s error = %v", task.Name, err)
		}
	}
}
