// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/metrics"
)

// MaintenanceTask is one periodic cleanup step. Run returns the number of
// items it removed or compacted.
type MaintenanceTask struct {
	Name string
	Run  func(ctx context.Context, now time.Time) (int, error)
}

// MaintenanceService runs its tasks once at start and then every interval.
// A failing task is logged and counted; it never stops the others or the
// service.
type MaintenanceService struct {
	tasks    []MaintenanceTask
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	logger   zerolog.Logger
	name     string
}

// NewMaintenanceService creates the service. A non-positive interval means
// one hour.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMaintenanceService(interval time.Duration, logger zerolog.Logger, tasks ...MaintenanceTask) *MaintenanceService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &MaintenanceService{
		tasks:    tasks,
		interval: interval,
		timeout:  5 * time.Minute,
		now:      time.Now,
		logger:   logger.With().Str("service", "maintenance").Logger(),
		name:     "maintenance",
	}
}

// WithClock overrides the time passed to tasks.
func (s *MaintenanceService) WithClock(now func() time.Time) *MaintenanceService {
	s.now = now
	return s
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Int("tasks", len(s.tasks)).
		Msg("maintenance service starting")

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs every task in order.
func (s *MaintenanceService) RunOnce(ctx context.Context) {
	now := s.now()
	for _, task := range s.tasks {
		if ctx.Err() != nil {
			return
		}
		taskCtx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		n, err := task.Run(taskCtx, now)
		cancel()

		metrics.RecordMaintenance(task.Name, err)
		if err != nil {
			s.logger.Warn().Err(err).Str("task", task.Name).Msg("maintenance task failed")
			continue
		}
		s.logger.Debug().
			Str("task", task.Name).
			Int("affected", n).
			Dur("duration", time.Since(start)).
			Msg("maintenance task complete")
	}
}

// String names the service in supervisor events.
func (s *MaintenanceService) String() string {
	return s.name
}
