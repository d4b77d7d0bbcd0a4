// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/nutricoach/internal/gamification"
	"github.com/tomtom215/nutricoach/internal/logging"
	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/plan"
	"github.com/tomtom215/nutricoach/internal/recommend"
	"github.com/tomtom215/nutricoach/internal/store"
	"github.com/tomtom215/nutricoach/internal/validation"
	"github.com/tomtom215/nutricoach/internal/websocket"
)

// GoalStore persists health goals.
type GoalStore interface {
	SaveGoal(ctx context.Context, g *models.HealthGoal) error
	GetGoal(ctx context.Context, userID, goalID string) (*models.HealthGoal, error)
	ListGoals(ctx context.Context, userID string) ([]models.HealthGoal, error)
}

// RecordStore persists food records and derives achievement counters.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec *models.FoodRecord) error
	Aggregates(ctx context.Context, userID string, asOf time.Time) (models.UserAggregates, error)
}

// PreferenceStore persists per-user food preferences.
type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID string) (models.UserPreferences, error)
	SavePreferences(ctx context.Context, userID string, p *models.UserPreferences) error
}

// Deps are the collaborators the handlers drive. All are required.
type Deps struct {
	Engine      *recommend.Engine
	Assembler   recommend.Assembler
	Goals       GoalStore
	Records     RecordStore
	Preferences PreferenceStore
	Plans       *plan.Tracker
	Generator   *plan.Generator
	Progression *gamification.Progression
	Challenges  *gamification.ChallengeService
}

// Limits bounds list sizes.
type Limits struct {
	MaxResults int
	TodayLimit int
}

// Handler implements the HTTP endpoints.
type Handler struct {
	Deps
	limits    Limits
	locks     *store.KeyedMutex
	now       func() time.Time
	startTime time.Time
	timeout   time.Duration

	events         *websocket.Hub
	allowedOrigins []string
}

// NewHandler creates the handlers. Zero limits fall back to the engine's
// configured limits.
func NewHandler(deps Deps, limits Limits) *Handler {
	if deps.Engine != nil {
		cfg := deps.Engine.Config()
		if limits.MaxResults <= 0 {
			limits.MaxResults = cfg.Limits.MaxResults
		}
		if limits.TodayLimit <= 0 {
			limits.TodayLimit = cfg.Limits.TodayLimit
		}
	}
	return &Handler{
		Deps:      deps,
		limits:    limits,
		locks:     store.NewKeyedMutex(),
		now:       time.Now,
		startTime: time.Now(),
		timeout:   10 * time.Second,
	}
}

// WithClock overrides the handler clock used for record timestamps and
// challenge periods.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// WithEventStream enables the WebSocket event stream. Browser connections
// must come from one of allowedOrigins; "*" allows any origin.
func (h *Handler) WithEventStream(hub *websocket.Hub, allowedOrigins []string) *Handler {
	h.events = hub
	h.allowedOrigins = allowedOrigins
	return h
}

// requestContext bounds a handler's work and tags the log context with the
// user the request acts for.
func (h *Handler) requestContext(r *http.Request, userID string) (context.Context, context.CancelFunc) {
	ctx := r.Context()
	if userID != "" {
		ctx = logging.ContextWithUserID(ctx, userID)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// userParam returns the {userID} path parameter or writes a 400.
func userParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if !validation.ValidUserID(userID) {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid user ID", nil)
		return "", false
	}
	return userID, true
}

// decode reads and validates a JSON body, writing the error response when it
// fails.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := decodeJSON(w, r, v)
	if err == nil {
		return true
	}
	var verr *validation.Errors
	if errors.As(err, &verr) {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), err)
		return false
	}
	respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "invalid JSON body", err)
	return false
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	}
	if h.Engine != nil {
		data["engine"] = h.Engine.Metrics()
	}
	respondOK(w, r, http.StatusOK, data, 0)
}
