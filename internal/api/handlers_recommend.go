// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/recommend"
	"github.com/tomtom215/nutricoach/internal/recommend/strategies"
	"github.com/tomtom215/nutricoach/internal/snapshot"
	"github.com/tomtom215/nutricoach/internal/validation"
)

// recommendationList is the payload of the list endpoints.
type recommendationList struct {
	UserID          string                  `json:"user_id"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Scenario        string                  `json:"scenario,omitempty"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, req snapshot.Request) (*recommend.Response, bool) {
	ctx, cancel := h.requestContext(r, req.UserID)
	defer cancel()

	resp, err := h.Engine.Recommend(ctx, req)
	if err != nil {
		respondFailure(w, r, err)
		return nil, false
	}
	return resp, true
}

func respondRecommendations(w http.ResponseWriter, r *http.Request, resp *recommend.Response, recs []models.Recommendation) {
	if recs == nil {
		recs = []models.Recommendation{}
	}
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: recommendationList{
			UserID:          resp.UserID,
			Recommendations: recs,
			Scenario:        resp.Scenario,
			GeneratedAt:     resp.GeneratedAt,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: resp.LatencyMS,
			Cached:      resp.CacheHit,
			Count:       len(recs),
		},
	})
}

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	q := recommendationQuery{
		Type:     models.RecommendationType(r.URL.Query().Get("type")),
		Priority: r.URL.Query().Get("priority"),
		Limit:    getIntParam(r, "limit", 0),
		Location: models.Location(r.URL.Query().Get("location")),
		MealType: models.MealType(r.URL.Query().Get("meal_type")),
	}
	if err := validation.ValidateStruct(&q); err != nil {
		respondFailure(w, r, err)
		return
	}

	resp, ok := h.recommend(w, r, snapshot.Request{
		UserID:   userID,
		Location: q.Location,
		MealType: q.MealType,
		Now:      h.now(),
	})
	if !ok {
		return
	}

	recs := resp.Recommendations
	if q.Type != "" {
		recs = recommend.FilterByType(recs, q.Type)
	}
	if q.Priority != "" {
		minPriority, err := models.ParsePriority(q.Priority)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
			return
		}
		recs = recommend.FilterByPriority(recs, minPriority)
	}
	respondRecommendations(w, r, resp, recommend.TopN(recs, q.Limit))
}

// GetTodayRecommendations handles GET /api/v1/users/{userID}/recommendations/today.
// n defaults to the configured today limit and is capped at the result limit.
func (h *Handler) GetTodayRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	n := getIntParam(r, "n", h.limits.TodayLimit)
	if n <= 0 {
		n = h.limits.TodayLimit
	}
	if n > h.limits.MaxResults {
		n = h.limits.MaxResults
	}

	resp, ok := h.recommend(w, r, snapshot.Request{UserID: userID, Now: h.now()})
	if !ok {
		return
	}
	respondRecommendations(w, r, resp, recommend.TopN(resp.Recommendations, n))
}

// CheckNewRecommendations handles POST /api/v1/users/{userID}/recommendations/check-new.
// It reports whether the current list holds a HIGH recommendation the
// caller has not seen.
func (h *Handler) CheckNewRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	var req checkNewRequest
	if !decode(w, r, &req) {
		return
	}

	resp, ok := h.recommend(w, r, snapshot.Request{UserID: userID, Now: h.now()})
	if !ok {
		return
	}
	hasNew := recommend.HasNewHighPriority(resp.Recommendations, recommend.SeenSet(req.SeenIDs))
	respondOK(w, r, http.StatusOK, map[string]interface{}{
		"user_id":               userID,
		"has_new_high_priority": hasNew,
	}, 0)
}

// GetRecommendationHistory handles GET /api/v1/users/{userID}/recommendations/history.
func (h *Handler) GetRecommendationHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	recs, err := h.Engine.History(ctx, userID, getIntParam(r, "limit", 50))
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}
	respondOK(w, r, http.StatusOK, recs, len(recs))
}

// MarkRecommendationRead handles POST /api/v1/users/{userID}/recommendations/{id}/read.
func (h *Handler) MarkRecommendationRead(w http.ResponseWriter, r *http.Request) {
	h.markRecommendation(w, r, h.Engine.MarkRead, "read")
}

// MarkRecommendationApplied handles POST /api/v1/users/{userID}/recommendations/{id}/applied.
func (h *Handler) MarkRecommendationApplied(w http.ResponseWriter, r *http.Request) {
	h.markRecommendation(w, r, h.Engine.MarkApplied, "applied")
}

func (h *Handler) markRecommendation(
	w http.ResponseWriter,
	r *http.Request,
	mark func(ctx context.Context, userID, id string) error,
	state string,
) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	if err := mark(ctx, userID, id); err != nil {
		respondFailure(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, map[string]interface{}{
		"id":    id,
		"state": state,
	}, 0)
}

// GetScenario handles GET /api/v1/users/{userID}/scenario. The scenario is
// derived from a freshly assembled context and does not generate a list.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	req := snapshot.Request{
		UserID:   userID,
		Location: models.Location(r.URL.Query().Get("location")),
		MealType: models.MealType(r.URL.Query().Get("meal_type")),
		Now:      h.now(),
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondFailure(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	rc, err := h.Assembler.Assemble(ctx, req)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	scenario := strategies.DetectScenario(rc)
	respondOK(w, r, http.StatusOK, map[string]interface{}{
		"scenario":    scenario,
		"description": scenario.Description(),
		"timestamp":   rc.Timestamp,
	}, 0)
}
