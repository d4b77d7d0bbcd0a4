// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/nutricoach/internal/models"
)

// CreateGoal handles POST /api/v1/users/{userID}/goals. New goals start
// ACTIVE today.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	var req goalRequest
	if !decode(w, r, &req) {
		return
	}

	now := h.now()
	goal := &models.HealthGoal{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         req.Type,
		Title:        req.Title,
		CurrentValue: req.CurrentValue,
		TargetValue:  req.TargetValue,
		Unit:         req.Unit,
		StartDate:    now,
		Status:       models.GoalActive,
	}
	if req.EndDate != "" {
		// Already validated as a date.
		end, _ := time.ParseInLocation(time.DateOnly, req.EndDate, now.Location())
		if !end.After(now) {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "end_date must be in the future", nil)
			return
		}
		goal.EndDate = end
	}

	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	if err := h.Goals.SaveGoal(ctx, goal); err != nil {
		respondFailure(w, r, err)
		return
	}
	h.Engine.InvalidateUser(userID)
	respondOK(w, r, http.StatusCreated, goal, 0)
}

// ListGoals handles GET /api/v1/users/{userID}/goals.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	goals, err := h.Goals.ListGoals(ctx, userID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if goals == nil {
		goals = []models.HealthGoal{}
	}
	respondOK(w, r, http.StatusOK, goals, len(goals))
}

// CreateRecord handles POST /api/v1/users/{userID}/records. Logging food
// changes the user's context, so the cached recommendation list is dropped.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	var req recordRequest
	if !decode(w, r, &req) {
		return
	}

	rec := &models.FoodRecord{
		UserID:    userID,
		FoodName:  req.FoodName,
		Category:  req.Category,
		MealType:  req.MealType,
		Nutrients: req.Nutrients,
		LoggedAt:  h.now(),
	}
	if req.LoggedAt != nil {
		if req.LoggedAt.After(h.now().Add(time.Minute)) {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "logged_at must not be in the future", nil)
			return
		}
		rec.LoggedAt = *req.LoggedAt
	}
	if rec.MealType == "" {
		rec.MealType = models.MealTypeForHour(rec.LoggedAt.Hour())
	}

	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	if err := h.Records.SaveRecord(ctx, rec); err != nil {
		respondFailure(w, r, err)
		return
	}
	h.Engine.InvalidateUser(userID)
	respondOK(w, r, http.StatusCreated, rec, 0)
}
