// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/snapshot"
)

func planLockKey(planID string) string { return "plan:" + planID }
func userLockKey(userID string) string { return "user:" + userID }

// CreatePlan handles POST /api/v1/users/{userID}/plans. The plan is
// generated for one of the user's goals against the current context and
// stored as DRAFT.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	var req createPlanRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	goal, err := h.Goals.GetGoal(ctx, userID, req.GoalID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	rc, err := h.Assembler.Assemble(ctx, snapshot.Request{UserID: userID, Now: h.now()})
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	p, err := h.Generator.GeneratePlanForGoal(goal, rc)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if err := h.Plans.Create(ctx, p); err != nil {
		respondFailure(w, r, err)
		return
	}
	h.Engine.InvalidateUser(userID)
	respondOK(w, r, http.StatusCreated, p, 0)
}

// ListPlans handles GET /api/v1/users/{userID}/plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	plans, err := h.Plans.List(ctx, userID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if plans == nil {
		plans = []models.ImprovementPlan{}
	}
	respondOK(w, r, http.StatusOK, plans, len(plans))
}

// PlanStatistics handles GET /api/v1/users/{userID}/plans/stats.
func (h *Handler) PlanStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	stats, err := h.Plans.Statistics(ctx, userID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, stats, 0)
}

// GetPlan handles GET /api/v1/plans/{planID}.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r, "")
	defer cancel()

	p, err := h.Plans.Get(ctx, chi.URLParam(r, "planID"))
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, p, 0)
}

type planTransition func(ctx context.Context, planID string) (*models.ImprovementPlan, error)

// TransitionPlan returns the handler for POST /api/v1/plans/{planID}/<action>.
func (h *Handler) TransitionPlan(transition planTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID := chi.URLParam(r, "planID")
		unlock := h.locks.Lock(planLockKey(planID))
		defer unlock()

		ctx, cancel := h.requestContext(r, "")
		defer cancel()

		p, err := transition(ctx, planID)
		if err != nil {
			respondFailure(w, r, err)
			return
		}
		h.Engine.InvalidateUser(p.UserID)
		respondOK(w, r, http.StatusOK, p, 0)
	}
}

// SaveDailyProgress handles POST /api/v1/plans/{planID}/progress.
func (h *Handler) SaveDailyProgress(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")
	var req dailyProgressRequest
	if !decode(w, r, &req) {
		return
	}

	unlock := h.locks.Lock(planLockKey(planID))
	defer unlock()

	ctx, cancel := h.requestContext(r, "")
	defer cancel()

	dp, err := h.Plans.SaveDailyProgress(ctx, planID, req.Date, req.CompletedTaskIDs, req.Notes)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	p, err := h.Plans.Get(ctx, planID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	h.Engine.InvalidateUser(p.UserID)
	respondOK(w, r, http.StatusOK, map[string]interface{}{
		"progress": dp,
		"plan":     p,
	}, 0)
}

// CompleteWeek handles POST /api/v1/plans/{planID}/weeks/{week}/complete.
func (h *Handler) CompleteWeek(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 1 {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "week must be a positive integer", nil)
		return
	}
	var req completeWeekRequest
	if !decode(w, r, &req) {
		return
	}

	unlock := h.locks.Lock(planLockKey(planID))
	defer unlock()

	ctx, cancel := h.requestContext(r, "")
	defer cancel()

	p, err := h.Plans.CompleteWeek(ctx, planID, week, req.CompletedTaskIDs)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	h.Engine.InvalidateUser(p.UserID)
	respondOK(w, r, http.StatusOK, p, 0)
}
