// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"net/http"

	"github.com/tomtom215/nutricoach/internal/models"
)

// GetPreferences handles GET /api/v1/users/{userID}/preferences. A user who
// never saved preferences gets an empty document.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	prefs, err := h.Preferences.GetPreferences(ctx, userID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, prefs, 0)
}

// UpdatePreferences handles PUT /api/v1/users/{userID}/preferences. The body
// replaces the stored document, and the cached recommendation list is dropped
// so the next request reflects it.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	var req preferencesRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Budget.Min < 0 || (req.Budget.Max != 0 && req.Budget.Max < req.Budget.Min) {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "budget must satisfy 0 <= min <= max", nil)
		return
	}

	prefs := &models.UserPreferences{
		DietaryRestrictions: req.DietaryRestrictions,
		DislikedFoods:       req.DislikedFoods,
		Cuisines:            req.Cuisines,
		CookingTimeBudget:   req.CookingTimeBudget,
		Budget:              req.Budget,
	}

	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	if err := h.Preferences.SavePreferences(ctx, userID, prefs); err != nil {
		respondFailure(w, r, err)
		return
	}
	h.Engine.InvalidateUser(userID)
	respondOK(w, r, http.StatusOK, prefs, 0)
}
