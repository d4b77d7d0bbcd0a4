// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/nutricoach/internal/gamification"
	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/snapshot"
)

func challengeLockKey(id string) string { return "challenge:" + id }

// ListAchievements handles GET /api/v1/users/{userID}/achievements.
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	achievements, err := h.Progression.Achievements(ctx, userID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, achievements, len(achievements))
}

// EvaluateAchievements handles POST /api/v1/users/{userID}/achievements/evaluate.
// It returns the achievements unlocked by this evaluation.
func (h *Handler) EvaluateAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	unlock := h.locks.Lock(userLockKey(userID))
	defer unlock()

	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	agg, err := h.Records.Aggregates(ctx, userID, h.now())
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	unlocked, err := h.Progression.EvaluateAchievements(ctx, userID, agg)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if unlocked == nil {
		unlocked = []models.Achievement{}
	}
	respondOK(w, r, http.StatusOK, map[string]interface{}{
		"unlocked":   unlocked,
		"aggregates": agg,
	}, len(unlocked))
}

// GetLevel handles GET /api/v1/users/{userID}/level.
func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	points, level, toNext, err := h.Progression.Level(ctx, userID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, map[string]interface{}{
		"user_id":        userID,
		"points":         points,
		"level":          level,
		"points_to_next": toNext,
	}, 0)
}

// ListChallenges handles GET /api/v1/users/{userID}/challenges.
func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	challenges, err := h.Challenges.List(ctx, userID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if challenges == nil {
		challenges = []models.Challenge{}
	}
	respondOK(w, r, http.StatusOK, challenges, len(challenges))
}

// GenerateDailyChallenges handles POST /api/v1/users/{userID}/challenges/daily.
func (h *Handler) GenerateDailyChallenges(w http.ResponseWriter, r *http.Request) {
	h.generateChallenges(w, r, gamification.NewDailyChallenges)
}

// GenerateWeeklyChallenges handles POST /api/v1/users/{userID}/challenges/weekly.
func (h *Handler) GenerateWeeklyChallenges(w http.ResponseWriter, r *http.Request) {
	h.generateChallenges(w, r, gamification.NewWeeklyChallenges)
}

// generateChallenges stores the current period's challenges. Calling it
// again in the same period returns the stored ones with their progress.
func (h *Handler) generateChallenges(
	w http.ResponseWriter,
	r *http.Request,
	build func(userID string, date time.Time, rc *models.RecommendationContext) []models.Challenge,
) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	unlock := h.locks.Lock(userLockKey(userID))
	defer unlock()

	ctx, cancel := h.requestContext(r, userID)
	defer cancel()

	now := h.now()
	rc, err := h.Assembler.Assemble(ctx, snapshot.Request{UserID: userID, Now: now})
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	challenges, err := h.Challenges.Generate(ctx, build(userID, now, rc))
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, challenges, len(challenges))
}

// UpdateChallengeProgress handles POST /api/v1/challenges/{id}/progress.
func (h *Handler) UpdateChallengeProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req challengeProgressRequest
	if !decode(w, r, &req) {
		return
	}

	unlock := h.locks.Lock(challengeLockKey(id))
	defer unlock()

	ctx, cancel := h.requestContext(r, "")
	defer cancel()

	c, err := h.Challenges.UpdateProgress(ctx, id, req.Delta)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, c, 0)
}

// CompleteChallenge handles POST /api/v1/challenges/{id}/complete.
func (h *Handler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	unlock := h.locks.Lock(challengeLockKey(id))
	defer unlock()

	ctx, cancel := h.requestContext(r, "")
	defer cancel()

	c, err := h.Challenges.Complete(ctx, id)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, c, 0)
}
