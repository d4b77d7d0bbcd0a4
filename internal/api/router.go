// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/nutricoach/internal/middleware"
)

// NewRouter wires every route onto a chi router.
func NewRouter(h *Handler, mw *Middleware) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Handle("/metrics", promhttp.Handler())

	// The stream sits outside /api/v1 so no middleware wraps the writer
	// the upgrade hijacks.
	r.Get("/ws/users/{userID}/events", h.EventStream)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5))

		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Route("/recommendations", func(r chi.Router) {
					r.Get("/", h.GetRecommendations)
					r.Get("/today", h.GetTodayRecommendations)
					r.Get("/history", h.GetRecommendationHistory)
					r.Post("/check-new", h.CheckNewRecommendations)
					r.Post("/{id}/read", h.MarkRecommendationRead)
					r.Post("/{id}/applied", h.MarkRecommendationApplied)
				})
				r.Get("/scenario", h.GetScenario)

				r.Get("/goals", h.ListGoals)
				r.Post("/goals", h.CreateGoal)
				r.Post("/records", h.CreateRecord)

				r.Get("/preferences", h.GetPreferences)
				r.Put("/preferences", h.UpdatePreferences)

				r.Get("/plans", h.ListPlans)
				r.Post("/plans", h.CreatePlan)
				r.Get("/plans/stats", h.PlanStatistics)

				r.Get("/achievements", h.ListAchievements)
				r.Post("/achievements/evaluate", h.EvaluateAchievements)
				r.Get("/level", h.GetLevel)

				r.Get("/challenges", h.ListChallenges)
				r.Post("/challenges/daily", h.GenerateDailyChallenges)
				r.Post("/challenges/weekly", h.GenerateWeeklyChallenges)
			})

			r.Route("/plans/{planID}", func(r chi.Router) {
				r.Get("/", h.GetPlan)
				r.Post("/activate", h.TransitionPlan(h.Plans.Activate))
				r.Post("/pause", h.TransitionPlan(h.Plans.Pause))
				r.Post("/resume", h.TransitionPlan(h.Plans.Resume))
				r.Post("/complete", h.TransitionPlan(h.Plans.Complete))
				r.Post("/cancel", h.TransitionPlan(h.Plans.Cancel))
				r.Post("/progress", h.SaveDailyProgress)
				r.Post("/weeks/{week}/complete", h.CompleteWeek)
			})

			r.Route("/challenges/{id}", func(r chi.Router) {
				r.Post("/progress", h.UpdateChallengeProgress)
				r.Post("/complete", h.CompleteChallenge)
			})
		})
	})

	return r
}
