// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/nutricoach/internal/gamification"
	"github.com/tomtom215/nutricoach/internal/plan"
	"github.com/tomtom215/nutricoach/internal/recommend"
	"github.com/tomtom215/nutricoach/internal/store"
	"github.com/tomtom215/nutricoach/internal/validation"
)

// Error codes for API responses.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed = validation.ErrorCode
)

// errorStatus maps a domain error to its HTTP status and code. Unknown
// errors are internal.
func errorStatus(err error) (int, string) {
	var verr *validation.Errors
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrCodeValidationFailed

	case errors.Is(err, plan.ErrPlanNotFound),
		errors.Is(err, gamification.ErrChallengeNotFound),
		errors.Is(err, gamification.ErrAchievementNotFound),
		errors.Is(err, recommend.ErrRecommendationNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound

	case errors.Is(err, plan.ErrInvalidTransition),
		errors.Is(err, plan.ErrPlanNotActive),
		errors.Is(err, plan.ErrWeekNotCurrent),
		errors.Is(err, plan.ErrWeekNotComplete),
		errors.Is(err, gamification.ErrChallengeCompleted):
		return http.StatusConflict, ErrCodeConflict

	case errors.Is(err, plan.ErrInvalidGoal),
		errors.Is(err, plan.ErrInvalidProgress),
		errors.Is(err, gamification.ErrInvalidDelta):
		return http.StatusBadRequest, ErrCodeBadRequest

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout

	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}
