// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

// Package validation wraps go-playground/validator v10 with a shared,
// lazily built validator and readable error messages.
//
// Field names in messages come from json tags for request bodies and koanf
// tags for configuration, so errors name the key a caller actually wrote:
//
//	type progressRequest struct {
//	    Date             string   `json:"date" validate:"required,isodate"`
//	    CompletedTaskIDs []string `json:"completed_task_ids" validate:"dive,required"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    // err is *validation.Errors: "date must be a date in YYYY-MM-DD format"
//	}
package validation
