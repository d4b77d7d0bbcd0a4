// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errEmptyBody is returned when a body is required but missing.
var errEmptyBody = errors.New("request body is empty")

type goalRequest struct {
	Type         models.GoalType `json:"type" validate:"required,goaltype"`
	Title        string          `json:"title" validate:"required,max=200"`
	CurrentValue float64         `json:"current_value" validate:"gte=0"`
	TargetValue  float64         `json:"target_value" validate:"gt=0"`
	Unit         string          `json:"unit" validate:"max=32"`
	EndDate      string          `json:"end_date" validate:"omitempty,isodate"`
}

type recordRequest struct {
	FoodName  string             `json:"food_name" validate:"required,max=200"`
	Category  string             `json:"category" validate:"max=64"`
	MealType  models.MealType    `json:"meal_type" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	Nutrients map[string]float64 `json:"nutrients" validate:"max=64,dive,keys,nutrient,endkeys,gte=0"`
	LoggedAt  *time.Time         `json:"logged_at"`
}

type preferencesRequest struct {
	DietaryRestrictions []string          `json:"dietary_restrictions" validate:"max=20,dive,required,max=64"`
	DislikedFoods       []string          `json:"disliked_foods" validate:"max=100,dive,required,max=100"`
	Cuisines            []string          `json:"cuisines" validate:"max=20,dive,required,max=64"`
	CookingTimeBudget   int               `json:"cooking_time_budget_minutes" validate:"gte=0,lte=600"`
	Budget              models.PriceRange `json:"budget"`
}

type createPlanRequest struct {
	GoalID string `json:"goal_id" validate:"required,max=128"`
}

type dailyProgressRequest struct {
	Date             string   `json:"date" validate:"required,isodate"`
	CompletedTaskIDs []string `json:"completed_task_ids" validate:"max=100,dive,required,max=128"`
	Notes            string   `json:"notes" validate:"max=1000"`
}

type completeWeekRequest struct {
	CompletedTaskIDs []string `json:"completed_task_ids" validate:"max=100,dive,required,max=128"`
}

type checkNewRequest struct {
	SeenIDs []string `json:"seen_ids" validate:"max=1000"`
}

type challengeProgressRequest struct {
	Delta float64 `json:"delta" validate:"gt=0"`
}

// recommendationQuery is the parsed query string of the list endpoint.
type recommendationQuery struct {
	Type     models.RecommendationType `json:"type" validate:"omitempty,oneof=NUTRITION_GAP HEALTH_GOAL MEAL_PLAN FOOD_SUGGESTION EDUCATIONAL HABIT TIME_BASED SCENARIO PLAN_PROGRESS"`
	Priority string                    `json:"priority" validate:"omitempty,oneof=low medium high LOW MEDIUM HIGH"`
	Limit    int                       `json:"limit" validate:"gte=0,lte=100"`
	Location models.Location           `json:"location" validate:"omitempty,oneof=home work restaurant gym travel"`
	MealType models.MealType           `json:"meal_type" validate:"omitempty,oneof=breakfast lunch dinner snack"`
}

// decodeJSON reads a size-limited JSON body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode body: %w", err)
	}
	return validation.ValidateStruct(v)
}

// getIntParam extracts an integer query parameter, falling back to
// defaultValue when absent or malformed.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
