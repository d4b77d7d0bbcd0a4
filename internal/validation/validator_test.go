// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same instance")
	}
}

type progressRequest struct {
	Date     string  `json:"date" validate:"required,isodate"`
	Nutrient string  `json:"nutrient" validate:"omitempty,nutrient"`
	GoalType string  `json:"goal_type" validate:"omitempty,goaltype"`
	Delta    float64 `json:"delta" validate:"gt=0"`
	Limit    int     `json:"limit" validate:"min=0,max=50"`
	Notes    string  `json:"notes" validate:"max=10"`
}

type settings struct {
	Topic string `koanf:"topic" validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	valid := progressRequest{Date: "2026-03-11", Nutrient: "Vitamin_C", GoalType: "muscle_gain", Delta: 1, Limit: 10}

	tests := []struct {
		name      string
		mutate    func(r *progressRequest)
		wantField string
		wantMsg   string
	}{
		{"valid", func(*progressRequest) {}, "", ""},
		{"missing date", func(r *progressRequest) { r.Date = "" }, "date", "date is required"},
		{"bad date", func(r *progressRequest) { r.Date = "11/03/2026" }, "date", "date must be a date in YYYY-MM-DD format"},
		{"unknown nutrient", func(r *progressRequest) { r.Nutrient = "unobtanium" }, "nutrient", "nutrient must be a tracked nutrient"},
		{"unknown goal type", func(r *progressRequest) { r.GoalType = "be_happy" }, "goal_type", "goal_type must be a known goal type"},
		{"zero delta", func(r *progressRequest) { r.Delta = 0 }, "delta", "delta must be greater than 0"},
		{"limit too high", func(r *progressRequest) { r.Limit = 51 }, "limit", "limit must be at most 50"},
		{"notes too long", func(r *progressRequest) { r.Notes = strings.Repeat("x", 11) }, "notes", "notes must be at most 10 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := ValidateStruct(&req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}

			var verr *Errors
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateStruct() = %v, want *Errors", err)
			}
			fields := verr.Fields()
			if len(fields) != 1 {
				t.Fatalf("got %d field errors, want 1: %v", len(fields), err)
			}
			if fields[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", fields[0].Field(), tt.wantField)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_KoanfNames(t *testing.T) {
	err := ValidateStruct(&settings{})
	var verr *Errors
	if !errors.As(err, &verr) {
		t.Fatalf("ValidateStruct() = %v, want *Errors", err)
	}
	if got := verr.Fields()[0].Field(); got != "topic" {
		t.Errorf("Field() = %q, want topic", got)
	}
}

func TestErrors_Details(t *testing.T) {
	err := ValidateStruct(&progressRequest{Delta: -1, Limit: 100})
	var verr *Errors
	if !errors.As(err, &verr) {
		t.Fatalf("ValidateStruct() = %v, want *Errors", err)
	}
	if len(verr.Fields()) != 3 {
		t.Fatalf("got %d field errors, want 3", len(verr.Fields()))
	}
	details := verr.Details()
	fields, ok := details["fields"].([]map[string]any)
	if !ok || len(fields) != 3 {
		t.Errorf("Details() = %v, want three fields", details)
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", verr.Error())
	}

	single := ValidateStruct(&settings{}).(*Errors).Details()
	if single["field"] != "topic" || single["tag"] != "required" {
		t.Errorf("single Details() = %v", single)
	}
}
