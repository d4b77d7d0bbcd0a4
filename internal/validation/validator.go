// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
)

// ErrorCode is the API error code for validation failures.
const ErrorCode = "VALIDATION_ERROR"

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed constraint.
type FieldError struct {
	field   string
	tag     string
	param   string
	value   any
	message string
}

// Field returns the field name, taken from its json or koanf tag when present.
func (e *FieldError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e *FieldError) Tag() string { return e.tag }

// Param returns the tag parameter ("100" for "max=100").
func (e *FieldError) Param() string { return e.param }

// Value returns the rejected value.
func (e *FieldError) Value() any { return e.value }

// Error returns a human-readable message.
func (e *FieldError) Error() string { return e.message }

// Errors is the set of failed constraints of one struct.
type Errors struct {
	fields []FieldError
}

// Fields returns the individual failures.
func (ve *Errors) Fields() []FieldError {
	return ve.fields
}

// Error joins the messages of every failure.
func (ve *Errors) Error() string {
	if len(ve.fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.fields))
	for i := range ve.fields {
		messages = append(messages, ve.fields[i].message)
	}
	return strings.Join(messages, "; ")
}

// Details returns the failures in the shape of API error details.
func (ve *Errors) Details() map[string]any {
	if len(ve.fields) == 1 {
		f := ve.fields[0]
		return map[string]any{"field": f.field, "tag": f.tag}
	}
	fields := make([]map[string]any, len(ve.fields))
	for i, f := range ve.fields {
		fields[i] = map[string]any{"field": f.field, "tag": f.tag, "message": f.message}
	}
	return map[string]any{"fields": fields}
}

// GetValidator returns the shared validator. Besides the built-in tags it
// knows:
//
//	nutrient   a tracked nutrient name (protein, vitamin_c, ...)
//	goaltype   a models.GoalType value
//	isodate    a YYYY-MM-DD calendar date
//	userid     a user ID, see ValidUserID
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(tagName)

		// Registration only fails on an empty tag or nil func.
		_ = validate.RegisterValidation("nutrient", isNutrient)
		_ = validate.RegisterValidation("goaltype", isGoalType)
		_ = validate.RegisterValidation("isodate", isISODate)
		_ = validate.RegisterValidation("userid", isUserID)
	})
	return validate
}

// ValidateStruct validates s and returns nil or *Errors.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Errors{fields: []FieldError{{field: "unknown", tag: "unknown", message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: translateError(fe),
		}
	}
	return &Errors{fields: out}
}

// tagName prefers the json name, then the koanf name, of a field.
func tagName(f reflect.StructField) string {
	for _, key := range []string{"json", "koanf"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// MaxUserIDLength is the longest accepted user ID.
const MaxUserIDLength = 128

// ValidUserID reports whether id is 1 to MaxUserIDLength characters of
// ASCII letters, digits, '_', '-', '.' or '@'. Store keys use ':' as a
// separator, so it is never part of an ID.
func ValidUserID(id string) bool {
	if id == "" || len(id) > MaxUserIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '-', c == '.', c == '@':
		default:
			return false
		}
	}
	return true
}

func isUserID(fl validator.FieldLevel) bool {
	return ValidUserID(fl.Field().String())
}

func isNutrient(fl validator.FieldLevel) bool {
	_, ok := nutrients.DailyIntake(strings.ToLower(fl.Field().String()))
	return ok
}

func isGoalType(fl validator.FieldLevel) bool {
	return models.GoalType(fl.Field().String()).Valid()
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"nutrient": "%s must be a tracked nutrient",
	"goaltype": "%s must be a known goal type",
	"isodate":  "%s must be a date in YYYY-MM-DD format",
	"userid":   "%s must be a user ID of letters, digits, '_', '-', '.' or '@'",
	"url":      "%s must be a valid URL",
	"hostname": "%s must be a valid hostname",
}

var paramTemplates = map[string]string{
	"oneof":            "%s must be one of: %s",
	"gte":              "%s must be greater than or equal to %s",
	"lte":              "%s must be less than or equal to %s",
	"gt":               "%s must be greater than %s",
	"lt":               "%s must be less than %s",
	"required_without": "%s is required when %s is not set",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()
	if t, ok := messageTemplates[tag]; ok {
		return fmt.Sprintf(t, field)
	}
	if t, ok := paramTemplates[tag]; ok {
		return fmt.Sprintf(t, field, param)
	}

	isString := fe.Kind() == reflect.String
	switch {
	case tag == "min" && isString:
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case tag == "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case tag == "max" && isString:
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case tag == "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
