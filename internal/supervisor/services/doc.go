// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

// Package services adapts long-running NutriCoach components to
// suture.Service: the HTTP server, the periodic maintenance runner and the
// progression event consumer.
package services
