// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package recommend

import "github.com/tomtom215/nutricoach/internal/models"

// FilterByType returns the recommendations of type t, keeping order.
func FilterByType(recs []models.Recommendation, t models.RecommendationType) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(recs))
	for i := range recs {
		if recs[i].Type == t {
			out = append(out, recs[i])
		}
	}
	return out
}

// FilterByPriority returns the recommendations with at least priority min.
func FilterByPriority(recs []models.Recommendation, minPriority models.Priority) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(recs))
	for i := range recs {
		if recs[i].Priority >= minPriority {
			out = append(out, recs[i])
		}
	}
	return out
}

// HighPriority returns up to limit HIGH recommendations. limit <= 0 means all.
func HighPriority(recs []models.Recommendation, limit int) []models.Recommendation {
	return TopN(FilterByPriority(recs, models.PriorityHigh), limit)
}

// TopN returns the first n recommendations of an already ranked list.
// n <= 0 returns the whole list.
func TopN(recs []models.Recommendation, n int) []models.Recommendation {
	if n <= 0 || n >= len(recs) {
		return recs
	}
	return recs[:n]
}

// HasNewHighPriority reports whether recs contains a HIGH recommendation
// whose ID is not in seen.
func HasNewHighPriority(recs []models.Recommendation, seen map[string]struct{}) bool {
	for i := range recs {
		if recs[i].Priority != models.PriorityHigh {
			continue
		}
		if _, ok := seen[recs[i].ID]; !ok {
			return true
		}
	}
	return false
}

// SeenSet builds a lookup set from recommendation IDs.
func SeenSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
