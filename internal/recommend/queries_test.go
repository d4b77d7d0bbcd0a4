// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package recommend

import (
	"testing"

	"github.com/tomtom215/nutricoach/internal/models"
)

func rankedList() []models.Recommendation {
	list := []models.Recommendation{
		rec(models.RecNutritionGap, "a", models.PriorityHigh, 0.9),
		rec(models.RecFoodSuggestion, "b", models.PriorityHigh, 0.8),
		rec(models.RecNutritionGap, "c", models.PriorityMedium, 0.7),
		rec(models.RecHabit, "d", models.PriorityLow, 0.6),
	}
	for i := range list {
		list[i].ID = list[i].Title
	}
	return list
}

func TestFilterByType(t *testing.T) {
	got := FilterByType(rankedList(), models.RecNutritionGap)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("FilterByType() = %v, want [a c]", ids(got))
	}
}

func TestHighPriority(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "all", limit: 0, want: 2},
		{name: "limited", limit: 1, want: 1},
		{name: "limit above size", limit: 5, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HighPriority(rankedList(), tt.limit); len(got) != tt.want {
				t.Errorf("HighPriority(%d) = %v, want %d items", tt.limit, ids(got), tt.want)
			}
		})
	}
}

func TestTopN(t *testing.T) {
	list := rankedList()
	if got := TopN(list, 3); len(got) != 3 || got[2].ID != "c" {
		t.Errorf("TopN(3) = %v", ids(got))
	}
	if got := TopN(list, 0); len(got) != len(list) {
		t.Errorf("TopN(0) = %v, want whole list", ids(got))
	}
}

func TestHasNewHighPriority(t *testing.T) {
	list := rankedList()
	tests := []struct {
		name string
		seen []string
		want bool
	}{
		{name: "nothing seen", seen: nil, want: true},
		{name: "one high seen", seen: []string{"a"}, want: true},
		{name: "all high seen", seen: []string{"a", "b"}, want: false},
		{name: "only low seen", seen: []string{"c", "d"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasNewHighPriority(list, SeenSet(tt.seen)); got != tt.want {
				t.Errorf("HasNewHighPriority() = %v, want %v", got, tt.want)
			}
		})
	}
}

func ids(recs []models.Recommendation) []string {
	out := make([]string, len(recs))
	for i := range recs {
		out[i] = recs[i].ID
	}
	return out
}
