// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package nutrients

import "testing"

func TestSources_FiltersRestrictionsAndDislikes(t *testing.T) {
	got := Sources(Protein, []string{"vegan"}, func(f string) bool { return f == "tofu" }, 0)
	for _, f := range got {
		switch f {
		case "eggs", "chicken breast", "greek yogurt", "salmon":
			t.Errorf("%s is not vegan", f)
		case "tofu":
			t.Error("tofu is disliked")
		}
	}
	if len(got) != 1 || got[0] != "lentils" {
		t.Errorf("Sources = %v, want [lentils]", got)
	}
}

func TestSources_Limit(t *testing.T) {
	if got := Sources(Fiber, nil, nil, 2); len(got) != 2 {
		t.Errorf("expected 2 sources, got %v", got)
	}
	if got := Sources("unobtainium", nil, nil, 3); len(got) != 0 {
		t.Errorf("expected no sources for unknown nutrient, got %v", got)
	}
}

func TestDisplayNameAndLimited(t *testing.T) {
	if DisplayName(VitaminC) != "Vitamin C" {
		t.Errorf("DisplayName(vitamin_c) = %q", DisplayName(VitaminC))
	}
	if DisplayName("vitamin_k") != "vitamin k" {
		t.Errorf("DisplayName fallback = %q", DisplayName("vitamin_k"))
	}
	if !IsLimited(Sodium) || IsLimited(Protein) {
		t.Error("IsLimited misclassified sodium or protein")
	}
}
