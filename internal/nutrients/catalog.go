// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

// Package nutrients holds the static nutrient vocabulary shared by rules,
// strategies and plan generation: display names, food sources and the
// dietary tags used to filter them.
package nutrients

import (
	"sort"
	"strings"
)

// Canonical nutrient names.
const (
	Protein      = "protein"
	Fiber        = "fiber"
	Calcium      = "calcium"
	Iron         = "iron"
	VitaminC     = "vitamin_c"
	VitaminD     = "vitamin_d"
	Potassium    = "potassium"
	Magnesium    = "magnesium"
	Omega3       = "omega_3"
	Water        = "water"
	Sodium       = "sodium"
	Sugar        = "sugar"
	SaturatedFat = "saturated_fat"
	Calories     = "calories"
)

// Food is a food source with the dietary tags it conflicts with.
type Food struct {
	Name string
	// Excludes lists restrictions the food is not compatible with
	// (vegetarian, vegan, dairy_free, gluten_free, nut_free, halal).
	Excludes []string
}

// Compatible reports whether the food suits every restriction.
func (f Food) Compatible(restrictions []string) bool {
	for _, r := range restrictions {
		for _, ex := range f.Excludes {
			if strings.EqualFold(r, ex) {
				return false
			}
		}
	}
	return true
}

var displayNames = map[string]string{
	Protein:      "Protein",
	Fiber:        "Fiber",
	Calcium:      "Calcium",
	Iron:         "Iron",
	VitaminC:     "Vitamin C",
	VitaminD:     "Vitamin D",
	Potassium:    "Potassium",
	Magnesium:    "Magnesium",
	Omega3:       "Omega-3",
	Water:        "Water",
	Sodium:       "Sodium",
	Sugar:        "Sugar",
	SaturatedFat: "Saturated fat",
	Calories:     "Calories",
}

var meatFish = []string{"vegetarian", "vegan", "halal"}

var sources = map[string][]Food{
	Protein: {
		{Name: "eggs", Excludes: []string{"vegan"}},
		{Name: "chicken breast", Excludes: []string{"vegetarian", "vegan"}},
		{Name: "greek yogurt", Excludes: []string{"vegan", "dairy_free"}},
		{Name: "tofu"},
		{Name: "lentils"},
		{Name: "salmon", Excludes: []string{"vegetarian", "vegan"}},
	},
	Fiber: {
		{Name: "oats", Excludes: []string{"gluten_free"}},
		{Name: "chickpeas"},
		{Name: "broccoli"},
		{Name: "raspberries"},
		{Name: "whole wheat bread", Excludes: []string{"gluten_free"}},
	},
	Calcium: {
		{Name: "milk", Excludes: []string{"vegan", "dairy_free"}},
		{Name: "cheese", Excludes: []string{"vegan", "dairy_free"}},
		{Name: "fortified soy milk"},
		{Name: "kale"},
		{Name: "almonds", Excludes: []string{"nut_free"}},
	},
	Iron: {
		{Name: "lean beef", Excludes: meatFish},
		{Name: "spinach"},
		{Name: "lentils"},
		{Name: "pumpkin seeds"},
	},
	VitaminC: {
		{Name: "oranges"},
		{Name: "bell peppers"},
		{Name: "kiwi"},
		{Name: "strawberries"},
	},
	VitaminD: {
		{Name: "salmon", Excludes: []string{"vegetarian", "vegan"}},
		{Name: "egg yolks", Excludes: []string{"vegan"}},
		{Name: "fortified cereal"},
		{Name: "mushrooms"},
	},
	Potassium: {
		{Name: "bananas"},
		{Name: "potatoes"},
		{Name: "white beans"},
		{Name: "avocado"},
	},
	Magnesium: {
		{Name: "pumpkin seeds"},
		{Name: "dark chocolate"},
		{Name: "cashews", Excludes: []string{"nut_free"}},
		{Name: "black beans"},
	},
	Omega3: {
		{Name: "salmon", Excludes: []string{"vegetarian", "vegan"}},
		{Name: "sardines", Excludes: []string{"vegetarian", "vegan"}},
		{Name: "walnuts", Excludes: []string{"nut_free"}},
		{Name: "chia seeds"},
	},
	Water: {
		{Name: "water"},
		{Name: "cucumber"},
		{Name: "watermelon"},
	},
}

// limited nutrients are ones where intake above the recommendation is the problem.
var limited = map[string]bool{
	Sodium:       true,
	Sugar:        true,
	SaturatedFat: true,
}

// Intake is a daily reference amount.
type Intake struct {
	Amount float64
	Unit   string
}

// dailyIntakes are adult reference intakes. For limited nutrients the
// amount is an upper bound.
var dailyIntakes = map[string]Intake{
	Protein:      {Amount: 60, Unit: "g"},
	Fiber:        {Amount: 30, Unit: "g"},
	Calcium:      {Amount: 1000, Unit: "mg"},
	Iron:         {Amount: 14, Unit: "mg"},
	VitaminC:     {Amount: 80, Unit: "mg"},
	VitaminD:     {Amount: 15, Unit: "mcg"},
	Potassium:    {Amount: 3500, Unit: "mg"},
	Magnesium:    {Amount: 350, Unit: "mg"},
	Omega3:       {Amount: 1.6, Unit: "g"},
	Water:        {Amount: 2000, Unit: "ml"},
	Sodium:       {Amount: 2300, Unit: "mg"},
	Sugar:        {Amount: 50, Unit: "g"},
	SaturatedFat: {Amount: 20, Unit: "g"},
	Calories:     {Amount: 2000, Unit: "kcal"},
}

// DailyIntake returns the reference daily intake of nutrient.
func DailyIntake(nutrient string) (Intake, bool) {
	in, ok := dailyIntakes[strings.ToLower(nutrient)]
	return in, ok
}

// Tracked returns the nutrients with a reference intake, sorted by name.
func Tracked() []string {
	out := make([]string, 0, len(dailyIntakes))
	for n := range dailyIntakes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// DisplayName returns a human label for a nutrient.
func DisplayName(nutrient string) string {
	if name, ok := displayNames[strings.ToLower(nutrient)]; ok {
		return name
	}
	return strings.ReplaceAll(nutrient, "_", " ")
}

// IsLimited reports whether the nutrient should be kept below its recommendation.
func IsLimited(nutrient string) bool {
	return limited[strings.ToLower(nutrient)]
}

// Sources returns up to limit food names rich in nutrient that fit the
// restrictions and are not rejected by disliked. A non-positive limit returns all.
func Sources(nutrient string, restrictions []string, disliked func(string) bool, limit int) []string {
	var out []string
	for _, f := range sources[strings.ToLower(nutrient)] {
		if !f.Compatible(restrictions) {
			continue
		}
		if disliked != nil && disliked(f.Name) {
			continue
		}
		out = append(out, f.Name)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
