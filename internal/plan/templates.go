// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package plan

import "github.com/tomtom215/nutricoach/internal/models"

// phase is a stage of a plan. Weeks are split evenly across phases.
type phase struct {
	name     string
	focus    string
	criteria string
}

var phases = []phase{
	{name: "foundation", focus: "Build the logging and hydration habit", criteria: "Log at least two meals on five days"},
	{name: "build", focus: "Add the key foods for your goal", criteria: "Hit the nutrient target on four days"},
	{name: "consolidate", focus: "Make the new meals routine", criteria: "Complete the required tasks on five days"},
	{name: "sustain", focus: "Keep it going without thinking about it", criteria: "Stay on target through the weekend"},
}

// phaseFor returns the phase index for a 1-based week.
func phaseFor(week, totalWeeks int) int {
	if totalWeeks <= 0 {
		return 0
	}
	idx := (week - 1) * len(phases) / totalWeeks
	if idx >= len(phases) {
		idx = len(phases) - 1
	}
	return idx
}

// taskTemplate is a task introduced from a given phase onwards.
type taskTemplate struct {
	slug      string
	title     string
	category  models.TaskCategory
	required  bool
	target    float64
	unit      string
	fromPhase int
}

// goalTemplate is the plan content for one goal type.
type goalTemplate struct {
	start, end models.WeeklyTargets
	tasks      []taskTemplate
}

// commonTasks appear in every plan.
var commonTasks = []taskTemplate{
	{slug: "log-meals", title: "Log every meal", category: models.TaskTracking, required: true},
	{slug: "water", title: "Drink 8 glasses of water", category: models.TaskHydration, required: true, target: 2000, unit: "ml"},
}

var goalTemplates = map[models.GoalType]goalTemplate{
	models.GoalWeightLoss: {
		start: models.WeeklyTargets{Calories: 2000, VegetableServings: 3, ExerciseMinutes: 90, MaxSugarGrams: 40, WaterML: 2000},
		end:   models.WeeklyTargets{Calories: 1800, VegetableServings: 5, ExerciseMinutes: 150, MaxSugarGrams: 25, WaterML: 2500},
		tasks: []taskTemplate{
			{slug: "veg-half-plate", title: "Fill half your plate with vegetables", category: models.TaskNutrition, required: true},
			{slug: "no-sugary-drinks", title: "Skip sugary drinks", category: models.TaskNutrition, required: true, fromPhase: 1},
			{slug: "walk", title: "Take a 20 minute walk", category: models.TaskExercise, target: 20, unit: "min"},
			{slug: "kitchen-closed", title: "Close the kitchen after dinner", category: models.TaskHabit, fromPhase: 2},
		},
	},
	models.GoalWeightGain: {
		start: models.WeeklyTargets{Calories: 2400, ProteinGrams: 80, WaterML: 2000},
		end:   models.WeeklyTargets{Calories: 2800, ProteinGrams: 100, WaterML: 2500},
		tasks: []taskTemplate{
			{slug: "three-meals", title: "Eat three full meals", category: models.TaskNutrition, required: true},
			{slug: "dense-snack", title: "Add a calorie-dense snack", category: models.TaskNutrition, required: true, fromPhase: 1},
			{slug: "strength", title: "Do a short strength session", category: models.TaskExercise, target: 20, unit: "min", fromPhase: 2},
		},
	},
	models.GoalMuscleGain: {
		start: models.WeeklyTargets{ProteinGrams: 100, Calories: 2500, ExerciseMinutes: 120, WaterML: 2500},
		end:   models.WeeklyTargets{ProteinGrams: 140, Calories: 2700, ExerciseMinutes: 180, WaterML: 3000},
		tasks: []taskTemplate{
			{slug: "protein-every-meal", title: "Include protein in every meal", category: models.TaskNutrition, required: true, target: 25, unit: "g"},
			{slug: "post-workout", title: "Eat within an hour after training", category: models.TaskNutrition, required: true, fromPhase: 1},
			{slug: "train", title: "Complete your training session", category: models.TaskExercise, target: 45, unit: "min"},
		},
	},
	models.GoalFatReduction: {
		start: models.WeeklyTargets{Calories: 2000, ProteinGrams: 90, MaxSugarGrams: 35, ExerciseMinutes: 120, WaterML: 2000},
		end:   models.WeeklyTargets{Calories: 1850, ProteinGrams: 110, MaxSugarGrams: 25, ExerciseMinutes: 180, WaterML: 2500},
		tasks: []taskTemplate{
			{slug: "lean-protein", title: "Choose a lean protein at lunch and dinner", category: models.TaskNutrition, required: true},
			{slug: "whole-grains", title: "Swap refined grains for whole grains", category: models.TaskNutrition, required: true, fromPhase: 1},
			{slug: "cardio", title: "Do 30 minutes of cardio", category: models.TaskExercise, target: 30, unit: "min"},
		},
	},
	models.GoalHealthImprovement: {
		start: models.WeeklyTargets{FiberGrams: 20, VegetableServings: 3, MaxSodiumMg: 2600, WaterML: 2000},
		end:   models.WeeklyTargets{FiberGrams: 30, VegetableServings: 5, MaxSodiumMg: 2300, WaterML: 2500},
		tasks: []taskTemplate{
			{slug: "fruit-veg", title: "Eat five portions of fruit and vegetables", category: models.TaskNutrition, required: true, target: 5, unit: "portions"},
			{slug: "less-salt", title: "Cook without added salt", category: models.TaskNutrition, fromPhase: 1},
			{slug: "whole-food-snack", title: "Pick a whole-food snack", category: models.TaskHabit, required: true, fromPhase: 2},
		},
	},
	models.GoalNutrientBalance: {
		start: models.WeeklyTargets{ProteinGrams: 60, FiberGrams: 22, VegetableServings: 3, WaterML: 2000},
		end:   models.WeeklyTargets{ProteinGrams: 70, FiberGrams: 30, VegetableServings: 5, WaterML: 2500},
		tasks: []taskTemplate{
			{slug: "colors", title: "Eat three different colours of vegetables", category: models.TaskNutrition, required: true},
			{slug: "legumes", title: "Include a serving of legumes", category: models.TaskNutrition, fromPhase: 1},
		},
	},
}

// interpolate returns the targets for a week, moving linearly from start in
// week 1 to end in the last week.
func interpolate(start, end models.WeeklyTargets, week, totalWeeks int) models.WeeklyTargets {
	f := 0.0
	if totalWeeks > 1 {
		f = float64(week-1) / float64(totalWeeks-1)
	}
	lerp := func(a, b float64) float64 { return a + (b-a)*f }
	return models.WeeklyTargets{
		Calories:          lerp(start.Calories, end.Calories),
		ProteinGrams:      lerp(start.ProteinGrams, end.ProteinGrams),
		FiberGrams:        lerp(start.FiberGrams, end.FiberGrams),
		WaterML:           lerp(start.WaterML, end.WaterML),
		VegetableServings: lerp(start.VegetableServings, end.VegetableServings),
		ExerciseMinutes:   lerp(start.ExerciseMinutes, end.ExerciseMinutes),
		MaxSugarGrams:     lerp(start.MaxSugarGrams, end.MaxSugarGrams),
		MaxSodiumMg:       lerp(start.MaxSodiumMg, end.MaxSodiumMg),
	}
}
