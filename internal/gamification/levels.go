// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package gamification

// LevelThresholds are the point totals at which levels 1..10 start.
var LevelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500}

// LevelFor returns the 1-based level for a point total.
func LevelFor(points int) int {
	level := 1
	for i, threshold := range LevelThresholds {
		if points >= threshold {
			level = i + 1
		}
	}
	return level
}

// PointsToNextLevel returns the points still needed for the next level, or 0
// at the top level.
func PointsToNextLevel(points int) int {
	level := LevelFor(points)
	if level >= len(LevelThresholds) {
		return 0
	}
	return LevelThresholds[level] - points
}
