// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package gamification

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/metrics"
	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
)

// challengeNamespace scopes challenge IDs, which are derived from user,
// period and template so regenerating a period yields the same challenges.
var challengeNamespace = uuid.MustParse("0b7e3c52-9d41-5a8f-b6e2-71c4a9d05f38")

// ChallengeService advances challenges and pays out their rewards.
type ChallengeService struct {
	repo        ChallengeRepository
	progression *Progression
	notifier    Notifier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewChallengeService creates a challenge service. Rewards are credited
// through progression, which may be nil to disable them.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewChallengeService(repo ChallengeRepository, progression *Progression, logger zerolog.Logger) *ChallengeService {
	return &ChallengeService{
		repo:        repo,
		progression: progression,
		logger:      logger.With().Str("component", "challenges").Logger(),
		now:         time.Now,
	}
}

// WithNotifier sets the receiver of challenge_completed events.
func (s *ChallengeService) WithNotifier(n Notifier) *ChallengeService {
	s.notifier = n
	return s
}

// WithClock overrides the service clock.
func (s *ChallengeService) WithClock(now func() time.Time) *ChallengeService {
	s.now = now
	return s
}

// Get returns a challenge by ID.
func (s *ChallengeService) Get(ctx context.Context, id string) (*models.Challenge, error) {
	return s.repo.GetChallenge(ctx, id)
}

// List returns the challenges of a user, daily first, then by period key.
func (s *ChallengeService) List(ctx context.Context, userID string) ([]models.Challenge, error) {
	list, err := s.repo.ListChallenges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Period != list[j].Period {
			return list[i].Period == models.ChallengeDaily
		}
		if list[i].PeriodKey != list[j].PeriodKey {
			return list[i].PeriodKey > list[j].PeriodKey
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// UpdateProgress adds delta to a challenge. Progress is capped at the
// target, and reaching the target completes the challenge.
func (s *ChallengeService) UpdateProgress(ctx context.Context, id string, delta float64) (*models.Challenge, error) {
	if delta <= 0 || math.IsNaN(delta) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDelta, delta)
	}
	c, err := s.repo.GetChallenge(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Completed {
		return c, fmt.Errorf("%w: %s", ErrChallengeCompleted, id)
	}

	c.Progress = math.Min(c.Progress+delta, c.Target)
	if c.Progress >= c.Target {
		return s.complete(ctx, c)
	}
	if err := s.repo.SaveChallenge(ctx, c); err != nil {
		return nil, fmt.Errorf("save challenge: %w", err)
	}
	return c, nil
}

// Complete completes a challenge regardless of progress. Completing a
// completed challenge changes nothing.
func (s *ChallengeService) Complete(ctx context.Context, id string) (*models.Challenge, error) {
	c, err := s.repo.GetChallenge(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Completed && c.RewardGranted {
		return c, nil
	}
	return s.complete(ctx, c)
}

// complete marks c completed and pays the reward once. The granted flag is
// stored before the points are credited, so a failed save never pays twice.
// When the credit fails the flag is cleared again so a later Complete pays.
func (s *ChallengeService) complete(ctx context.Context, c *models.Challenge) (*models.Challenge, error) {
	now := s.now()
	if !c.Completed {
		c.Completed = true
		c.CompletedAt = &now
	}
	pay := !c.RewardGranted
	c.RewardGranted = true
	if err := s.repo.SaveChallenge(ctx, c); err != nil {
		return nil, fmt.Errorf("save challenge: %w", err)
	}
	if !pay {
		return c, nil
	}

	if s.progression != nil {
		if err := s.progression.award(ctx, c.UserID, c.RewardPoints, "challenge", c.Title, c.ID); err != nil {
			c.RewardGranted = false
			if serr := s.repo.SaveChallenge(ctx, c); serr != nil {
				s.logger.Error().Err(serr).Str("challenge_id", c.ID).Msg("Failed to clear reward flag")
			}
			return nil, fmt.Errorf("grant challenge reward: %w", err)
		}
	}

	metrics.ChallengesCompleted.WithLabelValues(string(c.Period)).Inc()
	s.logger.Info().Str("user_id", c.UserID).Str("challenge_id", c.ID).Msg("Challenge completed")
	if s.notifier != nil {
		s.notifier.Notify(ctx, models.Event{
			ID:     uuid.NewString(),
			Type:   models.EventChallengeCompleted,
			UserID: c.UserID,
			Title:  c.Title,
			Points: c.RewardPoints,
			RefID:  c.ID,
			At:     now,
		})
	}
	return c, nil
}

// Generate stores the period challenges that do not exist yet and returns
// all of them. Existing challenges keep their progress.
func (s *ChallengeService) Generate(ctx context.Context, challenges []models.Challenge) ([]models.Challenge, error) {
	out := make([]models.Challenge, 0, len(challenges))
	for i := range challenges {
		existing, err := s.repo.GetChallenge(ctx, challenges[i].ID)
		switch {
		case err == nil:
			out = append(out, *existing)
			continue
		case !errors.Is(err, ErrChallengeNotFound):
			return nil, fmt.Errorf("load challenge: %w", err)
		}
		if err := s.repo.SaveChallenge(ctx, &challenges[i]); err != nil {
			return nil, fmt.Errorf("save challenge: %w", err)
		}
		out = append(out, challenges[i])
	}
	return out, nil
}

// PurgeExpired deletes the challenges whose period ended before the day of
// now and returns how many were removed.
func (s *ChallengeService) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	today := startOfDay(now)
	n, err := s.repo.DeleteChallenges(ctx, func(c *models.Challenge) bool {
		return IsExpired(c, today)
	})
	if err != nil {
		return 0, fmt.Errorf("purge challenges: %w", err)
	}
	if n > 0 {
		s.logger.Info().Int("removed", n).Msg("Purged expired challenges")
	}
	return n, nil
}

// IsExpired reports whether c's period ended before today. Daily challenges
// expire the day after their date and weekly ones seven days after their
// week start. Challenges with an unparseable period key are expired.
func IsExpired(c *models.Challenge, today time.Time) bool {
	start, err := time.ParseInLocation(time.DateOnly, c.PeriodKey, today.Location())
	if err != nil {
		return true
	}
	end := start.AddDate(0, 0, 1)
	if c.Period == models.ChallengeWeekly {
		end = start.AddDate(0, 0, 7)
	}
	return !end.After(startOfDay(today))
}

// NewDailyChallenges returns the challenges for one day. rc may be nil.
// The largest nutrient deficit, when there is one, becomes a nutrient
// challenge; otherwise a vegetable challenge is offered.
func NewDailyChallenges(userID string, date time.Time, rc *models.RecommendationContext) []models.Challenge {
	key := startOfDay(date).Format(time.DateOnly)
	mk := newChallengeFactory(userID, models.ChallengeDaily, key, date)

	out := []models.Challenge{
		mk(models.ChallengeLogMeals, "", "Log three meals today", models.DifficultyEasy, 3, "meals", 10),
		mk(models.ChallengeHydration, "", "Drink two litres of water", models.DifficultyEasy, 2000, "ml", 10),
	}
	if gap, ok := largestDeficit(rc); ok {
		title := fmt.Sprintf("Reach your %s target", nutrients.DisplayName(gap.Nutrient))
		out = append(out, mk(models.ChallengeNutrient, gap.Nutrient, title, difficultyFor(gap.Severity), gap.Recommended, gap.Unit, pointsFor(gap.Severity)))
	} else {
		out = append(out, mk(models.ChallengeVegetables, "", "Eat five servings of vegetables", models.DifficultyMedium, 5, "servings", 20))
	}
	return out
}

// NewWeeklyChallenges returns the challenges for the week containing
// weekStart. Weeks start on Monday. rc may be nil.
func NewWeeklyChallenges(userID string, weekStart time.Time, rc *models.RecommendationContext) []models.Challenge {
	monday := startOfWeek(weekStart)
	key := monday.Format(time.DateOnly)
	mk := newChallengeFactory(userID, models.ChallengeWeekly, key, weekStart)

	out := []models.Challenge{
		mk(models.ChallengeStreak, "", "Log something every day this week", models.DifficultyHard, 7, "days", 50),
		mk(models.ChallengeVariety, "", "Eat from fifteen food categories", models.DifficultyMedium, 15, "categories", 30),
	}
	if rc != nil && len(rc.ActivePlans) > 0 {
		out = append(out, mk(models.ChallengePlanTasks, "", "Complete twenty plan tasks", models.DifficultyMedium, 20, "tasks", 40))
	} else {
		out = append(out, mk(models.ChallengeLogMeals, "", "Log eighteen meals this week", models.DifficultyMedium, 18, "meals", 30))
	}
	return out
}

type challengeFactory func(t models.ChallengeType, nutrient, title string, d models.Difficulty, target float64, unit string, points int) models.Challenge

func newChallengeFactory(userID string, period models.ChallengePeriod, key string, created time.Time) challengeFactory {
	return func(t models.ChallengeType, nutrient, title string, d models.Difficulty, target float64, unit string, points int) models.Challenge {
		seed := fmt.Sprintf("%s|%s|%s|%s|%s", userID, period, key, t, nutrient)
		return models.Challenge{
			ID:           uuid.NewSHA1(challengeNamespace, []byte(seed)).String(),
			UserID:       userID,
			Period:       period,
			PeriodKey:    key,
			Type:         t,
			Title:        title,
			Difficulty:   d,
			Nutrient:     nutrient,
			Target:       target,
			Unit:         unit,
			RewardPoints: points,
			CreatedAt:    created,
		}
	}
}

func largestDeficit(rc *models.RecommendationContext) (models.NutritionalGap, bool) {
	if rc == nil {
		return models.NutritionalGap{}, false
	}
	var best models.NutritionalGap
	found := false
	for _, g := range rc.Gaps {
		if !g.IsDeficit() || nutrients.IsLimited(g.Nutrient) || g.Recommended <= 0 {
			continue
		}
		if !found || g.GapPercentage > best.GapPercentage {
			best, found = g, true
		}
	}
	return best, found
}

func difficultyFor(s models.Severity) models.Difficulty {
	switch s {
	case models.SeveritySevere:
		return models.DifficultyHard
	case models.SeverityModerate:
		return models.DifficultyMedium
	default:
		return models.DifficultyEasy
	}
}

func pointsFor(s models.Severity) int {
	switch s {
	case models.SeveritySevere:
		return 30
	case models.SeverityModerate:
		return 20
	default:
		return 15
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
