// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/metrics"
	"github.com/tomtom215/nutricoach/internal/models"
)

// Progression unlocks achievements and credits reward points.
type Progression struct {
	achievements AchievementRepository
	ledger       Ledger
	notifier     Notifier
	logger       zerolog.Logger
	now          func() time.Time
}

// NewProgression creates a progression service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProgression(achievements AchievementRepository, ledger Ledger, logger zerolog.Logger) *Progression {
	return &Progression{
		achievements: achievements,
		ledger:       ledger,
		logger:       logger.With().Str("component", "gamification").Logger(),
		now:          time.Now,
	}
}

// WithNotifier sets the receiver of progression events.
func (p *Progression) WithNotifier(n Notifier) *Progression {
	p.notifier = n
	return p
}

// WithClock overrides the progression clock.
func (p *Progression) WithClock(now func() time.Time) *Progression {
	p.now = now
	return p
}

// Achievements returns the catalog merged with the user's unlock state.
func (p *Progression) Achievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	states, err := p.achievements.GetAchievementStates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load achievement states: %w", err)
	}
	out := Catalog()
	for i := range out {
		if st, ok := states[out[i].ID]; ok {
			out[i].Progress = st.Progress
			out[i].UnlockedAt = st.UnlockedAt
		}
	}
	return out, nil
}

// EvaluateAchievements checks every locked achievement against agg, stores
// progress that increased, and unlocks the satisfied ones. It returns the
// achievements unlocked by this call.
func (p *Progression) EvaluateAchievements(ctx context.Context, userID string, agg models.UserAggregates) ([]models.Achievement, error) {
	states, err := p.achievements.GetAchievementStates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load achievement states: %w", err)
	}

	var unlocked []models.Achievement
	for _, a := range catalog {
		st, ok := states[a.ID]
		if !ok {
			st = models.AchievementState{UserID: userID, AchievementID: a.ID}
		}
		if st.UnlockedAt != nil {
			continue
		}

		satisfied, progress := Evaluate(a.Condition, agg)
		if satisfied {
			got, err := p.unlock(ctx, a, &st)
			if err != nil {
				return unlocked, err
			}
			unlocked = append(unlocked, got)
			continue
		}
		if progress > st.Progress {
			st.Progress = progress
			if err := p.achievements.SaveAchievementState(ctx, &st); err != nil {
				return unlocked, fmt.Errorf("save achievement %s: %w", a.ID, err)
			}
		}
	}
	return unlocked, nil
}

// Unlock unlocks achievement id regardless of its condition. It reports
// false when the achievement was already unlocked, in which case nothing
// changes.
func (p *Progression) Unlock(ctx context.Context, userID, id string) (models.Achievement, bool, error) {
	a, ok := LookupAchievement(id)
	if !ok {
		return models.Achievement{}, false, fmt.Errorf("%w: %s", ErrAchievementNotFound, id)
	}
	states, err := p.achievements.GetAchievementStates(ctx, userID)
	if err != nil {
		return models.Achievement{}, false, fmt.Errorf("load achievement states: %w", err)
	}
	st, ok := states[id]
	if !ok {
		st = models.AchievementState{UserID: userID, AchievementID: id}
	}
	if st.UnlockedAt != nil {
		a.Progress = st.Progress
		a.UnlockedAt = st.UnlockedAt
		return a, false, nil
	}
	got, err := p.unlock(ctx, a, &st)
	if err != nil {
		return models.Achievement{}, false, err
	}
	return got, true, nil
}

func (p *Progression) unlock(ctx context.Context, a models.Achievement, st *models.AchievementState) (models.Achievement, error) {
	now := p.now()
	st.Progress = 1
	st.UnlockedAt = &now
	if err := p.achievements.SaveAchievementState(ctx, st); err != nil {
		return models.Achievement{}, fmt.Errorf("save achievement %s: %w", a.ID, err)
	}
	a.Progress = 1
	a.UnlockedAt = &now
	metrics.AchievementsUnlocked.WithLabelValues(string(a.Type)).Inc()

	p.logger.Info().Str("user_id", st.UserID).Str("achievement", a.ID).Msg("Achievement unlocked")
	p.notify(ctx, models.Event{
		Type:   models.EventAchievementUnlocked,
		UserID: st.UserID,
		Title:  a.Name,
		Body:   a.Description,
		Points: a.Points,
		RefID:  a.ID,
		At:     now,
	})
	// An unlock is one-way; a failed credit is logged and the unlock stands.
	_ = p.award(ctx, st.UserID, a.Points, "achievement", a.Name, a.ID)
	return a, nil
}

// GrantPoints credits points to a user and announces a level change.
func (p *Progression) GrantPoints(ctx context.Context, userID string, points int, source string) error {
	_, err := p.credit(ctx, userID, points, source)
	return err
}

// Level returns the user's point total, level and the points missing to
// the next level.
func (p *Progression) Level(ctx context.Context, userID string) (points, level, toNext int, err error) {
	points, err = p.ledger.Points(ctx, userID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("load points: %w", err)
	}
	return points, LevelFor(points), PointsToNextLevel(points), nil
}

// award credits points and publishes reward_granted. Failures are logged
// and returned; the caller decides whether its stored state stands.
func (p *Progression) award(ctx context.Context, userID string, points int, source, title, refID string) error {
	if points <= 0 {
		return nil
	}
	total, err := p.credit(ctx, userID, points, source)
	if err != nil {
		p.logger.Warn().Err(err).Str("user_id", userID).Str("source", source).Msg("Failed to grant points")
		return err
	}
	p.notify(ctx, models.Event{
		Type:   models.EventRewardGranted,
		UserID: userID,
		Title:  title,
		Body:   fmt.Sprintf("+%d points (%d total)", points, total),
		Points: points,
		RefID:  refID,
		At:     p.now(),
	})
	return nil
}

func (p *Progression) credit(ctx context.Context, userID string, points int, source string) (int, error) {
	total, err := p.ledger.AddPoints(ctx, userID, points, source)
	if err != nil {
		return 0, fmt.Errorf("add points: %w", err)
	}
	metrics.PointsAwarded.WithLabelValues(source).Add(float64(points))

	before, after := LevelFor(total-points), LevelFor(total)
	if after > before {
		p.logger.Info().Str("user_id", userID).Int("level", after).Msg("Level up")
		p.notify(ctx, models.Event{
			Type:   models.EventLevelUp,
			UserID: userID,
			Title:  fmt.Sprintf("Level %d reached", after),
			Points: total,
			Level:  after,
			At:     p.now(),
		})
	}
	return total, nil
}

func (p *Progression) notify(ctx context.Context, e models.Event) {
	if p.notifier == nil {
		return
	}
	e.ID = uuid.NewString()
	p.notifier.Notify(ctx, e)
}
