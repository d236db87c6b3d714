// Package sm2 computes the next review schedule of a card using the SM-2
// spaced repetition algorithm.
package sm2

import (
	"fmt"
	"math"
	"time"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// Scheduler applies review grades to card schedules. It holds no state
// besides its parameters and clock, so calls with the same arguments always
// return the same result.
type Scheduler struct {
	params *Params
	clock  func() time.Time
}

// NewScheduler creates a scheduler. A nil params uses DefaultParams and a nil
// clock uses time.Now.
func NewScheduler(params *Params, clock func() time.Time) *Scheduler {
	if params == nil {
		params = DefaultParams()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{params: params, clock: clock}
}

// Params returns the parameters in use.
func (s *Scheduler) Params() Params {
	return *s.params
}

// Now reads the scheduler clock.
func (s *Scheduler) Now() time.Time {
	return s.clock()
}

// ProcessReview returns the schedule that follows state after a review graded
// grade at now. The input is not modified.
//
// A grade of 3 or more increments the repetition count and picks the interval
// from it: 1 day, then 6 days, then the previous interval times the easiness
// factor held before this review. A lower grade resets repetitions to 0 and
// the interval to 1 day. The easiness factor is updated on every review,
// clamped to the configured bounds and rounded to two decimals.
func (s *Scheduler) ProcessReview(state domain.Schedule, grade domain.Grade, now time.Time) (domain.Schedule, error) {
	if !grade.Valid() {
		return state, fmt.Errorf("%w: %d", domain.ErrInvalidGrade, int(grade))
	}

	next := domain.Schedule{
		ReviewCount: state.ReviewCount + 1,
	}

	if grade.Passed() {
		next.Repetitions = state.Repetitions + 1
		next.IntervalDays = s.nextInterval(next.Repetitions, state.IntervalDays, state.EasinessFactor)
	} else {
		next.Repetitions = 0
		next.IntervalDays = s.params.FirstInterval
	}

	next.EasinessFactor = s.nextEaseFactor(state.EasinessFactor, grade)

	reviewed := now
	due := now.AddDate(0, 0, next.IntervalDays)
	next.LastReviewedAt = &reviewed
	next.NextReviewAt = &due

	return next, nil
}

// Review applies grade to card at the scheduler's current time and returns
// the updated card together with the log entry for the review.
func (s *Scheduler) Review(card domain.Card, grade domain.Grade) (domain.Card, domain.ReviewLog, error) {
	now := s.clock().UTC()
	schedule, err := s.ProcessReview(card.Schedule, grade, now)
	if err != nil {
		return card, domain.ReviewLog{}, err
	}

	card.Schedule = schedule
	card.UpdatedAt = now
	log := domain.ReviewLog{
		CardID:         card.ID,
		ReviewedAt:     now,
		Grade:          grade,
		IntervalDays:   schedule.IntervalDays,
		EasinessFactor: schedule.EasinessFactor,
	}
	return card, log, nil
}

// nextInterval picks the interval in days for the repetitions count reached
// by a successful review.
func (s *Scheduler) nextInterval(repetitions, previousInterval int, easeFactor float64) int {
	switch repetitions {
	case 1:
		return s.params.FirstInterval
	case 2:
		return s.params.SecondInterval
	}
	return s.clampInterval(math.Round(float64(previousInterval) * easeFactor))
}

// clampInterval bounds days to [1, MaxInterval] before converting it, so the
// conversion never sees a value an int cannot hold.
func (s *Scheduler) clampInterval(days float64) int {
	if days < 1 {
		return 1
	}
	if limit := s.params.MaxInterval; limit > 0 && days > float64(limit) {
		return limit
	}
	return int(days)
}

// nextEaseFactor applies EF' = EF + (0.1 - q*(0.08 + q*0.02)) with q = 5 - grade.
func (s *Scheduler) nextEaseFactor(easeFactor float64, grade domain.Grade) float64 {
	q := float64(domain.GradePerfect - grade)
	ef := easeFactor + (0.1 - q*(0.08+q*0.02))
	ef = math.Max(s.params.MinEaseFactor, math.Min(s.params.MaxEaseFactor, ef))
	return roundEase(ef)
}

func roundEase(ef float64) float64 {
	return math.Round(ef*100) / 100
}
