package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Initial scheduling values for a card that has never been reviewed.
const (
	InitialEasinessFactor = 2.5
	InitialIntervalDays   = 1
)

// Schedule holds the scheduling fields of a card. They are only ever replaced
// together, by a review, and persisted as one unit.
type Schedule struct {
	Repetitions    int        `json:"repetitions" validate:"gte=0"`
	EasinessFactor float64    `json:"easiness_factor" validate:"gte=1.3,lte=3"`
	IntervalDays   int        `json:"interval_days" validate:"gte=0"`
	NextReviewAt   *time.Time `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	ReviewCount    int        `json:"review_count" validate:"gte=0"`
}

// NewSchedule returns the schedule of a freshly created card, due at now.
func NewSchedule(now time.Time) Schedule {
	due := now
	return Schedule{
		Repetitions:    0,
		EasinessFactor: InitialEasinessFactor,
		IntervalDays:   InitialIntervalDays,
		NextReviewAt:   &due,
		LastReviewedAt: nil,
		ReviewCount:    0,
	}
}

// IsNew reports whether the card has never been reviewed.
func (s Schedule) IsNew() bool {
	return s.Repetitions == 0 && s.LastReviewedAt == nil
}

// IsDue reports whether the card should be studied at now.
func (s Schedule) IsDue(now time.Time) bool {
	return s.NextReviewAt == nil || !s.NextReviewAt.After(now)
}

// Card is a single front/back flashcard owned by exactly one deck.
type Card struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	DeckID      uuid.UUID `json:"deck_id" validate:"required"`
	Front       string    `json:"front" validate:"required"`
	Back        string    `json:"back"`
	ContentHash string    `json:"content_hash,omitempty"`
	Schedule
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a card in deckID that is immediately due.
func NewCard(deckID uuid.UUID, front, back string, now time.Time) (*Card, error) {
	now = now.UTC()
	c := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		Front:     strings.TrimSpace(front),
		Back:      strings.TrimSpace(back),
		Schedule:  NewSchedule(now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the card fields and the scheduling invariants.
func (c *Card) Validate() error {
	return validateStruct(c)
}

// ReviewLog records a single review event for a card.
type ReviewLog struct {
	CardID         uuid.UUID `json:"card_id"`
	ReviewedAt     time.Time `json:"reviewed_at"`
	Grade          Grade     `json:"grade"`
	IntervalDays   int       `json:"interval_days"`
	EasinessFactor float64   `json:"easiness_factor"`
}

// CardView wraps a card with presentation-only fields. The card itself is
// never extended with these.
type CardView struct {
	Card     Card   `json:"card"`
	DeckName string `json:"deck_name"`
	Interval string `json:"interval"`
	IsNew    bool   `json:"is_new"`
}
