// Package study runs study sessions: it loads decks, builds the due queue,
// applies grades through the scheduler and persists the result.
package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/queue"
	"github.com/conorfennell/knoldeck/internal/sm2"
)

// ErrSaveFailed wraps storage errors raised while persisting a review. The
// review can be retried with the same grade.
var ErrSaveFailed = errors.New("failed to save progress")

// Store is the storage the service reads cards from and writes reviews to.
type Store interface {
	FindDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
	FindCard(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	CardsByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)
	SaveReview(ctx context.Context, c *domain.Card, log domain.ReviewLog) error
}

// QueueOptions controls how a study queue is built.
type QueueOptions struct {
	Shuffle bool
	Limit   int
}

// Service is the entry point used by the CLI and HTTP layers.
type Service struct {
	store     Store
	scheduler *sm2.Scheduler
	shuffler  queue.Shuffler
}

// NewService creates a service. shuffler is only used for queues built with
// QueueOptions.Shuffle and may be nil when shuffling is never requested.
func NewService(store Store, scheduler *sm2.Scheduler, shuffler queue.Shuffler) *Service {
	return &Service{store: store, scheduler: scheduler, shuffler: shuffler}
}

// Queue returns the cards due now across the given decks. Each deck is
// selected on its own and the results are concatenated in the order the decks
// were given, unless opts.Shuffle interleaves them.
func (s *Service) Queue(ctx context.Context, deckIDs []uuid.UUID, opts QueueOptions) ([]domain.CardView, error) {
	decks, names, err := s.loadDecks(ctx, deckIDs)
	if err != nil {
		return nil, err
	}

	qopts := queue.Options{Limit: opts.Limit}
	if opts.Shuffle {
		qopts.Shuffle = s.shuffler
	}
	cards := queue.SelectDueDecks(decks, s.scheduler.Now(), qopts)

	views := make([]domain.CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, newView(c, names[c.DeckID]))
	}
	return views, nil
}

// Stats summarizes the cards of the given decks at the current time.
func (s *Service) Stats(ctx context.Context, deckIDs []uuid.UUID) (queue.Statistics, error) {
	decks, _, err := s.loadDecks(ctx, deckIDs)
	if err != nil {
		return queue.Statistics{}, err
	}
	var all []domain.Card
	for _, cards := range decks {
		all = append(all, cards...)
	}
	return queue.ComputeStatistics(all, s.scheduler.Now()), nil
}

// Answer grades a card and persists its new schedule.
func (s *Service) Answer(ctx context.Context, cardID uuid.UUID, grade domain.Grade) (*domain.CardView, error) {
	if !grade.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidGrade, int(grade))
	}

	card, err := s.store.FindCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	deck, err := s.store.FindDeck(ctx, card.DeckID)
	if err != nil {
		return nil, err
	}

	updated, log, err := s.scheduler.Review(*card, grade)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveReview(ctx, &updated, log); err != nil {
		slog.Error("failed to save review", "card_id", cardID, "grade", int(grade), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	slog.Debug("card reviewed",
		"card_id", cardID,
		"grade", int(grade),
		"repetitions", updated.Repetitions,
		"interval_days", updated.IntervalDays,
		"easiness_factor", updated.EasinessFactor,
	)
	view := newView(updated, deck.Name)
	return &view, nil
}

// AnswerButton maps a three button answer onto the grade scale and applies it.
func (s *Service) AnswerButton(ctx context.Context, cardID uuid.UUID, button domain.Button, correct bool) (*domain.CardView, error) {
	grade, err := domain.GradeForButton(button, correct)
	if err != nil {
		return nil, err
	}
	return s.Answer(ctx, cardID, grade)
}

func (s *Service) loadDecks(ctx context.Context, deckIDs []uuid.UUID) ([][]domain.Card, map[uuid.UUID]string, error) {
	decks := make([][]domain.Card, 0, len(deckIDs))
	names := make(map[uuid.UUID]string, len(deckIDs))
	for _, id := range deckIDs {
		if _, seen := names[id]; seen {
			continue
		}
		deck, err := s.store.FindDeck(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		cards, err := s.store.CardsByDeck(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		names[id] = deck.Name
		decks = append(decks, cards)
	}
	return decks, names, nil
}

func newView(c domain.Card, deckName string) domain.CardView {
	return domain.CardView{
		Card:     c,
		DeckName: deckName,
		Interval: sm2.FormatInterval(float64(c.IntervalDays)),
		IsNew:    c.IsNew(),
	}
}

