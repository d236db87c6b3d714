// Package queue selects the cards that are due for study and summarizes a
// collection of cards for deck dashboards.
package queue

import (
	"sort"
	"time"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// Shuffler permutes n elements in place. *rand.Rand from math/rand/v2
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Options controls the post-processing of a multi-deck selection.
type Options struct {
	// Shuffle, when set, randomly interleaves the combined queue.
	Shuffle Shuffler
	// Limit caps the queue length. Zero means no limit.
	Limit int
}

// SelectDue returns the cards that are due at now, in study order: new cards
// first, then by ascending next review time (unscheduled first), then by
// creation time. The input slice is not reordered.
func SelectDue(cards []domain.Card, now time.Time) []domain.Card {
	due := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return less(&due[i], &due[j])
	})
	return due
}

// SelectDueDecks selects the due cards of each deck independently and
// concatenates the results in deck order. With opts.Shuffle set the combined
// queue is shuffled so decks are interleaved; otherwise the order is fully
// deterministic.
func SelectDueDecks(decks [][]domain.Card, now time.Time, opts Options) []domain.Card {
	var combined []domain.Card
	for _, cards := range decks {
		combined = append(combined, SelectDue(cards, now)...)
	}
	if combined == nil {
		combined = []domain.Card{}
	}

	if opts.Shuffle != nil {
		opts.Shuffle.Shuffle(len(combined), func(i, j int) {
			combined[i], combined[j] = combined[j], combined[i]
		})
	}
	if opts.Limit > 0 && len(combined) > opts.Limit {
		combined = combined[:opts.Limit]
	}
	return combined
}

func less(a, b *domain.Card) bool {
	if an, bn := a.IsNew(), b.IsNew(); an != bn {
		return an
	}

	switch {
	case a.NextReviewAt == nil && b.NextReviewAt != nil:
		return true
	case a.NextReviewAt != nil && b.NextReviewAt == nil:
		return false
	case a.NextReviewAt != nil && b.NextReviewAt != nil && !a.NextReviewAt.Equal(*b.NextReviewAt):
		return a.NextReviewAt.Before(*b.NextReviewAt)
	}

	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
