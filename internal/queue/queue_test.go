package queue

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/knoldeck/internal/domain"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newCard(t *testing.T, deckID uuid.UUID, front string, created time.Time) domain.Card {
	t.Helper()
	c, err := domain.NewCard(deckID, front, "back", created)
	require.NoError(t, err)
	return *c
}

func reviewedCard(t *testing.T, deckID uuid.UUID, front string, reps int, next time.Time) domain.Card {
	t.Helper()
	c := newCard(t, deckID, front, now.AddDate(0, 0, -30))
	last := next.AddDate(0, 0, -3)
	c.Repetitions = reps
	c.ReviewCount = reps + 1
	c.LastReviewedAt = &last
	c.NextReviewAt = &next
	return c
}

func fronts(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Front
	}
	return out
}

func TestSelectDueMixedSet(t *testing.T) {
	t.Parallel()
	deck := uuid.New()
	cards := []domain.Card{
		reviewedCard(t, deck, "not due", 2, now.AddDate(0, 0, 1)),
		reviewedCard(t, deck, "due", 2, now.AddDate(0, 0, -1)),
		newCard(t, deck, "new 1", now.Add(-2*time.Hour)),
		newCard(t, deck, "new 2", now.Add(-time.Hour)),
	}

	got := SelectDue(cards, now)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"new 1", "new 2", "due"}, fronts(got))
	// Input order is preserved.
	assert.Equal(t, "not due", cards[0].Front)
}

func TestSelectDueOrdering(t *testing.T) {
	t.Parallel()
	deck := uuid.New()

	unscheduled := reviewedCard(t, deck, "unscheduled", 1, now)
	unscheduled.NextReviewAt = nil

	older := reviewedCard(t, deck, "overdue 5d", 3, now.AddDate(0, 0, -5))
	recent := reviewedCard(t, deck, "overdue 1d", 3, now.AddDate(0, 0, -1))
	exact := reviewedCard(t, deck, "due now", 3, now)

	tieA := reviewedCard(t, deck, "tie a", 2, now.AddDate(0, 0, -2))
	tieB := reviewedCard(t, deck, "tie b", 2, now.AddDate(0, 0, -2))
	tieA.CreatedAt = now.AddDate(0, 0, -20)
	tieB.CreatedAt = now.AddDate(0, 0, -10)

	fresh := newCard(t, deck, "new", now)

	got := SelectDue([]domain.Card{exact, tieB, recent, fresh, older, tieA, unscheduled}, now)

	assert.Equal(t, []string{"new", "unscheduled", "overdue 5d", "tie a", "tie b", "overdue 1d", "due now"}, fronts(got))
}

func TestSelectDueEmpty(t *testing.T) {
	t.Parallel()
	got := SelectDue(nil, now)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, SelectDueDecks(nil, now, Options{}))
}

func TestSelectDueDecksSequential(t *testing.T) {
	t.Parallel()
	a, b := uuid.New(), uuid.New()
	deckA := []domain.Card{
		reviewedCard(t, a, "a due", 2, now.AddDate(0, 0, -1)),
		newCard(t, a, "a new", now),
	}
	deckB := []domain.Card{
		newCard(t, b, "b new", now),
		reviewedCard(t, b, "b later", 2, now.AddDate(0, 0, 4)),
	}

	got := SelectDueDecks([][]domain.Card{deckA, deckB}, now, Options{})

	assert.Equal(t, []string{"a new", "a due", "b new"}, fronts(got))
}

func TestSelectDueDecksShuffle(t *testing.T) {
	t.Parallel()
	a, b := uuid.New(), uuid.New()
	var deckA, deckB []domain.Card
	for i := 0; i < 10; i++ {
		deckA = append(deckA, newCard(t, a, "a", now.Add(time.Duration(i)*time.Second)))
		deckB = append(deckB, newCard(t, b, "b", now.Add(time.Duration(i)*time.Second)))
	}

	sequential := SelectDueDecks([][]domain.Card{deckA, deckB}, now.Add(time.Minute), Options{})
	first := SelectDueDecks([][]domain.Card{deckA, deckB}, now.Add(time.Minute), Options{
		Shuffle: rand.New(rand.NewPCG(1, 2)),
	})
	second := SelectDueDecks([][]domain.Card{deckA, deckB}, now.Add(time.Minute), Options{
		Shuffle: rand.New(rand.NewPCG(1, 2)),
	})

	ids := func(cards []domain.Card) []uuid.UUID {
		out := make([]uuid.UUID, len(cards))
		for i, c := range cards {
			out[i] = c.ID
		}
		return out
	}

	assert.ElementsMatch(t, ids(sequential), ids(first))
	assert.Equal(t, ids(first), ids(second), "same seed gives same order")
	assert.NotEqual(t, ids(sequential), ids(first))
}

func TestSelectDueDecksLimit(t *testing.T) {
	t.Parallel()
	deck := uuid.New()
	cards := []domain.Card{
		newCard(t, deck, "one", now.Add(-3*time.Minute)),
		newCard(t, deck, "two", now.Add(-2*time.Minute)),
		newCard(t, deck, "three", now.Add(-time.Minute)),
	}

	got := SelectDueDecks([][]domain.Card{cards}, now, Options{Limit: 2})
	assert.Equal(t, []string{"one", "two"}, fronts(got))
}
