package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/conorfennell/knoldeck/internal/domain"
)

func TestComputeStatistics(t *testing.T) {
	t.Parallel()
	deck := uuid.New()

	lapsed := reviewedCard(t, deck, "lapsed", 0, now.AddDate(0, 0, 1))
	cards := []domain.Card{
		newCard(t, deck, "new", now.Add(-time.Hour)),
		newCard(t, deck, "new later", now.Add(time.Hour)),
		reviewedCard(t, deck, "learning", 1, now.AddDate(0, 0, -1)),
		lapsed,
		reviewedCard(t, deck, "mature due", 2, now),
		reviewedCard(t, deck, "mature", 5, now.AddDate(0, 0, 20)),
	}

	got := ComputeStatistics(cards, now)

	assert.Equal(t, Statistics{Total: 6, New: 2, Learning: 2, Mature: 2, Due: 3}, got)
}

func TestComputeStatisticsEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Statistics{}, ComputeStatistics(nil, now))
}

func TestComputeStatisticsPartition(t *testing.T) {
	t.Parallel()
	deck := uuid.New()
	var cards []domain.Card
	for reps := 0; reps < 5; reps++ {
		for i := -2; i <= 2; i++ {
			cards = append(cards, reviewedCard(t, deck, "c", reps, now.AddDate(0, 0, i)))
		}
		cards = append(cards, newCard(t, deck, "n", now.AddDate(0, 0, reps)))
	}

	st := ComputeStatistics(cards, now)
	assert.Equal(t, st.Total, st.New+st.Learning+st.Mature)
	assert.Equal(t, len(cards), st.Total)
}
