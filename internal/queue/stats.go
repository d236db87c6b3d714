package queue

import (
	"time"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// Statistics summarizes a collection of cards. New, Learning and Mature
// partition Total; Due is counted independently.
type Statistics struct {
	Total    int `json:"total"`
	New      int `json:"new"`
	Learning int `json:"learning"`
	Mature   int `json:"mature"`
	Due      int `json:"due"`
}

// MatureRepetitions is the repetition count from which a card is mature.
const MatureRepetitions = 2

// ComputeStatistics counts cards per learning stage and those due at now.
// A card that was reviewed but then failed back to zero repetitions is
// counted as learning, so every card lands in exactly one stage.
func ComputeStatistics(cards []domain.Card, now time.Time) Statistics {
	var st Statistics
	for _, c := range cards {
		st.Total++
		switch {
		case c.IsNew():
			st.New++
		case c.Repetitions >= MatureRepetitions:
			st.Mature++
		default:
			st.Learning++
		}
		if c.IsDue(now) {
			st.Due++
		}
	}
	return st
}
