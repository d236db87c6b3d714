package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck is a named collection of cards. Names are not required to be unique.
type Deck struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDeck creates an empty deck.
func NewDeck(name, description string, now time.Time) (*Deck, error) {
	d := &Deck{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now.UTC(),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks that the deck has an id and a non-empty name.
func (d *Deck) Validate() error {
	return validateStruct(d)
}
