package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// InsertDeck stores a new deck.
func (db *DB) InsertDeck(ctx context.Context, d *domain.Deck) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO decks (id, name, description, created_at)
		VALUES (?, ?, ?, ?)
	`, d.ID, d.Name, d.Description, d.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert deck %s: %w", d.ID, err)
	}
	return nil
}

// FindDeck retrieves a deck by id.
func (db *DB) FindDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	var d domain.Deck
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, name, description, created_at
		FROM decks WHERE id = ?
	`, id)

	if err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("deck %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find deck %s: %w", id, err)
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return &d, nil
}

// ListDecks retrieves all decks in creation order.
func (db *DB) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, description, created_at
		FROM decks ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	decks := []domain.Deck{}
	for rows.Next() {
		var d domain.Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		d.CreatedAt = d.CreatedAt.UTC()
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	return decks, nil
}

// DeleteDeck removes a deck. Its cards and their review logs go with it.
func (db *DB) DeleteDeck(ctx context.Context, id uuid.UUID) error {
	err := execOne(ctx, db.conn, `DELETE FROM decks WHERE id = ?`, id)
	if errors.Is(err, errNoRows) {
		return fmt.Errorf("deck %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete deck %s: %w", id, err)
	}
	return nil
}
