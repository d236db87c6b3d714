package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/knoldeck/internal/domain"
)

const cardColumns = `id, deck_id, front, back, content_hash,
	repetitions, easiness_factor, interval_days, next_review_at, last_reviewed_at, review_count,
	created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (domain.Card, error) {
	var (
		c              domain.Card
		nextReviewAt   sql.NullTime
		lastReviewedAt sql.NullTime
	)
	err := s.Scan(
		&c.ID,
		&c.DeckID,
		&c.Front,
		&c.Back,
		&c.ContentHash,
		&c.Repetitions,
		&c.EasinessFactor,
		&c.IntervalDays,
		&nextReviewAt,
		&lastReviewedAt,
		&c.ReviewCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}
	c.NextReviewAt = timePtr(nextReviewAt)
	c.LastReviewedAt = timePtr(lastReviewedAt)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

// InsertCard stores a new card. The owning deck must exist.
func (db *DB) InsertCard(ctx context.Context, c *domain.Card) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		c.DeckID,
		c.Front,
		c.Back,
		c.ContentHash,
		c.Repetitions,
		c.EasinessFactor,
		c.IntervalDays,
		nullTime(c.NextReviewAt),
		nullTime(c.LastReviewedAt),
		c.ReviewCount,
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", c.ID, err)
	}
	return nil
}

// FindCard retrieves a card by id.
func (db *DB) FindCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find card %s: %w", id, err)
	}
	return &c, nil
}

// CardsByDeck retrieves all cards of a deck in creation order.
func (db *DB) CardsByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards WHERE deck_id = ?
		ORDER BY created_at, id
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for deck %s: %w", deckID, err)
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row for deck %s: %w", deckID, err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get cards for deck %s: %w", deckID, err)
	}
	return cards, nil
}

// CardHashesByDeck returns the content hashes already present in a deck.
func (db *DB) CardHashesByDeck(ctx context.Context, deckID uuid.UUID) (map[string]bool, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT content_hash FROM cards
		WHERE deck_id = ? AND content_hash != ''
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card hashes for deck %s: %w", deckID, err)
	}
	defer rows.Close()

	hashes := make(map[string]bool)
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("failed to scan card hash for deck %s: %w", deckID, err)
		}
		hashes[h] = true
	}
	return hashes, rows.Err()
}

// UpdateCardContent replaces the front and back of a card. Scheduling fields
// are left as they are.
func (db *DB) UpdateCardContent(ctx context.Context, id uuid.UUID, front, back, hash string, now time.Time) error {
	err := execOne(ctx, db.conn, `
		UPDATE cards
		SET front = ?, back = ?, content_hash = ?, updated_at = ?
		WHERE id = ?
	`, strings.TrimSpace(front), strings.TrimSpace(back), hash, now.UTC(), id)
	if errors.Is(err, errNoRows) {
		return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update card content %s: %w", id, err)
	}
	return nil
}

// DeleteCard removes a card and its review logs.
func (db *DB) DeleteCard(ctx context.Context, id uuid.UUID) error {
	err := execOne(ctx, db.conn, `DELETE FROM cards WHERE id = ?`, id)
	if errors.Is(err, errNoRows) {
		return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", id, err)
	}
	return nil
}
