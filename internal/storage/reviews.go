package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// SaveReview replaces the scheduling fields of a card and appends the review
// log in a single transaction.
func (db *DB) SaveReview(ctx context.Context, c *domain.Card, log domain.ReviewLog) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin review transaction for card %s: %w", c.ID, err)
	}
	defer tx.Rollback()

	err = execOne(ctx, tx, `
		UPDATE cards
		SET repetitions = ?, easiness_factor = ?, interval_days = ?,
		    next_review_at = ?, last_reviewed_at = ?, review_count = ?, updated_at = ?
		WHERE id = ?
	`,
		c.Repetitions,
		c.EasinessFactor,
		c.IntervalDays,
		nullTime(c.NextReviewAt),
		nullTime(c.LastReviewedAt),
		c.ReviewCount,
		c.UpdatedAt.UTC(),
		c.ID,
	)
	if errors.Is(err, errNoRows) {
		return fmt.Errorf("card %s: %w", c.ID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update schedule for card %s: %w", c.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO review_logs (card_id, reviewed_at, grade, interval_days, easiness_factor)
		VALUES (?, ?, ?, ?, ?)
	`, log.CardID, log.ReviewedAt.UTC(), int(log.Grade), log.IntervalDays, log.EasinessFactor); err != nil {
		return fmt.Errorf("failed to insert review log for card %s: %w", c.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review for card %s: %w", c.ID, err)
	}
	return nil
}

// ReviewHistory lists the reviews of a card, newest first.
func (db *DB) ReviewHistory(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLog, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT card_id, reviewed_at, grade, interval_days, easiness_factor
		FROM review_logs WHERE card_id = ?
		ORDER BY reviewed_at DESC, id DESC
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review history for card %s: %w", cardID, err)
	}
	defer rows.Close()

	logs := []domain.ReviewLog{}
	for rows.Next() {
		var l domain.ReviewLog
		if err := rows.Scan(&l.CardID, &l.ReviewedAt, &l.Grade, &l.IntervalDays, &l.EasinessFactor); err != nil {
			return nil, fmt.Errorf("failed to scan review log for card %s: %w", cardID, err)
		}
		l.ReviewedAt = l.ReviewedAt.UTC()
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
