// Package importer loads markdown flashcards from a directory, a single file
// or a git repository into a deck.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/gitsource"
	"github.com/conorfennell/knoldeck/internal/knol"
	"github.com/conorfennell/knoldeck/internal/parser"
)

// Store is the subset of storage the importer writes to.
type Store interface {
	FindDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
	CardHashesByDeck(ctx context.Context, deckID uuid.UUID) (map[string]bool, error)
	InsertCard(ctx context.Context, c *domain.Card) error
}

// Report summarizes an import run.
type Report struct {
	Files   int     `json:"files"`
	Parsed  int     `json:"parsed"`
	Added   int     `json:"added"`
	Skipped int     `json:"skipped"`
	Errors  []error `json:"-"`
}

// Importer adds parsed cards to decks, skipping content the deck already has.
// Cards are never removed by an import.
type Importer struct {
	store    Store
	reposDir string
	clock    func() time.Time
}

// New creates an importer. Git sources are checked out below reposDir.
func New(store Store, reposDir string, clock func() time.Time) *Importer {
	if clock == nil {
		clock = time.Now
	}
	return &Importer{store: store, reposDir: reposDir, clock: clock}
}

// Import reads source, a local path or git URL, into the deck.
func (im *Importer) Import(ctx context.Context, deckID uuid.UUID, source string) (*Report, error) {
	if _, err := im.store.FindDeck(ctx, deckID); err != nil {
		return nil, err
	}

	path := source
	if gitsource.IsURL(source) {
		localPath, err := gitsource.LocalPath(im.reposDir, source)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := gitsource.Sync(ctx, source, localPath); err != nil {
			return nil, err
		}
		path = localPath
	}

	existing, err := im.store.CardHashesByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		report.Files++
		im.importFile(ctx, deckID, p, existing, report)
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("error walking %s: %w", path, walkErr)
	}

	slog.Info("import complete",
		"deck_id", deckID,
		"source", source,
		"files", report.Files,
		"parsed", report.Parsed,
		"added", report.Added,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
	)
	return report, nil
}

func (im *Importer) importFile(ctx context.Context, deckID uuid.UUID, path string, existing map[string]bool, report *Report) {
	notes, err := parser.ParseFile(path)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, err))
		return
	}

	for _, note := range notes {
		report.Parsed++
		hash := knol.Hash(note.Front, note.Back)
		if existing[hash] {
			report.Skipped++
			continue
		}

		card, err := domain.NewCard(deckID, note.Front, note.Back, im.clock())
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("card in %s: %w", path, err))
			continue
		}
		card.ContentHash = hash

		if err := im.store.InsertCard(ctx, card); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("db insert for %s: %w", hash, err))
			continue
		}
		slog.Debug("new card imported", "card_id", card.ID, "hash", hash)
		existing[hash] = true
		report.Added++
	}
}
