package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/storage"
)

var testNow = time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*storage.DB, *domain.Deck, *Importer) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deck, err := domain.NewDeck("Imported", "", testNow)
	require.NoError(t, err)
	require.NoError(t, db.InsertDeck(context.Background(), deck))

	return db, deck, New(db, t.TempDir(), func() time.Time { return testNow })
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestImportDirectory(t *testing.T) {
	db, deck, im := setup(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeFile(t, dir, "go.md", "Q: What is Go?\nA: A language\n\nQ: Who made it?\nA: Google\n")
	writeFile(t, dir, "nested/more.MD", "Q: What is a channel?\nA: A typed conduit\n")
	writeFile(t, dir, "notes.txt", "Q: ignored\nA: not markdown\n")

	report, err := im.Import(ctx, deck.ID, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 3, report.Parsed)
	assert.Equal(t, 3, report.Added)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.Errors)

	cards, err := db.CardsByDeck(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for _, c := range cards {
		assert.NotEmpty(t, c.ContentHash)
		assert.True(t, c.IsNew())
		assert.True(t, c.IsDue(testNow))
	}
}

func TestImportSkipsKnownContent(t *testing.T) {
	db, deck, im := setup(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeFile(t, dir, "a.md", "Q: Same\nA: Card\n---\nQ: same \nA: card\n")

	report, err := im.Import(ctx, deck.ID, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Skipped)

	report, err = im.Import(ctx, deck.ID, filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 2, report.Skipped)

	cards, err := db.CardsByDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestImportUnknownDeck(t *testing.T) {
	_, _, im := setup(t)
	_, err := im.Import(context.Background(), uuid.New(), t.TempDir())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportMissingPath(t *testing.T) {
	_, deck, im := setup(t)
	_, err := im.Import(context.Background(), deck.ID, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
