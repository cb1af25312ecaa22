package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a migrated database in a per-test temp directory.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "bookdeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// mustBook registers a fresh book and returns it.
func mustBook(t *testing.T, db *sql.DB, name string) *domain.Book {
	t.Helper()

	book, err := domain.NewBook(name, "/books/"+name+".pdf", []byte("%PDF-1.7 "+name), 10)
	require.NoError(t, err)
	require.NoError(t, NewBookStore(db).Create(context.Background(), book))

	return book
}

// mustContent builds an ExtractedContent for the given key components.
func mustContent(t *testing.T, bookID string, start, end int, version, text string) *domain.ExtractedContent {
	t.Helper()

	r, err := domain.NewPageRange(start, end)
	require.NoError(t, err)

	content, err := domain.NewExtractedContent(domain.ContentKey{
		BookID:           bookID,
		Range:            r,
		ExtractorVersion: version,
	}, text)
	require.NoError(t, err)

	return content
}
