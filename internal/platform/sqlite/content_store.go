package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/phrazzld/bookdeck/internal/store"
)

// ContentStore implements the store.ContentStore interface using a sqlite
// database as the storage backend. Entries are keyed by
// (book, page range, extractor version) and never overwritten.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a sqlite implementation of the ContentStore interface.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Ensure ContentStore implements store.ContentStore interface
var _ store.ContentStore = (*ContentStore)(nil)

// Get implements store.ContentStore.Get
func (s *ContentStore) Get(ctx context.Context, key domain.ContentKey) (*domain.ExtractedContent, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT text, extracted_at FROM extracted_content
		 WHERE book_id = ? AND start_page = ? AND end_page = ? AND extractor_version = ?`,
		key.BookID, key.Range.Start, key.Range.End, key.ExtractorVersion)

	var (
		text        string
		extractedAt int64
	)
	if err := row.Scan(&text, &extractedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s pages %s (%s)",
				store.ErrContentNotFound, key.BookID, key.Range, key.ExtractorVersion)
		}
		return nil, fmt.Errorf("failed to get extracted content: %w", err)
	}

	return &domain.ExtractedContent{
		Key:         key,
		Text:        text,
		ExtractedAt: time.Unix(extractedAt, 0).UTC(),
	}, nil
}

// Put implements store.ContentStore.Put. The insert ignores conflicts on the
// content key, which makes re-extraction idempotent and concurrent writes of
// the same key race-safe: the first writer wins, later writers succeed
// without modifying the stored row.
func (s *ContentStore) Put(ctx context.Context, content *domain.ExtractedContent) error {
	if err := content.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	key := content.Key
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extracted_content
		   (book_id, start_page, end_page, extractor_version, text, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (book_id, start_page, end_page, extractor_version) DO NOTHING`,
		key.BookID, key.Range.Start, key.Range.End, key.ExtractorVersion,
		content.Text, content.ExtractedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to put extracted content: %w", err)
	}

	return nil
}

// ListForBook implements store.ContentStore.ListForBook
func (s *ContentStore) ListForBook(ctx context.Context, bookID, extractorVersion string) ([]*domain.ExtractedContent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT start_page, end_page, text, extracted_at FROM extracted_content
		 WHERE book_id = ? AND extractor_version = ?
		 ORDER BY start_page, end_page`,
		bookID, extractorVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted content: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contents []*domain.ExtractedContent
	for rows.Next() {
		var (
			r           domain.PageRange
			text        string
			extractedAt int64
		)
		if err := rows.Scan(&r.Start, &r.End, &text, &extractedAt); err != nil {
			return nil, fmt.Errorf("failed to scan extracted content: %w", err)
		}
		contents = append(contents, &domain.ExtractedContent{
			Key: domain.ContentKey{
				BookID:           bookID,
				Range:            r,
				ExtractorVersion: extractorVersion,
			},
			Text:        text,
			ExtractedAt: time.Unix(extractedAt, 0).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list extracted content: %w", err)
	}

	return contents, nil
}

// DeleteForBook implements store.ContentStore.DeleteForBook
func (s *ContentStore) DeleteForBook(ctx context.Context, bookID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM extracted_content WHERE book_id = ?`, bookID)
	if err != nil {
		return fmt.Errorf("failed to delete extracted content: %w", err)
	}
	return nil
}
