package store

import (
	"context"

	"github.com/phrazzld/bookdeck/internal/domain"
)

// ContentStore defines the interface for content-addressed persistence of
// extracted page text. Keys are (book, page range, extractor version); an
// entry, once written, is never overwritten.
type ContentStore interface {
	// Get retrieves the extracted content for a key.
	// Returns ErrContentNotFound on a cache miss.
	Get(ctx context.Context, key domain.ContentKey) (*domain.ExtractedContent, error)

	// Put stores extracted content. Put is idempotent: when an entry already
	// exists for the same key the call succeeds without touching the stored
	// value, so a race between two extractions of the same range cannot
	// corrupt storage — the loser's result is simply discarded. Distinct
	// extractor versions are distinct keys and coexist.
	Put(ctx context.Context, content *domain.ExtractedContent) error

	// ListForBook returns all extracted content for a book ordered by start
	// page, restricted to the given extractor version.
	ListForBook(ctx context.Context, bookID, extractorVersion string) ([]*domain.ExtractedContent, error)

	// DeleteForBook removes all extracted content for a book, across all
	// extractor versions.
	DeleteForBook(ctx context.Context, bookID string) error
}
