// Package extraction turns page ranges of registered books into stored text.
// It fronts the external OCR service with a content-addressed cache: a page
// range already extracted with the current extractor version is served from
// the store without touching the service.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/phrazzld/bookdeck/internal/pdfutil"
	"github.com/phrazzld/bookdeck/internal/store"
)

// Service is the extraction client: it validates page ranges, consults the
// content store, and drives the external extractor on cache misses.
type Service struct {
	extractor Extractor
	contents  store.ContentStore
	version   string
	logger    *slog.Logger
}

// NewService creates an extraction service. version identifies the extractor
// configuration and becomes part of every content key it writes.
func NewService(extractor Extractor, contents store.ContentStore, version string, logger *slog.Logger) *Service {
	return &Service{
		extractor: extractor,
		contents:  contents,
		version:   version,
		logger:    logger.With(slog.String("component", "extraction")),
	}
}

// Version returns the extractor version stamped into content keys.
func (s *Service) Version() string {
	return s.version
}

// Extract returns the text for the given page range of the book, extracting
// it through the external service if no cached result exists. The range is
// validated against the book's page count and never clamped.
func (s *Service) Extract(ctx context.Context, book *domain.Book, r domain.PageRange) (*domain.ExtractedContent, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	if r.End > book.PageCount {
		return nil, fmt.Errorf("%w: pages %s exceed %q (%d pages)",
			ErrInvalidRange, r, book.Name, book.PageCount)
	}

	key := domain.ContentKey{
		BookID:           book.ID,
		Range:            r,
		ExtractorVersion: s.version,
	}

	cached, err := s.contents.Get(ctx, key)
	if err == nil {
		s.logger.DebugContext(ctx, "extraction cache hit",
			slog.String("book_id", book.ID),
			slog.String("range", r.String()))
		return cached, nil
	}
	if !errors.Is(err, store.ErrContentNotFound) {
		return nil, err
	}

	pages, err := pdfutil.ExtractRange(book.Content, r)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s_%s.pdf", book.ID, r)
	text, err := s.extractor.ExtractText(ctx, filename, pages)
	if err != nil {
		return nil, err
	}

	content, err := domain.NewExtractedContent(key, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	if err := s.contents.Put(ctx, content); err != nil {
		return nil, err
	}

	// A concurrent extraction may have won the insert. Re-read so every
	// caller observes the stored row, not its own candidate.
	stored, err := s.contents.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "extracted pages",
		slog.String("book_id", book.ID),
		slog.String("range", r.String()),
		slog.Int("chars", len(stored.Text)))

	return stored, nil
}
