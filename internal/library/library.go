// Package library implements the book registry: registering PDF textbooks
// under stable names, resolving them for later pipeline stages, and managing
// their lifecycle (listing, describing, removal, cache clearing).
package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/phrazzld/bookdeck/internal/pdfutil"
	"github.com/phrazzld/bookdeck/internal/store"
)

// Service provides book registry operations backed by the persistent stores.
type Service struct {
	books    store.BookStore
	contents store.ContentStore
	logger   *slog.Logger
}

// NewService creates a book registry service.
func NewService(books store.BookStore, contents store.ContentStore, logger *slog.Logger) *Service {
	return &Service{
		books:    books,
		contents: contents,
		logger:   logger.With(slog.String("component", "library")),
	}
}

// Register reads the PDF at path, counts its pages, and persists it under
// the given name. An empty name defaults to the file's base name without
// its extension. Returns ErrAccess if the file cannot be read and
// store.ErrBookExists if the name is already taken.
func (s *Service) Register(ctx context.Context, path, name string) (*domain.Book, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAccess, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrAccess, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAccess, path, err)
	}

	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	pageCount, err := pdfutil.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	book, err := domain.NewBook(name, path, data, pageCount)
	if err != nil {
		return nil, err
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "registered book",
		slog.String("book_id", book.ID),
		slog.String("name", book.Name),
		slog.Int("page_count", book.PageCount))

	return book, nil
}

// Resolve returns the registered book with the given name, raw content
// included. Returns store.ErrBookNotFound if no such book exists.
func (s *Service) Resolve(ctx context.Context, name string) (*domain.Book, error) {
	return s.books.GetByName(ctx, name)
}

// List returns all registered books ordered by name, content omitted.
func (s *Service) List(ctx context.Context) ([]*domain.Book, error) {
	return s.books.List(ctx)
}

// BookDetail is the full description of a registered book: its metadata plus
// the page ranges already extracted with the given extractor version.
type BookDetail struct {
	Book      *domain.Book
	Extracted []*domain.ExtractedContent
}

// Describe returns the book's metadata along with the extraction results
// cached for it under the given extractor version.
func (s *Service) Describe(ctx context.Context, name, extractorVersion string) (*BookDetail, error) {
	book, err := s.books.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	extracted, err := s.contents.ListForBook(ctx, book.ID, extractorVersion)
	if err != nil {
		return nil, err
	}

	return &BookDetail{Book: book, Extracted: extracted}, nil
}

// Remove deletes the book and everything derived from it. Returns
// store.ErrBookNotFound if no such book exists.
func (s *Service) Remove(ctx context.Context, name string) error {
	book, err := s.books.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.books.Delete(ctx, book.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "removed book",
		slog.String("book_id", book.ID),
		slog.String("name", book.Name))

	return nil
}

// ClearContent drops the book's cached extraction results while keeping the
// book itself registered. Subsequent extractions start from a cold cache.
func (s *Service) ClearContent(ctx context.Context, name string) error {
	book, err := s.books.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.contents.DeleteForBook(ctx, book.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "cleared extracted content",
		slog.String("book_id", book.ID),
		slog.String("name", book.Name))

	return nil
}
