package store

import (
	"context"

	"github.com/phrazzld/bookdeck/internal/domain"
)

// BookStore defines the interface for book registry persistence.
type BookStore interface {
	// Create saves a new book, including its raw content bytes.
	// Returns ErrBookExists if a book with the same ID or name is already
	// registered, and ErrInvalidEntity wrapping the validation error if the
	// book fails domain validation.
	Create(ctx context.Context, book *domain.Book) error

	// GetByName retrieves a book by its registered name, content included.
	// Returns ErrBookNotFound if no book matches.
	GetByName(ctx context.Context, name string) (*domain.Book, error)

	// List returns all registered books ordered by name. Book content is
	// omitted from the results; use GetByName when the bytes are needed.
	List(ctx context.Context) ([]*domain.Book, error)

	// UpdatePageCount records a lazily-discovered page count for a book.
	// Returns ErrBookNotFound if the book does not exist.
	UpdatePageCount(ctx context.Context, bookID string, pageCount int) error

	// Delete removes a book. Dependent extracted content and exercises are
	// removed with it. Returns ErrBookNotFound if the book does not exist.
	Delete(ctx context.Context, bookID string) error
}
