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

// BookStore implements the store.BookStore interface using a sqlite
// database as the storage backend.
type BookStore struct {
	db *sql.DB
}

// NewBookStore creates a sqlite implementation of the BookStore interface.
// It accepts a database connection that should be initialized and managed
// by the caller.
func NewBookStore(db *sql.DB) *BookStore {
	return &BookStore{db: db}
}

// Ensure BookStore implements store.BookStore interface
var _ store.BookStore = (*BookStore)(nil)

// Create implements store.BookStore.Create
func (s *BookStore) Create(ctx context.Context, book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (id, name, source_path, page_count, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		book.ID, book.Name, book.SourcePath, book.PageCount, book.Content,
		book.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", store.ErrBookExists, book.Name)
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// GetByName implements store.BookStore.GetByName
func (s *BookStore) GetByName(ctx context.Context, name string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, source_path, page_count, content, created_at
		 FROM books WHERE name = ?`, name)

	book, err := scanBook(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", store.ErrBookNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// List implements store.BookStore.List
func (s *BookStore) List(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, source_path, page_count, created_at
		 FROM books ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	return books, nil
}

// UpdatePageCount implements store.BookStore.UpdatePageCount
func (s *BookStore) UpdatePageCount(ctx context.Context, bookID string, pageCount int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET page_count = ? WHERE id = ?`, pageCount, bookID)
	if err != nil {
		return fmt.Errorf("failed to update page count: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update page count: %w", err)
	}
	if affected == 0 {
		return store.ErrBookNotFound
	}

	return nil
}

// Delete implements store.BookStore.Delete. Extracted content and exercises
// are removed by the schema's ON DELETE CASCADE constraints.
func (s *BookStore) Delete(ctx context.Context, bookID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, bookID)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if affected == 0 {
		return store.ErrBookNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner, withContent bool) (*domain.Book, error) {
	var (
		book      domain.Book
		createdAt int64
	)

	var err error
	if withContent {
		err = row.Scan(&book.ID, &book.Name, &book.SourcePath, &book.PageCount,
			&book.Content, &createdAt)
	} else {
		err = row.Scan(&book.ID, &book.Name, &book.SourcePath, &book.PageCount,
			&createdAt)
	}
	if err != nil {
		return nil, err
	}

	book.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &book, nil
}
