package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// bookIDLength is the number of hex characters kept from the name hash.
const bookIDLength = 12

// Book represents a registered source document available for extraction.
// The ID is derived from the normalized name, so registering the same book
// from a different path produces the same identity. Content is the raw PDF
// as read at registration time; PageCount may be zero until the document
// has been inspected.
type Book struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourcePath string    `json:"source_path"`
	PageCount  int       `json:"page_count"`
	Content    []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookID derives the stable identifier for a book name. Case and surrounding
// whitespace are normalized first so "Aula 1" and " aula 1 " collide.
func BookID(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:bookIDLength]
}

// NewBook creates a Book from a name, its source path, and the raw document
// bytes. pageCount may be zero when the document could not be inspected yet.
// Returns an error if validation fails.
func NewBook(name, sourcePath string, content []byte, pageCount int) (*Book, error) {
	book := &Book{
		ID:         BookID(name),
		Name:       strings.TrimSpace(name),
		SourcePath: sourcePath,
		PageCount:  pageCount,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
func (b *Book) Validate() error {
	if b.Name == "" {
		return ErrEmptyBookName
	}

	if len(b.Content) == 0 {
		return ErrEmptyBookContent
	}

	if b.PageCount < 0 {
		return fmt.Errorf("%w: negative page count %d", ErrValidation, b.PageCount)
	}

	return nil
}

// PageRange is an inclusive page interval within a book. Both bounds are
// 1-based. The zero value is invalid.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewPageRange creates a PageRange after validating its bounds.
func NewPageRange(start, end int) (PageRange, error) {
	r := PageRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return PageRange{}, err
	}
	return r, nil
}

// Validate checks that the range is well-formed: 1 <= Start <= End.
// It does not know the book's extent; callers compare against the book's
// page count separately.
func (r PageRange) Validate() error {
	if r.Start < 1 || r.End < 1 {
		return fmt.Errorf("%w: pages are 1-based, got %d-%d", ErrInvalidPageRange, r.Start, r.End)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: start %d after end %d", ErrInvalidPageRange, r.Start, r.End)
	}
	return nil
}

// Pages returns the number of pages covered by the range.
func (r PageRange) Pages() int {
	return r.End - r.Start + 1
}

// String renders the range in the "start-end" form used in filenames,
// log lines, and page selections.
func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
