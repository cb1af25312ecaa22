package store

import (
	"context"

	"github.com/phrazzld/bookdeck/internal/domain"
)

// ExerciseStore defines the interface for persisting exercises extracted
// from textbook pages, with their ordered questions.
type ExerciseStore interface {
	// CreateMultiple saves a batch of exercises atomically; either all
	// exercises (and their questions) are stored or none are.
	CreateMultiple(ctx context.Context, exercises []*domain.Exercise) error

	// ListForPage returns the exercises stored for one page of a book,
	// questions in original order. An empty slice is not an error.
	ListForPage(ctx context.Context, bookID string, pageNumber int) ([]*domain.Exercise, error)
}
