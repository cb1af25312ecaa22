package domain

import (
	"time"

	"github.com/google/uuid"
)

// Exercise is a practice task extracted from a textbook page: a title, the
// instructions, and the ordered list of questions the student should answer.
type Exercise struct {
	ID           uuid.UUID `json:"id"`
	BookID       string    `json:"book_id"`
	PageNumber   int       `json:"page_number"`
	Title        string    `json:"title"`
	Instructions string    `json:"instructions"`
	Questions    []string  `json:"questions"`
	ExtractedAt  time.Time `json:"extracted_at"`
}

// NewExercise creates an Exercise stamped with a fresh ID and the current
// time. Returns an error if validation fails.
func NewExercise(bookID string, pageNumber int, title, instructions string, questions []string) (*Exercise, error) {
	exercise := &Exercise{
		ID:           uuid.New(),
		BookID:       bookID,
		PageNumber:   pageNumber,
		Title:        title,
		Instructions: instructions,
		Questions:    questions,
		ExtractedAt:  time.Now().UTC(),
	}

	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	return exercise, nil
}

// Validate checks if the Exercise has valid data. Instructions and questions
// may be sparse (some workbook exercises are a bare list of tasks), but a
// title and an origin page are always required.
func (e *Exercise) Validate() error {
	if e.BookID == "" {
		return ErrEmptyBookName
	}
	if e.PageNumber < 1 {
		return ErrInvalidPageRange
	}
	if e.Title == "" {
		return ErrEmptyExerciseTitle
	}
	return nil
}
