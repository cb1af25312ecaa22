package generation

import (
	"context"
	"fmt"

	"github.com/phrazzld/bookdeck/internal/domain"
)

// Request describes one card-generation call. Exactly one of ContentText
// (extracted textbook pages) or Prompt (a literal user topic) must be set.
type Request struct {
	// ContentText is extracted page text to generate cards from.
	ContentText string

	// Prompt is a literal user prompt to generate cards from.
	Prompt string

	// CustomInstruction optionally narrows the base instruction, for example
	// "only vocabulary, no grammar". It never replaces the base instruction.
	CustomInstruction string

	// CardCount optionally hints how many cards the model should produce.
	// Zero leaves the count to the model.
	CardCount int
}

// Validate checks that the request carries exactly one payload source.
func (r Request) Validate() error {
	if r.ContentText == "" && r.Prompt == "" {
		return fmt.Errorf("%w: neither content text nor prompt set", ErrInvalidRequest)
	}
	if r.ContentText != "" && r.Prompt != "" {
		return fmt.Errorf("%w: both content text and prompt set", ErrInvalidRequest)
	}
	if r.CardCount < 0 {
		return fmt.Errorf("%w: negative card count", ErrInvalidRequest)
	}
	return nil
}

// Generator defines the interface for generating flashcards from text.
// This interface is the boundary between the pipeline core and external
// LLM services; implementations live under internal/platform.
type Generator interface {
	// GenerateCards produces flashcard records for the request. The returned
	// records are validated and free of duplicate (front, back) pairs; any
	// malformed record fails the whole call with ErrInvalidResponse.
	GenerateCards(ctx context.Context, req Request) ([]domain.Flashcard, error)
}

// ParsedExercise is one exercise recognized in a page of extracted text.
type ParsedExercise struct {
	Title        string
	Instructions string
	Questions    []string
}

// ExerciseExtractor recognizes practice exercises in extracted page text.
type ExerciseExtractor interface {
	// ExtractExercises returns the exercises found in pageText, possibly
	// none. Malformed model output fails with ErrInvalidResponse.
	ExtractExercises(ctx context.Context, pageText string) ([]ParsedExercise, error)
}
