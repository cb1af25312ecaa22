package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyBookName is returned when a book is created without a name.
	ErrEmptyBookName = errors.New("book name cannot be empty")

	// ErrEmptyBookContent is returned when a book is created without content.
	ErrEmptyBookContent = errors.New("book content cannot be empty")

	// ErrInvalidPageRange is returned when a page range is malformed:
	// start or end below 1, or start greater than end.
	ErrInvalidPageRange = errors.New("invalid page range")

	// ErrEmptyContent is returned when extracted content has no text.
	ErrEmptyContent = errors.New("extracted content cannot be empty")

	// ErrEmptyExtractorVersion is returned when extracted content carries
	// no extractor version. The version is part of the content key, so an
	// empty value would silently merge cache generations.
	ErrEmptyExtractorVersion = errors.New("extractor version cannot be empty")

	// ErrCardFrontEmpty is returned when a flashcard has an empty front side.
	ErrCardFrontEmpty = errors.New("flashcard front cannot be empty")

	// ErrCardBackEmpty is returned when a flashcard has an empty back side.
	ErrCardBackEmpty = errors.New("flashcard back cannot be empty")

	// ErrInvalidProvenance is returned when deck provenance does not resolve
	// to exactly one origin (book+range or literal prompt).
	ErrInvalidProvenance = errors.New("provenance must name exactly one origin")

	// ErrEmptyExerciseTitle is returned when an exercise has no title.
	ErrEmptyExerciseTitle = errors.New("exercise title cannot be empty")
)
