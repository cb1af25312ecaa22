package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors (e.g., ErrBookNotFound, ErrContentNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a book with the same name).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrBookNotFound indicates that the requested book does not exist in the store.
	ErrBookNotFound = fmt.Errorf("%w: book", ErrNotFound)

	// ErrContentNotFound indicates that no extracted content exists for the
	// requested content key.
	ErrContentNotFound = fmt.Errorf("%w: extracted content", ErrNotFound)

	// ErrExerciseNotFound indicates that the requested exercise does not exist.
	ErrExerciseNotFound = fmt.Errorf("%w: exercise", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrBookExists indicates that a book with the given name or identity is
	// already registered.
	ErrBookExists = fmt.Errorf("%w: book", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
