package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when card generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate cards")

	// ErrInvalidRequest is returned when a generation request is malformed,
	// for example when it carries both content text and a literal prompt
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary provider errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during card generation")

	// ErrUnavailable is returned when the provider stayed unavailable through
	// the whole retry budget
	ErrUnavailable = errors.New("language model unavailable")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
