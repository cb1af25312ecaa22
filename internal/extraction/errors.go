package extraction

import "errors"

// ErrInvalidRange indicates the requested page range falls outside the
// book's pages. Ranges are never clamped.
var ErrInvalidRange = errors.New("page range outside book bounds")

// ErrServiceUnavailable indicates the extraction service could not be
// reached or refused the submission. Typically the extractor container is
// not running.
var ErrServiceUnavailable = errors.New("extraction service unavailable")

// ErrExtractionFailed indicates the extraction service accepted the request
// but failed to produce usable text.
var ErrExtractionFailed = errors.New("extraction failed")
