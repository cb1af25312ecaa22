package domain

import (
	"time"
)

// ContentKey identifies one extraction result. Identical keys are
// content-addressed: the stored text for a key never changes, and a new
// extractor version is a new key rather than an overwrite.
type ContentKey struct {
	BookID           string    `json:"book_id"`
	Range            PageRange `json:"range"`
	ExtractorVersion string    `json:"extractor_version"`
}

// Validate checks that all key components are present and well-formed.
func (k ContentKey) Validate() error {
	if k.BookID == "" {
		return ErrEmptyBookName
	}
	if err := k.Range.Validate(); err != nil {
		return err
	}
	if k.ExtractorVersion == "" {
		return ErrEmptyExtractorVersion
	}
	return nil
}

// ExtractedContent is the structured text produced by the extraction service
// for one (book, page range, extractor version) key. Immutable once written.
type ExtractedContent struct {
	Key         ContentKey `json:"key"`
	Text        string     `json:"text"`
	ExtractedAt time.Time  `json:"extracted_at"`
}

// NewExtractedContent creates an ExtractedContent stamped with the current
// time. Returns an error if the key is invalid or the text is empty.
func NewExtractedContent(key ContentKey, text string) (*ExtractedContent, error) {
	content := &ExtractedContent{
		Key:         key,
		Text:        text,
		ExtractedAt: time.Now().UTC(),
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}

	return content, nil
}

// Validate checks if the ExtractedContent has valid data.
func (c *ExtractedContent) Validate() error {
	if err := c.Key.Validate(); err != nil {
		return err
	}
	if c.Text == "" {
		return ErrEmptyContent
	}
	return nil
}
