package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Flashcard is a single front/back learning record produced by the
// generation engine. Tags and SourceReference are optional; Front and Back
// are mandatory and a record missing either is rejected, never coerced.
type Flashcard struct {
	Front           string   `json:"front"`
	Back            string   `json:"back"`
	Tags            []string `json:"tags,omitempty"`
	SourceReference string   `json:"source_reference,omitempty"`
}

// Validate checks if the Flashcard has valid data.
func (f Flashcard) Validate() error {
	if f.Front == "" {
		return ErrCardFrontEmpty
	}
	if f.Back == "" {
		return ErrCardBackEmpty
	}
	return nil
}

// PairKey returns the identity used for duplicate detection within a deck.
// Two cards with equal fronts and backs are the same card regardless of
// tags or source reference.
func (f Flashcard) PairKey() string {
	return f.Front + "\x00" + f.Back
}

// ProvenanceKind discriminates the two legal deck origins.
type ProvenanceKind string

const (
	// ProvenanceBook marks a deck generated from a book page range.
	ProvenanceBook ProvenanceKind = "book"

	// ProvenancePrompt marks a deck generated from a literal prompt.
	ProvenancePrompt ProvenanceKind = "prompt"
)

// Provenance records the originating request of a deck: either a book page
// range or a literal prompt string, never both, never neither.
type Provenance struct {
	Kind   ProvenanceKind `json:"kind"`
	BookID string         `json:"book_id,omitempty"`
	Range  PageRange      `json:"range,omitempty"`
	Prompt string         `json:"prompt,omitempty"`
}

// BookProvenance builds provenance for a deck generated from a page range.
func BookProvenance(bookID string, r PageRange) Provenance {
	return Provenance{Kind: ProvenanceBook, BookID: bookID, Range: r}
}

// PromptProvenance builds provenance for a deck generated from a literal prompt.
func PromptProvenance(prompt string) Provenance {
	return Provenance{Kind: ProvenancePrompt, Prompt: prompt}
}

// Validate checks that the provenance resolves to exactly one origin.
func (p Provenance) Validate() error {
	switch p.Kind {
	case ProvenanceBook:
		if p.BookID == "" || p.Prompt != "" {
			return ErrInvalidProvenance
		}
		return p.Range.Validate()
	case ProvenancePrompt:
		if p.Prompt == "" || p.BookID != "" {
			return ErrInvalidProvenance
		}
		return nil
	default:
		return ErrInvalidProvenance
	}
}

// Deck is an ordered, deduplicated set of flashcards with recorded
// provenance. A deck is immutable once assembled; regenerating the same
// request produces a new deck with a new ID.
type Deck struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Cards      []Flashcard `json:"cards"`
	Provenance Provenance  `json:"provenance"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewDeck creates a Deck from already-deduplicated cards. The assembler is
// responsible for ordering and duplicate removal; NewDeck enforces the
// resulting invariants and rejects violations.
func NewDeck(name string, cards []Flashcard, provenance Provenance) (*Deck, error) {
	deck := &Deck{
		ID:         uuid.New(),
		Name:       name,
		Cards:      cards,
		Provenance: provenance,
		CreatedAt:  time.Now().UTC(),
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks the deck invariants: a name, valid provenance, at least
// one card, every card valid, and no duplicate (front, back) pairs.
func (d *Deck) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: deck name cannot be empty", ErrValidation)
	}

	if err := d.Provenance.Validate(); err != nil {
		return err
	}

	if len(d.Cards) == 0 {
		return fmt.Errorf("%w: deck has no cards", ErrValidation)
	}

	seen := make(map[string]struct{}, len(d.Cards))
	for i, card := range d.Cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
		key := card.PairKey()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate card %q", ErrValidation, card.Front)
		}
		seen[key] = struct{}{}
	}

	return nil
}
