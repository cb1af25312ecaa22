// Package deck assembles generated flashcard records into immutable,
// exportable decks and writes them in the CSV format the downstream
// flashcard app imports.
package deck

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/bookdeck/internal/domain"
)

// ErrEmptyDeck indicates assembly was attempted with no records.
var ErrEmptyDeck = errors.New("no records to assemble into a deck")

// Assemble packages generated records into a deck: deduplicates by
// (front, back) preserving first-seen order, stamps provenance and a fresh
// ID. Returns ErrEmptyDeck when records is empty.
func Assemble(name string, records []domain.Flashcard, provenance domain.Provenance) (*domain.Deck, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyDeck, name)
	}

	seen := make(map[string]struct{}, len(records))
	cards := make([]domain.Flashcard, 0, len(records))
	for _, record := range records {
		key := record.PairKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cards = append(cards, record)
	}

	return domain.NewDeck(name, cards, provenance)
}

// WriteCSV writes the deck in the import format: a front,back,tags header
// followed by one row per card, tags joined with semicolons.
func WriteCSV(w io.Writer, deck *domain.Deck) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"front", "back", "tags"}); err != nil {
		return fmt.Errorf("failed to write deck CSV: %w", err)
	}
	for _, card := range deck.Cards {
		row := []string{card.Front, card.Back, strings.Join(card.Tags, ";")}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write deck CSV: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write deck CSV: %w", err)
	}

	return nil
}
