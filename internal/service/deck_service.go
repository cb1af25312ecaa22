package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/bookdeck/internal/deck"
	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/phrazzld/bookdeck/internal/extraction"
	"github.com/phrazzld/bookdeck/internal/generation"
	"github.com/phrazzld/bookdeck/internal/library"
)

// DeckService drives the two deck creation pipelines: from a book page range
// and from a literal prompt.
type DeckService struct {
	library   *library.Service
	extractor *extraction.Service
	generator generation.Generator
	logger    *slog.Logger
}

// NewDeckService creates a DeckService.
func NewDeckService(
	lib *library.Service,
	extractor *extraction.Service,
	generator generation.Generator,
	logger *slog.Logger,
) *DeckService {
	return &DeckService{
		library:   lib,
		extractor: extractor,
		generator: generator,
		logger:    logger.With(slog.String("component", "deck_service")),
	}
}

// CreateFromBook runs the full pipeline for a registered book: extract the
// page range (served from cache when possible), generate cards from the
// extracted text, assemble the deck and write it as CSV under outDir.
// Returns the deck and the path of the written file.
func (s *DeckService) CreateFromBook(
	ctx context.Context,
	bookName string,
	r domain.PageRange,
	customInstruction string,
	cardCount int,
	outDir string,
) (*domain.Deck, string, error) {
	book, err := s.library.Resolve(ctx, bookName)
	if err != nil {
		return nil, "", err
	}

	content, err := s.extractor.Extract(ctx, book, r)
	if err != nil {
		return nil, "", err
	}

	cards, err := s.generator.GenerateCards(ctx, generation.Request{
		ContentText:       content.Text,
		CustomInstruction: customInstruction,
		CardCount:         cardCount,
	})
	if err != nil {
		return nil, "", err
	}

	deckName := fmt.Sprintf("%s %s", book.Name, r)
	d, err := deck.Assemble(deckName, cards, domain.BookProvenance(book.ID, r))
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("deck_%s_%s.csv", slugify(book.Name), r)
	path, err := s.export(d, filepath.Join(outDir, slugify(book.Name)), filename)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "deck created from book",
		slog.String("book_id", book.ID),
		slog.String("range", r.String()),
		slog.Int("cards", len(d.Cards)),
		slog.String("path", path))

	return d, path, nil
}

// CreateFromPrompt generates a deck directly from a literal prompt, skipping
// the extraction stages.
func (s *DeckService) CreateFromPrompt(
	ctx context.Context,
	prompt string,
	cardCount int,
	outDir string,
) (*domain.Deck, string, error) {
	cards, err := s.generator.GenerateCards(ctx, generation.Request{
		Prompt:    prompt,
		CardCount: cardCount,
	})
	if err != nil {
		return nil, "", err
	}

	d, err := deck.Assemble(deckTitle(prompt), cards, domain.PromptProvenance(prompt))
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("deck_%s_%d.csv", slugify(deckTitle(prompt)), len(d.Cards))
	path, err := s.export(d, outDir, filename)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "deck created from prompt",
		slog.Int("cards", len(d.Cards)),
		slog.String("path", path))

	return d, path, nil
}

// export writes the deck CSV into dir, creating it as needed.
func (s *DeckService) export(d *domain.Deck, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create deck file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := deck.WriteCSV(f, d); err != nil {
		return "", err
	}

	return path, nil
}

// deckTitle derives a short deck name from a free-text prompt.
func deckTitle(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}

// slugify turns a name into a filesystem-friendly token.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
