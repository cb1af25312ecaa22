package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/phrazzld/bookdeck/internal/extraction"
	"github.com/phrazzld/bookdeck/internal/generation"
	"github.com/phrazzld/bookdeck/internal/library"
	"github.com/phrazzld/bookdeck/internal/store"
)

// ExerciseService extracts practice exercises from book pages and persists
// them per page.
type ExerciseService struct {
	library       *library.Service
	extractor     *extraction.Service
	exercises     generation.ExerciseExtractor
	exerciseStore store.ExerciseStore
	logger        *slog.Logger
}

// NewExerciseService creates an ExerciseService.
func NewExerciseService(
	lib *library.Service,
	extractor *extraction.Service,
	exercises generation.ExerciseExtractor,
	exerciseStore store.ExerciseStore,
	logger *slog.Logger,
) *ExerciseService {
	return &ExerciseService{
		library:       lib,
		extractor:     extractor,
		exercises:     exercises,
		exerciseStore: exerciseStore,
		logger:        logger.With(slog.String("component", "exercise_service")),
	}
}

// Extract runs exercise extraction over the page range: each page is
// extracted individually (served from cache when possible), the recognized
// exercises are persisted per page. Returns the number of stored exercises.
func (s *ExerciseService) Extract(ctx context.Context, bookName string, r domain.PageRange) (int, error) {
	book, err := s.library.Resolve(ctx, bookName)
	if err != nil {
		return 0, err
	}

	total := 0
	for page := r.Start; page <= r.End; page++ {
		pageRange, err := domain.NewPageRange(page, page)
		if err != nil {
			return total, err
		}

		content, err := s.extractor.Extract(ctx, book, pageRange)
		if err != nil {
			return total, fmt.Errorf("page %d: %w", page, err)
		}

		parsed, err := s.exercises.ExtractExercises(ctx, content.Text)
		if err != nil {
			return total, fmt.Errorf("page %d: %w", page, err)
		}
		if len(parsed) == 0 {
			continue
		}

		exercises := make([]*domain.Exercise, 0, len(parsed))
		for _, p := range parsed {
			exercise, err := domain.NewExercise(book.ID, page, p.Title, p.Instructions, p.Questions)
			if err != nil {
				return total, fmt.Errorf("page %d: %w", page, err)
			}
			exercises = append(exercises, exercise)
		}

		if err := s.exerciseStore.CreateMultiple(ctx, exercises); err != nil {
			return total, fmt.Errorf("page %d: %w", page, err)
		}
		total += len(exercises)

		s.logger.InfoContext(ctx, "extracted exercises",
			slog.String("book_id", book.ID),
			slog.Int("page", page),
			slog.Int("exercises", len(exercises)))
	}

	return total, nil
}
