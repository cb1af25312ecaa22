package service

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/phrazzld/bookdeck/internal/library"
	"github.com/phrazzld/bookdeck/internal/store"
)

//go:embed prompts/teacher.tmpl
var teacherPromptFS embed.FS

// PromptBuilder renders stored exercises into teacher-persona prompt files.
// It works entirely from the database and never touches the LLM.
type PromptBuilder struct {
	library       *library.Service
	exerciseStore store.ExerciseStore
	teacherPrompt *template.Template
	logger        *slog.Logger
}

// NewPromptBuilder creates a PromptBuilder.
func NewPromptBuilder(
	lib *library.Service,
	exerciseStore store.ExerciseStore,
	logger *slog.Logger,
) (*PromptBuilder, error) {
	teacherPrompt, err := template.ParseFS(teacherPromptFS, "prompts/teacher.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse teacher prompt template: %w", err)
	}

	return &PromptBuilder{
		library:       lib,
		exerciseStore: exerciseStore,
		teacherPrompt: teacherPrompt,
		logger:        logger.With(slog.String("component", "prompt_builder")),
	}, nil
}

// BuildPrompts renders the stored exercises of the page range into markdown
// files under outDir and returns the written paths.
func (b *PromptBuilder) BuildPrompts(ctx context.Context, bookName string, r domain.PageRange, outDir string) ([]string, error) {
	book, err := b.library.Resolve(ctx, bookName)
	if err != nil {
		return nil, err
	}

	var paths []string
	for page := r.Start; page <= r.End; page++ {
		exercises, err := b.exerciseStore.ListForPage(ctx, book.ID, page)
		if err != nil {
			return nil, err
		}
		if len(exercises) == 0 {
			continue
		}

		dir := filepath.Join(outDir,
			fmt.Sprintf("%s_exercises", slugify(book.Name)),
			fmt.Sprintf("page_%d", page))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create prompt directory: %w", err)
		}

		for i, exercise := range exercises {
			path := filepath.Join(dir, fmt.Sprintf("exercise_page_%d_exercise_%d.md", page, i+1))
			if err := b.writePrompt(path, exercise); err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}

		b.logger.InfoContext(ctx, "built exercise prompts",
			slog.String("book_id", book.ID),
			slog.Int("page", page),
			slog.Int("prompts", len(exercises)))
	}

	return paths, nil
}

func (b *PromptBuilder) writePrompt(path string, exercise *domain.Exercise) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create prompt file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := b.teacherPrompt.Execute(f, exercise); err != nil {
		return fmt.Errorf("failed to render teacher prompt: %w", err)
	}

	return nil
}
