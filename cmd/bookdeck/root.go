package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/bookdeck/internal/config"
	"github.com/phrazzld/bookdeck/internal/extraction"
	"github.com/phrazzld/bookdeck/internal/library"
	"github.com/phrazzld/bookdeck/internal/platform/gemini"
	"github.com/phrazzld/bookdeck/internal/platform/logger"
	"github.com/phrazzld/bookdeck/internal/platform/sqlite"
	"github.com/phrazzld/bookdeck/internal/service"
	"github.com/phrazzld/bookdeck/internal/store"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bookdeck",
	Short: "Turn scanned textbooks into flashcard decks and exercises",
	Long: `bookdeck registers PDF textbooks, extracts page ranges through an
external OCR service, and turns the extracted content into flashcard decks
and practice exercises with an LLM.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
}

// app bundles the wired pipeline components a command needs. Components that
// require credentials (the LLM generator) are built on demand so commands
// that never reach the model work without them.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *sql.DB
	library   *library.Service
	extractor *extraction.Service
	exercises store.ExerciseStore
}

// newApp loads configuration, opens the database and wires the services
// every command shares.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	log := logger.Setup(cfg.Logging)

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	books := sqlite.NewBookStore(db)
	contents := sqlite.NewContentStore(db)

	ocr := extraction.NewOCRClient(cfg.Extractor, log)

	return &app{
		cfg:       cfg,
		logger:    log,
		db:        db,
		library:   library.NewService(books, contents, log),
		extractor: extraction.NewService(ocr, contents, cfg.Extractor.Version, log),
		exercises: sqlite.NewExerciseStore(db),
	}, nil
}

func (a *app) close() {
	_ = a.db.Close()
}

// deckService builds the deck pipeline, including the Gemini generator.
func (a *app) deckService(ctx context.Context) (*service.DeckService, error) {
	generator, err := gemini.NewGenerator(ctx, a.logger, a.cfg.LLM)
	if err != nil {
		return nil, err
	}
	return service.NewDeckService(a.library, a.extractor, generator, a.logger), nil
}

// exerciseService builds the exercise extraction pipeline, including the
// Gemini exercise extractor.
func (a *app) exerciseService(ctx context.Context) (*service.ExerciseService, error) {
	generator, err := gemini.NewGenerator(ctx, a.logger, a.cfg.LLM)
	if err != nil {
		return nil, err
	}
	return service.NewExerciseService(a.library, a.extractor, generator, a.exercises, a.logger), nil
}

// promptBuilder builds the exercise prompt renderer. It needs no LLM
// credentials.
func (a *app) promptBuilder() (*service.PromptBuilder, error) {
	return service.NewPromptBuilder(a.library, a.exercises, a.logger)
}

// outDirOrDefault resolves the export directory for a command: the flag
// value when given, the configured default otherwise.
func (a *app) outDirOrDefault(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.Export.OutDir
}
