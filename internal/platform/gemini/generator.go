package gemini

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"text/template"
	"time"

	"github.com/phrazzld/bookdeck/internal/config"
	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/phrazzld/bookdeck/internal/generation"
)

//go:embed prompts/*.tmpl
var promptsFS embed.FS

// Generator implements generation.Generator and generation.ExerciseExtractor
// using the Gemini API.
type Generator struct {
	logger           *slog.Logger
	config           config.LLMConfig
	cardTemplate     *template.Template
	exerciseTemplate *template.Template
	caller           modelCaller
	model            string
}

var (
	_ generation.Generator         = (*Generator)(nil)
	_ generation.ExerciseExtractor = (*Generator)(nil)
)

// NewGenerator creates a Generator from the LLM configuration. The embedded
// card prompt template can be overridden with cfg.PromptTemplatePath.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	caller, err := newGenaiCaller(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	return newGenerator(logger, cfg, caller)
}

func newGenerator(logger *slog.Logger, cfg config.LLMConfig, caller modelCaller) (*Generator, error) {
	cardTemplate, err := loadCardTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	exerciseTemplate, err := template.ParseFS(promptsFS, "prompts/exercises.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse exercise prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:           logger.With(slog.String("component", "gemini")),
		config:           cfg,
		cardTemplate:     cardTemplate,
		exerciseTemplate: exerciseTemplate,
		caller:           caller,
		model:            cfg.ModelName,
	}, nil
}

// loadCardTemplate parses the card prompt template, preferring an on-disk
// override when one is configured.
func loadCardTemplate(overridePath string) (*template.Template, error) {
	if overridePath == "" {
		tmpl, err := template.ParseFS(promptsFS, "prompts/cards.tmpl")
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse card prompt template: %v",
				generation.ErrInvalidConfig, err)
		}
		return tmpl, nil
	}

	content, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			generation.ErrInvalidConfig, overridePath, err)
	}
	tmpl, err := template.New("cards.tmpl").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template %s: %v",
			generation.ErrInvalidConfig, overridePath, err)
	}
	return tmpl, nil
}

// cardPromptData is the data the card prompt template renders.
type cardPromptData struct {
	ContentText       string
	Prompt            string
	CustomInstruction string
	CardCount         int
}

// GenerateCards implements generation.Generator.
func (g *Generator) GenerateCards(ctx context.Context, req generation.Request) ([]domain.Flashcard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var prompt bytes.Buffer
	err := g.cardTemplate.Execute(&prompt, cardPromptData{
		ContentText:       req.ContentText,
		Prompt:            req.Prompt,
		CustomInstruction: req.CustomInstruction,
		CardCount:         req.CardCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute card prompt template: %w", err)
	}

	raw, err := g.callWithRetry(ctx, prompt.String())
	if err != nil {
		return nil, err
	}

	return g.parseCards(ctx, raw)
}

// parseCards parses the model response strictly: a record missing front or
// back fails the whole call, duplicate (front, back) pairs are dropped.
func (g *Generator) parseCards(ctx context.Context, raw string) ([]domain.Flashcard, error) {
	var parsed cardsResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}
	if len(parsed.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}

	cards := make([]domain.Flashcard, 0, len(parsed.Cards))
	seen := make(map[string]bool, len(parsed.Cards))
	for i, record := range parsed.Cards {
		card := domain.Flashcard{
			Front:           record.Front,
			Back:            record.Back,
			Tags:            record.Tags,
			SourceReference: record.SourceReference,
		}
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", generation.ErrInvalidResponse, i, err)
		}

		if seen[card.PairKey()] {
			g.logger.DebugContext(ctx, "dropping duplicate card",
				slog.Int("index", i),
				slog.String("front", card.Front))
			continue
		}
		seen[card.PairKey()] = true
		cards = append(cards, card)
	}

	g.logger.InfoContext(ctx, "generated cards",
		slog.Int("cards", len(cards)),
		slog.Int("duplicates_dropped", len(parsed.Cards)-len(cards)))

	return cards, nil
}

// exercisePromptData is the data the exercise prompt template renders.
type exercisePromptData struct {
	PageText string
}

// ExtractExercises implements generation.ExerciseExtractor. An empty result
// is valid: not every page carries exercises.
func (g *Generator) ExtractExercises(ctx context.Context, pageText string) ([]generation.ParsedExercise, error) {
	if pageText == "" {
		return nil, fmt.Errorf("%w: empty page text", generation.ErrInvalidRequest)
	}

	var prompt bytes.Buffer
	if err := g.exerciseTemplate.Execute(&prompt, exercisePromptData{PageText: pageText}); err != nil {
		return nil, fmt.Errorf("failed to execute exercise prompt template: %w", err)
	}

	raw, err := g.callWithRetry(ctx, prompt.String())
	if err != nil {
		return nil, err
	}

	var parsed exercisesResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	exercises := make([]generation.ParsedExercise, 0, len(parsed.Exercises))
	for i, record := range parsed.Exercises {
		if record.Title == "" {
			return nil, fmt.Errorf("%w: exercise %d missing title", generation.ErrInvalidResponse, i)
		}
		exercises = append(exercises, generation.ParsedExercise{
			Title:        record.Title,
			Instructions: record.Instructions,
			Questions:    record.Questions,
		})
	}

	return exercises, nil
}

// callWithRetry calls the model with capped exponential backoff and jitter.
// Only transient provider errors are retried; exhausting the retry budget
// surfaces generation.ErrUnavailable.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		raw, err := g.caller.generate(ctx, g.model, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if !errors.Is(err, generation.ErrTransientFailure) {
			return "", err
		}

		g.logger.WarnContext(ctx, "model call failed",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1),
			slog.Any("error", err))

		if attempt == maxRetries {
			break
		}

		// delay = base * 2^attempt * jitter in [0.5, 1.0)
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("%w: exhausted %d attempts: %v",
		generation.ErrUnavailable, maxRetries+1, lastErr)
}
