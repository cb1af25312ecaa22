package gemini

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phrazzld/bookdeck/internal/config"
	"github.com/phrazzld/bookdeck/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaller replays a scripted sequence of model responses.
type fakeCaller struct {
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeCaller) generate(ctx context.Context, model, prompt string) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)

	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call < len(f.responses) {
		return f.responses[call], nil
	}
	return "", fmt.Errorf("unexpected call %d", call)
}

func newTestGenerator(t *testing.T, caller modelCaller) *Generator {
	t.Helper()

	cfg := config.LLMConfig{
		GeminiAPIKey:      "test-key",
		ModelName:         "gemini-2.0-flash",
		MaxRetries:        1,
		RetryDelaySeconds: 1,
	}
	g, err := newGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, caller)
	require.NoError(t, err)
	return g
}

func TestGenerateCardsFromContent(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: []string{
		`{"cards": [
			{"front": "la cocina", "back": "the kitchen", "tags": ["vocabulary"]},
			{"front": "el horno", "back": "the oven"}
		]}`,
	}}
	g := newTestGenerator(t, caller)

	cards, err := g.GenerateCards(context.Background(), generation.Request{
		ContentText: "Lesson 4: the kitchen. la cocina, el horno.",
	})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "la cocina", cards[0].Front)
	assert.Equal(t, "the kitchen", cards[0].Back)
	assert.Equal(t, []string{"vocabulary"}, cards[0].Tags)

	require.Len(t, caller.prompts, 1)
	assert.Contains(t, caller.prompts[0], "Lesson 4: the kitchen")
	assert.Contains(t, caller.prompts[0], "grounded in this content")
}

func TestGenerateCardsCustomInstructionNarrows(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: []string{
		`{"cards": [{"front": "f", "back": "b"}]}`,
	}}
	g := newTestGenerator(t, caller)

	_, err := g.GenerateCards(context.Background(), generation.Request{
		ContentText:       "page text",
		CustomInstruction: "only food vocabulary",
	})
	require.NoError(t, err)

	prompt := caller.prompts[0]
	// The base instruction survives; the custom instruction narrows it.
	assert.Contains(t, prompt, "page text")
	assert.Contains(t, prompt, "only food vocabulary")
	assert.Contains(t, prompt, "narrowing the task above")
}

func TestGenerateCardsCountHint(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: []string{
		`{"cards": [{"front": "f", "back": "b"}]}`,
	}}
	g := newTestGenerator(t, caller)

	_, err := g.GenerateCards(context.Background(), generation.Request{
		Prompt:    "comparatives",
		CardCount: 15,
	})
	require.NoError(t, err)
	assert.Contains(t, caller.prompts[0], "exactly 15 flashcards")
}

func TestGenerateCardsMissingBackFailsWholeCall(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: []string{
		`{"cards": [
			{"front": "ok", "back": "fine"},
			{"front": "broken"}
		]}`,
	}}
	g := newTestGenerator(t, caller)

	cards, err := g.GenerateCards(context.Background(), generation.Request{Prompt: "topic"})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	assert.Nil(t, cards)
	assert.Len(t, caller.prompts, 1, "parse failures must not be retried")
}

func TestGenerateCardsMalformedJSON(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: []string{"not json at all"}}
	g := newTestGenerator(t, caller)

	_, err := g.GenerateCards(context.Background(), generation.Request{Prompt: "topic"})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	assert.Len(t, caller.prompts, 1)
}

func TestGenerateCardsDropsDuplicatePairs(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: []string{
		`{"cards": [
			{"front": "a", "back": "1"},
			{"front": "a", "back": "1"},
			{"front": "a", "back": "2"}
		]}`,
	}}
	g := newTestGenerator(t, caller)

	cards, err := g.GenerateCards(context.Background(), generation.Request{Prompt: "topic"})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "1", cards[0].Back)
	assert.Equal(t, "2", cards[1].Back)
}

func TestGenerateCardsRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{
		errs:      []error{fmt.Errorf("%w: 503", generation.ErrTransientFailure)},
		responses: []string{"", `{"cards": [{"front": "f", "back": "b"}]}`},
	}
	g := newTestGenerator(t, caller)

	cards, err := g.GenerateCards(context.Background(), generation.Request{Prompt: "topic"})
	require.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Len(t, caller.prompts, 2)
}

func TestGenerateCardsExhaustedRetries(t *testing.T) {
	t.Parallel()

	transient := fmt.Errorf("%w: 503", generation.ErrTransientFailure)
	caller := &fakeCaller{errs: []error{transient, transient}}
	g := newTestGenerator(t, caller)

	_, err := g.GenerateCards(context.Background(), generation.Request{Prompt: "topic"})
	assert.ErrorIs(t, err, generation.ErrUnavailable)
	assert.Len(t, caller.prompts, 2)
}

func TestGenerateCardsContentBlockedNotRetried(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{errs: []error{
		fmt.Errorf("%w: safety", generation.ErrContentBlocked),
	}}
	g := newTestGenerator(t, caller)

	_, err := g.GenerateCards(context.Background(), generation.Request{Prompt: "topic"})
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
	assert.Len(t, caller.prompts, 1)
}

func TestGenerateCardsInvalidRequest(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{}
	g := newTestGenerator(t, caller)
	ctx := context.Background()

	_, err := g.GenerateCards(ctx, generation.Request{})
	assert.ErrorIs(t, err, generation.ErrInvalidRequest)

	_, err = g.GenerateCards(ctx, generation.Request{ContentText: "a", Prompt: "b"})
	assert.ErrorIs(t, err, generation.ErrInvalidRequest)

	assert.Empty(t, caller.prompts)
}

func TestExtractExercises(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: []string{
		`{"exercises": [
			{"title": "Exercise 3", "instructions": "Fill in the blanks.",
			 "questions": ["yo ___ (ser) alto", "tu ___ (ser) bajo"]}
		]}`,
	}}
	g := newTestGenerator(t, caller)

	exercises, err := g.ExtractExercises(context.Background(), "page text with exercises")
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "Exercise 3", exercises[0].Title)
	assert.Equal(t, "Fill in the blanks.", exercises[0].Instructions)
	assert.Len(t, exercises[0].Questions, 2)

	assert.Contains(t, caller.prompts[0], "page text with exercises")
}

func TestExtractExercisesEmptyPageIsValid(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: []string{`{"exercises": []}`}}
	g := newTestGenerator(t, caller)

	exercises, err := g.ExtractExercises(context.Background(), "a page without exercises")
	require.NoError(t, err)
	assert.Empty(t, exercises)
}

func TestExtractExercisesMissingTitle(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{responses: []string{
		`{"exercises": [{"instructions": "Do things."}]}`,
	}}
	g := newTestGenerator(t, caller)

	_, err := g.ExtractExercises(context.Background(), "page")
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestCardTemplateOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cards.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("CUSTOM TEMPLATE {{.Prompt}}"), 0o644))

	cfg := config.LLMConfig{
		GeminiAPIKey:       "test-key",
		ModelName:          "gemini-2.0-flash",
		RetryDelaySeconds:  1,
		PromptTemplatePath: path,
	}
	caller := &fakeCaller{responses: []string{`{"cards": [{"front": "f", "back": "b"}]}`}}
	g, err := newGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, caller)
	require.NoError(t, err)

	_, err = g.GenerateCards(context.Background(), generation.Request{Prompt: "topic"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(caller.prompts[0], "CUSTOM TEMPLATE"))
}
