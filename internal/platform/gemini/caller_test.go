package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"

	"github.com/phrazzld/bookdeck/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestClassifyAPIError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "rate limited", err: genai.APIError{Code: 429}, want: generation.ErrTransientFailure},
		{name: "timeout", err: genai.APIError{Code: 408}, want: generation.ErrTransientFailure},
		{name: "server error", err: genai.APIError{Code: 503}, want: generation.ErrTransientFailure},
		{name: "bad request", err: genai.APIError{Code: 400}, want: generation.ErrGenerationFailed},
		{name: "connection failure", err: fmt.Errorf("dial tcp: refused"), want: generation.ErrTransientFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, classifyAPIError(tc.err), tc.want)
		})
	}
}

func TestClassifyAPIErrorContextPassthrough(t *testing.T) {
	t.Parallel()

	err := classifyAPIError(fmt.Errorf("call: %w", context.Canceled))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, generation.ErrTransientFailure))
}
