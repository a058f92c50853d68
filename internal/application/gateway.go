package application

import (
	"context"
	"fmt"

	"polyglot/internal/domain"
)

// Completer produces one-shot chat completions from the AI provider.
type Completer interface {
	Complete(ctx context.Context, turns []domain.Turn, temperature float32, maxTokens int) (string, error)
}

// Transcriber converts audio bytes to text. A language of "auto" or ""
// lets the provider detect it.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// ProviderError reports a failed or unusable response from the AI provider.
type ProviderError struct {
	Op        string
	Status    int
	Message   string
	Retryable bool
}

// RetryableError reports whether the failure is transient.
func (e *ProviderError) RetryableError() bool {
	return e.Retryable
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: provider error %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
