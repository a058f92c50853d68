package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Translation request tuning. Translation and detection run near
// deterministic; chat leaves room for variety.
const (
	translateTemperature float32 = 0.3
	translateMaxTokens           = 2000
	detectTemperature    float32 = 0.1
	detectMaxTokens              = 10
)

// Translator performs text translation and language detection through
// the provider gateway.
type Translator struct {
	completer Completer
	prompts   *PromptBuilder
	logger    *slog.Logger
}

func NewTranslator(completer Completer, prompts *PromptBuilder, logger *slog.Logger) *Translator {
	return &Translator{
		completer: completer,
		prompts:   prompts,
		logger:    logger,
	}
}

// Translate converts text between two catalog languages. Both codes are
// validated before any provider call is made.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	turns, err := t.prompts.BuildTranslationPrompt(source, target, text)
	if err != nil {
		return "", err
	}

	translated, err := t.completer.Complete(ctx, turns, translateTemperature, translateMaxTokens)
	if err != nil {
		return "", fmt.Errorf("translating: %w", err)
	}

	t.logger.Debug("translated text",
		"source", source,
		"target", target,
		"chars", len(text),
	)

	return strings.TrimSpace(translated), nil
}

// DetectLanguage asks the provider for the ISO 639-1 code of text.
func (t *Translator) DetectLanguage(ctx context.Context, text string) (string, error) {
	turns := t.prompts.BuildDetectionPrompt(text)

	code, err := t.completer.Complete(ctx, turns, detectTemperature, detectMaxTokens)
	if err != nil {
		return "", fmt.Errorf("detecting language: %w", err)
	}

	return strings.ToLower(strings.TrimSpace(code)), nil
}
