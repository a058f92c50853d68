package application

import (
	"fmt"

	"polyglot/internal/domain"
)

const (
	translationSystemPrompt = "You are a professional translator. Provide accurate translations preserving the tone and meaning."
	detectionSystemPrompt   = "You are a language detection system. Reply only with the ISO 639-1 language code."
)

// agentProfiles holds the fixed system-prompt templates selectable per
// chat request.
var agentProfiles = map[string]string{
	"general":    "You are a helpful AI assistant.",
	"translator": "You are a professional translator assistant.",
	"teacher":    "You are a language learning teacher.",
	"business":   "You are a business communication assistant.",
	"technical":  "You are a technical support assistant.",
}

// PromptBuilder assembles provider message sequences for each operation.
// Pure aside from reading the agent profiles and the language catalog.
type PromptBuilder struct {
	historyWindow int
}

func NewPromptBuilder(historyWindow int) *PromptBuilder {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &PromptBuilder{historyWindow: historyWindow}
}

// BuildChatPrompt produces the system turn for agentType (falling back to
// the general profile when unrecognized), the last historyWindow turns of
// history, and the new user message.
func (b *PromptBuilder) BuildChatPrompt(agentType, language string, history []domain.Turn, message string) []domain.Turn {
	profile, ok := agentProfiles[agentType]
	if !ok {
		profile = agentProfiles["general"]
	}
	system := fmt.Sprintf("%s Respond in %s language. Maintain natural conversation flow.", profile, language)

	if len(history) > b.historyWindow {
		history = history[len(history)-b.historyWindow:]
	}

	turns := make([]domain.Turn, 0, len(history)+2)
	turns = append(turns, domain.Turn{Role: domain.RoleSystem, Content: system})
	turns = append(turns, history...)
	turns = append(turns, domain.Turn{Role: domain.RoleUser, Content: message})
	return turns
}

// BuildTranslationPrompt validates both codes against the catalog before
// embedding their display names and the literal source text.
func (b *PromptBuilder) BuildTranslationPrompt(source, target, text string) ([]domain.Turn, error) {
	sourceName, err := domain.ResolveLanguage(source)
	if err != nil {
		return nil, fmt.Errorf("source language: %w", err)
	}
	targetName, err := domain.ResolveLanguage(target)
	if err != nil {
		return nil, fmt.Errorf("target language: %w", err)
	}

	user := fmt.Sprintf(`Translate the following text from %s to %s.
Only provide the translation, nothing else.

Text to translate: %s

Translation:`, sourceName, targetName, text)

	return []domain.Turn{
		{Role: domain.RoleSystem, Content: translationSystemPrompt},
		{Role: domain.RoleUser, Content: user},
	}, nil
}

// BuildDetectionPrompt instructs the provider to answer with exactly one
// ISO 639-1 code.
func (b *PromptBuilder) BuildDetectionPrompt(text string) []domain.Turn {
	user := fmt.Sprintf(`Detect the language of the following text. Reply with only the ISO 639-1 language code (e.g., 'en', 'es', 'fr').

Text: %s

Language code:`, text)

	return []domain.Turn{
		{Role: domain.RoleSystem, Content: detectionSystemPrompt},
		{Role: domain.RoleUser, Content: user},
	}
}
