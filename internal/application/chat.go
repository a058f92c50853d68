package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"polyglot/internal/domain"
)

const (
	chatTemperature float32 = 0.7
	chatMaxTokens           = 1500
)

// ChatService runs multi-turn conversations with the configured agent
// profiles, keeping per-conversation history in the store.
type ChatService struct {
	store     *ConversationStore
	prompts   *PromptBuilder
	completer Completer
	logger    *slog.Logger
}

func NewChatService(store *ConversationStore, prompts *PromptBuilder, completer Completer, logger *slog.Logger) *ChatService {
	return &ChatService{
		store:     store,
		prompts:   prompts,
		completer: completer,
		logger:    logger,
	}
}

// Chat sends message to the provider with the conversation's recent
// history for context and returns the assistant reply plus the
// conversation id (generated when the caller supplied none). The user
// and assistant turns are appended together under the conversation's
// lock, so concurrent chats on one id cannot interleave.
func (s *ChatService) Chat(ctx context.Context, message, language, conversationID, agentType string) (string, string, error) {
	id, _ := s.store.CreateOrGet(conversationID)

	var reply string
	err := s.store.Update(id, func(history []domain.Turn) ([]domain.Turn, error) {
		turns := s.prompts.BuildChatPrompt(agentType, language, history, message)

		text, err := s.completer.Complete(ctx, turns, chatTemperature, chatMaxTokens)
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		reply = strings.TrimSpace(text)

		return []domain.Turn{
			{Role: domain.RoleUser, Content: message},
			{Role: domain.RoleAssistant, Content: reply},
		}, nil
	})
	if err != nil {
		return "", "", err
	}

	s.logger.Debug("chat turn stored", "conversation_id", id, "agent_type", agentType)

	return reply, id, nil
}

// History returns the full stored history for a conversation, oldest
// first. Unknown ids yield an empty history.
func (s *ChatService) History(conversationID string) []domain.Turn {
	return s.store.RecentHistory(conversationID, 0)
}

// Clear removes a conversation and reports whether it existed.
func (s *ChatService) Clear(conversationID string) bool {
	return s.store.Clear(conversationID)
}

// Count returns the number of live conversations.
func (s *ChatService) Count() int {
	return s.store.Len()
}
