package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/medicore-agent-poc/server/internal/agent/model"
)

// MessagesManager mediates between graph nodes and the transcript
// repository: it persists turns and hands out the bounded history window the
// risk extractor and the response model both work from.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	historyWindow    int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		historyWindow:    config.HistoryWindow,
	}
}

// BeginTurn persists the user's message and returns the trailing transcript
// window as it stood before this turn, for feature extraction and response
// context. The window excludes the message just saved so the current text is
// never double-counted by the extractor.
func (cm *MessagesManager) BeginTurn(ctx context.Context, sessionID string, query string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadRecent(ctx, sessionID, cm.historyWindow)
	if err != nil {
		return nil, err
	}

	userMsg := schema.UserMessage(query)
	if err := cm.conversationRepo.AddMessage(ctx, sessionID, userMsg); err != nil {
		return nil, err
	}

	return history.Messages, nil
}

// BuildResponseContext assembles the model input: system prompt, trailing
// history window, then the current question.
func (cm *MessagesManager) BuildResponseContext(systemPrompt string, history []*schema.Message, query string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, history...)
	messages = append(messages, schema.UserMessage(query))
	return messages
}

// SaveResponse appends the final merged assistant answer to the transcript.
func (cm *MessagesManager) SaveResponse(ctx context.Context, sessionID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, sessionID, assistantMsg)
}
