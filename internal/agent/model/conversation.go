package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type ConversationRepository interface {
	// AddMessage appends a message to the session transcript
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error

	// LoadHistory retrieves the full transcript for a session
	LoadHistory(ctx context.Context, sessionID string) (*ConversationHistory, error)

	// LoadRecent retrieves at most the last n transcript entries
	LoadRecent(ctx context.Context, sessionID string, n int) (*ConversationHistory, error)

	// ClearHistory removes the transcript for a session
	ClearHistory(ctx context.Context, sessionID string) error

	// GetMessageCount returns the number of messages in the transcript
	GetMessageCount(ctx context.Context, sessionID string) (int, error)
}

// ConversationHistory represents loaded transcript data with metadata.
type ConversationHistory struct {
	SessionID string
	Messages  []*schema.Message
}
