package conversations

import (
	"context"
)

// ConversationService manages conversations and their messages
type ConversationService interface {
	// Create starts a conversation. An empty title becomes DefaultTitle.
	Create(ctx context.Context, title string, userID *string) (*Conversation, error)

	// GetByID returns the conversation with its messages or ErrNotFound
	GetByID(ctx context.Context, conversationID string) (*Conversation, error)

	// List returns conversations, newest activity first, optionally filtered by owner
	List(ctx context.Context, userID string) ([]*Conversation, error)

	// AddMessage appends a message and bumps updated_at
	AddMessage(ctx context.Context, conversationID, role, content string) (*Message, error)

	// GetMessages returns the role/content pairs in creation order
	GetMessages(ctx context.Context, conversationID string) ([]Turn, error)

	// SetSystemMessage replaces the system prompt
	SetSystemMessage(ctx context.Context, conversationID, content string) error

	// Clear removes every message and bumps updated_at
	Clear(ctx context.Context, conversationID string) error

	// DeleteByID removes the conversation and its messages
	DeleteByID(ctx context.Context, conversationID string) error
}

// ConversationRepository persists conversations and messages
type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	GetByID(ctx context.Context, conversationID string) (*Conversation, error)
	List(ctx context.Context, userID string) ([]*Conversation, error)
	Update(ctx context.Context, conversation *Conversation) error
	DeleteByID(ctx context.Context, conversationID string) error

	// AddMessage inserts the message and sets the parent's updated_at in one transaction
	AddMessage(ctx context.Context, message *Message) error
	// ClearMessages deletes every message of the conversation and sets its updated_at
	ClearMessages(ctx context.Context, conversationID string) error
}
