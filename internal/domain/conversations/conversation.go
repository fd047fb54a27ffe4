// Package conversations defines chat conversations, their messages and the related contracts.
package conversations

import (
	"errors"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"
)

// DefaultTitle is used when a conversation is created without a title
const DefaultTitle = "New Conversation"

var (
	// ErrNotFound is returned when the conversation does not exist
	ErrNotFound = errors.New("Conversation not found")
	// ErrInvalidRole is returned for message roles other than user, assistant or system
	ErrInvalidRole = errors.New("Invalid role. Must be 'user', 'assistant', or 'system'")
)

// Conversation is a titled thread of chat messages
type Conversation struct {
	ID            string  `validate:"required,uuid4"`
	UserID        *string `validate:"omitempty"`
	Title         string  `validate:"required,max=255"`
	SystemMessage *string
	Messages      []*Message `validate:"-"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate for validating Conversation struct
func (c *Conversation) Validate() error {
	return validators.Struct(c)
}

// Message is one turn of a conversation
type Message struct {
	ID             string `validate:"required,uuid4"`
	ConversationID string `validate:"required"`
	Role           string `validate:"required,chatrole"`
	Content        string `validate:"required"`
	CreatedAt      time.Time
}

// Validate for validating Message struct
func (m *Message) Validate() error {
	return validators.Struct(m)
}

// Turn is the role/content pair sent to a chat model
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turns returns the messages as role/content pairs in creation order
func (c *Conversation) Turns() []Turn {
	turns := make([]Turn, 0, len(c.Messages))
	for _, m := range c.Messages {
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}
