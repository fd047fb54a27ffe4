package models

import (
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
)

// ConversationModel is the GORM model for conversations
type ConversationModel struct {
	ID            string         `gorm:"primaryKey;type:char(36)"`
	UserID        *string        `gorm:"type:char(36);index"`
	Title         string         `gorm:"type:varchar(255);not null"`
	SystemMessage *string        `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null;index"`
	Messages      []MessageModel `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (ConversationModel) TableName() string {
	return "conversations"
}

// ToDomain converts GORM model to domain entity, including loaded messages
func (m *ConversationModel) ToDomain() *conversations.Conversation {
	c := &conversations.Conversation{
		ID:            m.ID,
		UserID:        m.UserID,
		Title:         m.Title,
		SystemMessage: m.SystemMessage,
		Messages:      make([]*conversations.Message, 0, len(m.Messages)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for i := range m.Messages {
		c.Messages = append(c.Messages, m.Messages[i].ToDomain())
	}
	return c
}

// FromDomain converts domain entity to GORM model. Messages are persisted separately.
func (m *ConversationModel) FromDomain(c *conversations.Conversation) {
	m.ID = c.ID
	m.UserID = c.UserID
	m.Title = c.Title
	m.SystemMessage = c.SystemMessage
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// MessageModel is the GORM model for conversation messages
type MessageModel struct {
	ID             string    `gorm:"primaryKey;type:char(36)"`
	ConversationID string    `gorm:"type:char(36);index;not null"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts GORM model to domain entity
func (m *MessageModel) ToDomain() *conversations.Message {
	return &conversations.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *MessageModel) FromDomain(msg *conversations.Message) {
	m.ID = msg.ID
	m.ConversationID = msg.ConversationID
	m.Role = msg.Role
	m.Content = msg.Content
	m.CreatedAt = msg.CreatedAt
}
