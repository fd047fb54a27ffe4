package app

import (
	"context"
	"strings"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"

	"github.com/google/uuid"
)

// conversationService implements the ConversationService interface
type conversationService struct {
	repo   conversations.ConversationRepository
	logger logger.Logger
}

// NewConversationService creates a new conversationService instance
func NewConversationService(repo conversations.ConversationRepository, logger logger.Logger) (conversations.ConversationService, error) {
	return &conversationService{
		repo:   repo,
		logger: logger,
	}, nil
}

func (s *conversationService) Create(ctx context.Context, title string, userID *string) (*conversations.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = conversations.DefaultTitle
	}
	if userID != nil && *userID == "" {
		userID = nil
	}

	now := time.Now().UTC()
	conversation := &conversations.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Messages:  []*conversations.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *conversationService) GetByID(ctx context.Context, conversationID string) (*conversations.Conversation, error) {
	return s.repo.GetByID(ctx, conversationID)
}

func (s *conversationService) List(ctx context.Context, userID string) ([]*conversations.Conversation, error) {
	return s.repo.List(ctx, userID)
}

func (s *conversationService) AddMessage(ctx context.Context, conversationID, role, content string) (*conversations.Message, error) {
	if !validators.IsChatRole(role) {
		return nil, conversations.ErrInvalidRole
	}

	message := &conversations.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.AddMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *conversationService) GetMessages(ctx context.Context, conversationID string) ([]conversations.Turn, error) {
	conversation, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return conversation.Turns(), nil
}

func (s *conversationService) SetSystemMessage(ctx context.Context, conversationID, content string) error {
	conversation, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}

	if content == "" {
		conversation.SystemMessage = nil
	} else {
		conversation.SystemMessage = &content
	}
	conversation.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, conversation)
}

func (s *conversationService) Clear(ctx context.Context, conversationID string) error {
	return s.repo.ClearMessages(ctx, conversationID)
}

func (s *conversationService) DeleteByID(ctx context.Context, conversationID string) error {
	if err := s.repo.DeleteByID(ctx, conversationID); err != nil {
		return err
	}
	s.logger.Info("Deleted conversation ", conversationID)
	return nil
}
