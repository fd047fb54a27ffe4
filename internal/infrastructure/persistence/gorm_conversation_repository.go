package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence/models"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"gorm.io/gorm"
)

// messageTick is the smallest created_at step kept by every supported driver
const messageTick = time.Millisecond

type gormConversationRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormConversationRepository creates a new GORM-based ConversationRepository implementation
func NewGormConversationRepository(db *gorm.DB, logger logger.Logger) (conversations.ConversationRepository, error) {
	return &gormConversationRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormConversationRepository) Create(ctx context.Context, conversation *conversations.Conversation) error {
	if err := conversation.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ConversationModel{}
	model.FromDomain(conversation)

	if err := r.db.WithContext(ctx).Omit("Messages").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	conversation.CreatedAt, conversation.UpdatedAt = model.CreatedAt, model.UpdatedAt

	r.logger.Info("Created conversation with id ", conversation.ID)
	return nil
}

func (r *gormConversationRepository) GetByID(ctx context.Context, conversationID string) (*conversations.Conversation, error) {
	var model models.ConversationModel
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Where("id = ?", conversationID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", conversations.ErrNotFound, conversationID)
		}
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormConversationRepository) List(ctx context.Context, userID string) ([]*conversations.Conversation, error) {
	var modelList []*models.ConversationModel
	query := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Order("updated_at desc")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	domainList := make([]*conversations.Conversation, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormConversationRepository) Update(ctx context.Context, conversation *conversations.Conversation) error {
	if err := conversation.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ConversationModel{}
	model.FromDomain(conversation)

	db := r.db.WithContext(ctx)
	result := db.Model(model).Select("title", "system_message", "user_id", "updated_at").Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update conversation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := r.ensureExists(db, conversation.ID); err != nil {
			return err
		}
	}

	r.logger.Info("Updated conversation with id ", conversation.ID)
	return nil
}

func (r *gormConversationRepository) DeleteByID(ctx context.Context, conversationID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&models.MessageModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}

		result := tx.Where("id = ?", conversationID).Delete(&models.ConversationModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete conversation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", conversations.ErrNotFound, conversationID)
		}

		r.logger.Info("Deleted conversation with id ", conversationID)
		return nil
	})
}

func (r *gormConversationRepository) AddMessage(ctx context.Context, message *conversations.Message) error {
	if err := message.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.touch(tx, message.ConversationID, message.CreatedAt); err != nil {
			return err
		}

		// keep created_at strictly increasing so ordering by it is creation order
		var last models.MessageModel
		err := tx.Where("conversation_id = ?", message.ConversationID).Order("created_at desc").First(&last).Error
		if err == nil && !message.CreatedAt.After(last.CreatedAt) {
			message.CreatedAt = last.CreatedAt.Add(messageTick)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to fetch last message: %w", err)
		}

		model := &models.MessageModel{}
		model.FromDomain(message)
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		return nil
	})
}

func (r *gormConversationRepository) ClearMessages(ctx context.Context, conversationID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.touch(tx, conversationID, time.Now().UTC()); err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&models.MessageModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear messages: %w", err)
		}

		r.logger.Info("Cleared messages of conversation ", conversationID)
		return nil
	})
}

// touch sets updated_at and reports ErrNotFound for unknown conversations
func (r *gormConversationRepository) touch(tx *gorm.DB, conversationID string, at time.Time) error {
	result := tx.Model(&models.ConversationModel{}).Where("id = ?", conversationID).Update("updated_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to update conversation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(tx, conversationID)
	}
	return nil
}

// ensureExists reports ErrNotFound for unknown conversations.
// MySQL counts changed rows, not matched rows, in RowsAffected.
func (r *gormConversationRepository) ensureExists(tx *gorm.DB, conversationID string) error {
	var count int64
	if err := tx.Model(&models.ConversationModel{}).Where("id = ?", conversationID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up conversation: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", conversations.ErrNotFound, conversationID)
	}
	return nil
}
