package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence/models"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormPasswordResetTokenRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormPasswordResetTokenRepository creates a new GORM-based PasswordResetTokenRepository implementation
func NewGormPasswordResetTokenRepository(db *gorm.DB, logger logger.Logger) (users.PasswordResetTokenRepository, error) {
	return &gormPasswordResetTokenRepository{db: db, logger: logger}, nil
}

func (r *gormPasswordResetTokenRepository) Create(ctx context.Context, token *users.PasswordResetToken) error {
	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.PasswordResetTokenModel{}
	model.FromDomain(token)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}

	r.logger.Info("Created password reset token for user ", token.UserID)
	return nil
}

func (r *gormPasswordResetTokenRepository) GetByToken(ctx context.Context, token string) (*users.PasswordResetToken, error) {
	var model models.PasswordResetTokenModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to fetch password reset token: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormPasswordResetTokenRepository) DeleteByID(ctx context.Context, tokenID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", tokenID).Delete(&models.PasswordResetTokenModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete password reset token: %w", err)
	}
	return nil
}

func (r *gormPasswordResetTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PasswordResetTokenModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete password reset tokens: %w", err)
	}
	return nil
}

type gormActivationTokenRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormActivationTokenRepository creates a new GORM-based ActivationTokenRepository implementation
func NewGormActivationTokenRepository(db *gorm.DB, logger logger.Logger) (users.ActivationTokenRepository, error) {
	return &gormActivationTokenRepository{db: db, logger: logger}, nil
}

func (r *gormActivationTokenRepository) Create(ctx context.Context, token *users.ActivationToken) error {
	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ActivationTokenModel{}
	model.FromDomain(token)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create activation token: %w", err)
	}

	r.logger.Info("Created activation token for user ", token.UserID)
	return nil
}

func (r *gormActivationTokenRepository) GetByToken(ctx context.Context, token string) (*users.ActivationToken, error) {
	var model models.ActivationTokenModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to fetch activation token: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormActivationTokenRepository) DeleteByID(ctx context.Context, tokenID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", tokenID).Delete(&models.ActivationTokenModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete activation token: %w", err)
	}
	return nil
}

func (r *gormActivationTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ActivationTokenModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete activation tokens: %w", err)
	}
	return nil
}
