package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence/models"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormUserRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormUserRepository creates a new GORM-based UserRepository implementation
func NewGormUserRepository(db *gorm.DB, logger logger.Logger) (users.UserRepository, error) {
	return &gormUserRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormUserRepository) Create(ctx context.Context, user *users.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.UserModel{}
	model.FromDomain(user)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt, user.UpdatedAt = model.CreatedAt, model.UpdatedAt

	r.logger.Info("Created user with id ", user.ID)
	return nil
}

func (r *gormUserRepository) first(ctx context.Context, query string, args ...interface{}) (*users.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, userID string) (*users.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

func (r *gormUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*users.User, error) {
	return r.first(ctx, "username = ? OR LOWER(email) = ?", identifier, strings.ToLower(identifier))
}

func (r *gormUserRepository) List(ctx context.Context) ([]*users.User, error) {
	var modelList []*models.UserModel
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	domainList := make([]*users.User, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *users.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.UserModel{}
	model.FromDomain(user)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	user.UpdatedAt = model.UpdatedAt

	r.logger.Info("Updated user with id ", user.ID)
	return nil
}
