package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence/models"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormModelConfigRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormModelConfigRepository creates a new GORM-based ModelConfigRepository implementation
func NewGormModelConfigRepository(db *gorm.DB, logger logger.Logger) (modelreg.ModelConfigRepository, error) {
	return &gormModelConfigRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormModelConfigRepository) Create(ctx context.Context, config *modelreg.ModelConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ModelConfigModel{}
	model.FromDomain(config)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create model config: %w", err)
	}
	config.CreatedAt, config.UpdatedAt = model.CreatedAt, model.UpdatedAt

	r.logger.Info("Created model config with id ", config.ID)
	return nil
}

func (r *gormModelConfigRepository) first(ctx context.Context, notFound error, query string, arg string) (*modelreg.ModelConfig, error) {
	var model models.ModelConfigModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", notFound, arg)
		}
		return nil, fmt.Errorf("failed to fetch model config: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormModelConfigRepository) GetByID(ctx context.Context, modelID string) (*modelreg.ModelConfig, error) {
	return r.first(ctx, modelreg.ErrConfigNotFound, "id = ?", modelID)
}

func (r *gormModelConfigRepository) GetByModelKey(ctx context.Context, modelKey string) (*modelreg.ModelConfig, error) {
	return r.first(ctx, modelreg.ErrConfigNotFound, "model_key = ?", modelKey)
}

func (r *gormModelConfigRepository) List(ctx context.Context) ([]*modelreg.ModelConfig, error) {
	var modelList []*models.ModelConfigModel
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch model configs: %w", err)
	}

	domainList := make([]*modelreg.ModelConfig, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormModelConfigRepository) Update(ctx context.Context, config *modelreg.ModelConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ModelConfigModel{}
	model.FromDomain(config)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update model config: %w", err)
	}

	r.logger.Info("Updated model config with id ", config.ID)
	return nil
}

func (r *gormModelConfigRepository) DeleteByID(ctx context.Context, modelID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", modelID).Delete(&models.ModelConfigModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete model config: %w", err)
	}

	r.logger.Info("Deleted model config with id ", modelID)
	return nil
}

func (r *gormModelConfigRepository) ResetActive(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.ModelConfigModel{}).Where("is_active = ?", true).Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reset active model configs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
