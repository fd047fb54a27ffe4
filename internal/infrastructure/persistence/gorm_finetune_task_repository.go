package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence/models"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormFinetuneTaskRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormFinetuneTaskRepository creates a new GORM-based TaskRepository implementation
func NewGormFinetuneTaskRepository(db *gorm.DB, logger logger.Logger) (finetune.TaskRepository, error) {
	return &gormFinetuneTaskRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormFinetuneTaskRepository) Create(ctx context.Context, task *finetune.FinetuningTask) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.FinetuningTaskModel{}
	model.FromDomain(task)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create fine-tuning task: %w", err)
	}

	r.logger.Info("Recorded fine-tuning status ", task.Status, " for process ", task.ProcessID)
	return nil
}

func (r *gormFinetuneTaskRepository) GetByID(ctx context.Context, taskID string) (*finetune.FinetuningTask, error) {
	var model models.FinetuningTaskModel
	if err := r.db.WithContext(ctx).Where("id = ?", taskID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", finetune.ErrTaskNotFound, taskID)
		}
		return nil, fmt.Errorf("failed to fetch fine-tuning task: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormFinetuneTaskRepository) GetLatestByProcessID(ctx context.Context, processID string) (*finetune.FinetuningTask, error) {
	var model models.FinetuningTaskModel
	err := r.db.WithContext(ctx).
		Where("process_id = ?", processID).
		Order("created_at desc").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", finetune.ErrTaskNotFound, processID)
		}
		return nil, fmt.Errorf("failed to fetch fine-tuning status: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormFinetuneTaskRepository) ListLatest(ctx context.Context) ([]*finetune.FinetuningTask, error) {
	var modelList []*models.FinetuningTaskModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch fine-tuning tasks: %w", err)
	}

	seen := make(map[string]struct{}, len(modelList))
	domainList := make([]*finetune.FinetuningTask, 0, len(modelList))
	for _, model := range modelList {
		if _, ok := seen[model.ProcessID]; ok {
			continue
		}
		seen[model.ProcessID] = struct{}{}
		domainList = append(domainList, model.ToDomain())
	}
	return domainList, nil
}
