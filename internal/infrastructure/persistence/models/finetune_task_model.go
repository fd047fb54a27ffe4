package models

import (
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
)

// FinetuningTaskModel is the GORM model for fine-tuning status rows
type FinetuningTaskModel struct {
	ID              string  `gorm:"primaryKey;type:char(36)"`
	ProcessID       string  `gorm:"type:char(36);index;not null"`
	Status          string  `gorm:"type:varchar(20);not null"`
	ModelNameOrPath string  `gorm:"type:varchar(255);not null"`
	Dataset         string  `gorm:"type:varchar(255);not null"`
	Template        string  `gorm:"type:varchar(100);not null"`
	OutputDir       string  `gorm:"type:varchar(255);not null"`
	ErrorMessage    *string `gorm:"type:text"`

	FinetuningType            string  `gorm:"type:varchar(50);not null"`
	LoraTarget                string  `gorm:"type:varchar(50);not null"`
	PerDeviceTrainBatchSize   int     `gorm:"not null"`
	GradientAccumulationSteps int     `gorm:"not null"`
	LRSchedulerType           string  `gorm:"column:lr_scheduler_type;type:varchar(50);not null"`
	LoggingSteps              int     `gorm:"not null"`
	WarmupRatio               float64 `gorm:"not null"`
	SaveSteps                 int     `gorm:"not null"`
	LearningRate              float64 `gorm:"not null"`
	NumTrainEpochs            float64 `gorm:"not null"`
	MaxSamples                int     `gorm:"not null"`
	MaxGradNorm               float64 `gorm:"not null"`
	LoraplusLRRatio           float64 `gorm:"column:loraplus_lr_ratio;not null"`
	FP16                      bool    `gorm:"column:fp16;not null"`
	ReportTo                  string  `gorm:"type:varchar(50);not null"`

	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
	CompletedAt *time.Time
}

// TableName specifies the table name for GORM
func (FinetuningTaskModel) TableName() string {
	return "finetuning_tasks"
}

// ToDomain converts GORM model to domain entity
func (m *FinetuningTaskModel) ToDomain() *finetune.FinetuningTask {
	return &finetune.FinetuningTask{
		ID:        m.ID,
		ProcessID: m.ProcessID,
		Status:    m.Status,
		TaskSpec: finetune.TaskSpec{
			ModelNameOrPath: m.ModelNameOrPath,
			Dataset:         m.Dataset,
			Template:        m.Template,
			OutputDir:       m.OutputDir,
			TrainingParams: finetune.TrainingParams{
				FinetuningType:            m.FinetuningType,
				LoraTarget:                m.LoraTarget,
				PerDeviceTrainBatchSize:   m.PerDeviceTrainBatchSize,
				GradientAccumulationSteps: m.GradientAccumulationSteps,
				LRSchedulerType:           m.LRSchedulerType,
				LoggingSteps:              m.LoggingSteps,
				WarmupRatio:               m.WarmupRatio,
				SaveSteps:                 m.SaveSteps,
				LearningRate:              m.LearningRate,
				NumTrainEpochs:            m.NumTrainEpochs,
				MaxSamples:                m.MaxSamples,
				MaxGradNorm:               m.MaxGradNorm,
				LoraplusLRRatio:           m.LoraplusLRRatio,
				FP16:                      m.FP16,
				ReportTo:                  m.ReportTo,
			},
		},
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		CompletedAt:  m.CompletedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *FinetuningTaskModel) FromDomain(t *finetune.FinetuningTask) {
	m.ID = t.ID
	m.ProcessID = t.ProcessID
	m.Status = t.Status
	m.ModelNameOrPath = t.ModelNameOrPath
	m.Dataset = t.Dataset
	m.Template = t.Template
	m.OutputDir = t.OutputDir
	m.ErrorMessage = t.ErrorMessage

	p := t.TrainingParams
	m.FinetuningType = p.FinetuningType
	m.LoraTarget = p.LoraTarget
	m.PerDeviceTrainBatchSize = p.PerDeviceTrainBatchSize
	m.GradientAccumulationSteps = p.GradientAccumulationSteps
	m.LRSchedulerType = p.LRSchedulerType
	m.LoggingSteps = p.LoggingSteps
	m.WarmupRatio = p.WarmupRatio
	m.SaveSteps = p.SaveSteps
	m.LearningRate = p.LearningRate
	m.NumTrainEpochs = p.NumTrainEpochs
	m.MaxSamples = p.MaxSamples
	m.MaxGradNorm = p.MaxGradNorm
	m.LoraplusLRRatio = p.LoraplusLRRatio
	m.FP16 = p.FP16
	m.ReportTo = p.ReportTo

	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
	m.CompletedAt = t.CompletedAt
}
