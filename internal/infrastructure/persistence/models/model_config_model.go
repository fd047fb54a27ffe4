package models

import (
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
)

// ModelConfigModel is the GORM model for loaded model configs
type ModelConfigModel struct {
	ID                string    `gorm:"primaryKey;type:char(36)"`
	ModelKey          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ModelNameOrPath   string    `gorm:"type:varchar(255);not null"`
	AdapterNameOrPath string    `gorm:"type:varchar(255);not null"`
	Template          string    `gorm:"type:varchar(100);not null"`
	IsActive          bool      `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
	LastActivatedAt   *time.Time
}

// TableName specifies the table name for GORM
func (ModelConfigModel) TableName() string {
	return "model_configs"
}

// ToDomain converts GORM model to domain entity
func (m *ModelConfigModel) ToDomain() *modelreg.ModelConfig {
	return &modelreg.ModelConfig{
		ID:                m.ID,
		ModelKey:          m.ModelKey,
		ModelNameOrPath:   m.ModelNameOrPath,
		AdapterNameOrPath: m.AdapterNameOrPath,
		Template:          m.Template,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		LastActivatedAt:   m.LastActivatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *ModelConfigModel) FromDomain(c *modelreg.ModelConfig) {
	m.ID = c.ID
	m.ModelKey = c.ModelKey
	m.ModelNameOrPath = c.ModelNameOrPath
	m.AdapterNameOrPath = c.AdapterNameOrPath
	m.Template = c.Template
	m.IsActive = c.IsActive
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
	m.LastActivatedAt = c.LastActivatedAt
}
