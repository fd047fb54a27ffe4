//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB               *gorm.DB
	UserRepo         users.UserRepository
	ResetTokenRepo   users.PasswordResetTokenRepository
	ActivationRepo   users.ActivationTokenRepository
	ConversationRepo conversations.ConversationRepository
	TaskRepo         finetune.TaskRepository
	ModelConfigRepo  modelreg.ModelConfigRepository
}

// SetupTestDB initializes a migrated test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanupFunc := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	require.NoError(t, Migrate(db), "Failed to migrate schema")

	log := testutil.SetupTestLogger(t)

	userRepo, err := NewGormUserRepository(db, log)
	require.NoError(t, err)
	resetRepo, err := NewGormPasswordResetTokenRepository(db, log)
	require.NoError(t, err)
	activationRepo, err := NewGormActivationTokenRepository(db, log)
	require.NoError(t, err)
	conversationRepo, err := NewGormConversationRepository(db, log)
	require.NoError(t, err)
	taskRepo, err := NewGormFinetuneTaskRepository(db, log)
	require.NoError(t, err)
	modelConfigRepo, err := NewGormModelConfigRepository(db, log)
	require.NoError(t, err)

	return &TestContext{
		DB:               db,
		UserRepo:         userRepo,
		ResetTokenRepo:   resetRepo,
		ActivationRepo:   activationRepo,
		ConversationRepo: conversationRepo,
		TaskRepo:         taskRepo,
		ModelConfigRepo:  modelConfigRepo,
	}
}

// CreateTestUser returns an active user with a unique username and email
func CreateTestUser(t *testing.T) *users.User {
	t.Helper()

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	now := time.Now().UTC()
	return &users.User{
		ID:           uuid.NewString(),
		Username:     "user_" + suffix,
		Email:        "user_" + suffix + "@bank.vn",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Status:       users.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateTestToken returns a one-time token for userID expiring after ttl
func CreateTestToken(t *testing.T, userID string, ttl time.Duration) users.OneTimeToken {
	t.Helper()

	now := time.Now().UTC()
	return users.OneTimeToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     strings.Repeat(strings.ReplaceAll(uuid.NewString(), "-", ""), 2),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// CreateTestConversation returns a conversation with the default title
func CreateTestConversation(t *testing.T, userID *string) *conversations.Conversation {
	t.Helper()

	now := time.Now().UTC()
	return &conversations.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     conversations.DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestTask returns a pending fine-tuning task
func CreateTestTask(t *testing.T, outputDir string) *finetune.FinetuningTask {
	t.Helper()

	spec := finetune.NewTaskSpec()
	spec.ModelNameOrPath = finetune.DefaultBaseModel
	spec.Dataset = "vietnamese_qa"
	spec.Template = finetune.DefaultTemplate
	spec.OutputDir = outputDir
	return finetune.NewTask(spec, time.Now().UTC())
}

// CreateTestModelConfig returns an inactive model config for adapter
func CreateTestModelConfig(t *testing.T, adapter string) *modelreg.ModelConfig {
	t.Helper()

	return &modelreg.ModelConfig{
		ID:                uuid.NewString(),
		ModelKey:          modelreg.ModelKey(finetune.DefaultBaseModel, adapter, finetune.DefaultTemplate),
		ModelNameOrPath:   finetune.DefaultBaseModel,
		AdapterNameOrPath: adapter,
		Template:          finetune.DefaultTemplate,
	}
}
