//go:build integration
// +build integration

package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trainModel runs a fine-tuning process to completion and returns its pending row
func trainModel(t *testing.T, services *TestServices, outputDir string) *finetune.FinetuningTask {
	t.Helper()

	pending, err := services.FinetuneService.Start(context.Background(), newSpec("identity", outputDir))
	require.NoError(t, err)
	waitForStatus(t, services, pending.ProcessID, finetune.StatusCompleted)
	return pending
}

// loadModel registers the adapter of task and returns its config ID
func loadModel(t *testing.T, services *TestServices, task *finetune.FinetuningTask) string {
	t.Helper()

	ctx := context.Background()
	_, err := services.ModelRegistry.Load(ctx, task.ID)
	require.NoError(t, err)

	key := modelreg.ModelKey(task.ModelNameOrPath, filepath.Join(services.OutputRoot, task.OutputDir), task.Template)
	cfg, err := services.DBContext.ModelConfigRepo.GetByModelKey(ctx, key)
	require.NoError(t, err)
	return cfg.ID
}

func TestModelRegistry_Load(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	task := trainModel(t, services, "bank_lora")

	msg, err := services.ModelRegistry.Load(ctx, task.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "Model registered successfully")

	msg, err = services.ModelRegistry.Load(ctx, task.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "Model already loaded")

	loaded, err := services.ModelRegistry.Loaded(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.NotEmpty(t, loaded[0].ID)
	assert.False(t, loaded[0].IsActive)
	assert.Equal(t, filepath.Join(services.OutputRoot, "bank_lora"), loaded[0].AdapterNameOrPath)
}

func TestModelRegistry_Load_Rejections(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	_, err := services.ModelRegistry.Load(ctx, "f47ac10b-58cc-4372-a567-0e02b2c3d479")
	assert.ErrorIs(t, err, modelreg.ErrTaskNotFound)

	pending := persistence.CreateTestTask(t, "never_trained")
	require.NoError(t, services.DBContext.TaskRepo.Create(ctx, pending))
	_, err = services.ModelRegistry.Load(ctx, pending.ID)
	assert.ErrorIs(t, err, modelreg.ErrTaskNotCompleted)

	require.NoError(t, services.DBContext.TaskRepo.Create(ctx, pending.Next(finetune.StatusCompleted, "", pending.CreatedAt.Add(time.Millisecond))))
	_, err = services.ModelRegistry.Load(ctx, pending.ID)
	assert.ErrorIs(t, err, modelreg.ErrAdapterMissing)
}

func TestModelRegistry_ActivationLifecycle(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	firstID := loadModel(t, services, trainModel(t, services, "first_lora"))
	secondID := loadModel(t, services, trainModel(t, services, "second_lora"))

	_, err := services.ModelRegistry.Active(ctx)
	assert.ErrorIs(t, err, modelreg.ErrNoActiveModel)
	_, err = services.ModelRegistry.Chat(ctx, []modelreg.ChatMessage{{Role: "user", Content: "hi"}}, "", "")
	assert.ErrorIs(t, err, modelreg.ErrNoChatModel)
	_, err = services.ModelRegistry.Choose(ctx, firstID)
	assert.ErrorIs(t, err, modelreg.ErrModelNotActive)

	msg, err := services.ModelRegistry.SetActive(ctx, firstID, true)
	require.NoError(t, err)
	assert.Contains(t, msg, "Model activated successfully")
	msg, err = services.ModelRegistry.SetActive(ctx, firstID, true)
	require.NoError(t, err)
	assert.Contains(t, msg, "Model already active")
	_, err = services.ModelRegistry.SetActive(ctx, secondID, true)
	require.NoError(t, err)

	require.Len(t, services.ChatFactory.created, 2)
	assert.True(t, services.ChatFactory.created[0].LowCPUMemUsage)

	active, err := services.ModelRegistry.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, firstID, active.ID)

	actives, err := services.ModelRegistry.ActiveModels(ctx)
	require.NoError(t, err)
	require.Len(t, actives, 2)
	assert.True(t, actives[0].IsPrimary)
	assert.False(t, actives[1].IsPrimary)

	args, err := services.ModelRegistry.Choose(ctx, secondID)
	require.NoError(t, err)
	assert.True(t, args.LowCPUMemUsage)
	assert.Equal(t, modelreg.FinetuningTypeLoRA, args.FinetuningType)
	assert.Equal(t, modelreg.InferBackendHuggingface, args.InferBackend)

	_, err = services.ModelRegistry.Unload(ctx, firstID)
	assert.ErrorIs(t, err, modelreg.ErrModelActive)

	msg, err = services.ModelRegistry.SetActive(ctx, firstID, false)
	require.NoError(t, err)
	assert.Contains(t, msg, "Model deactivated successfully")
	msg, err = services.ModelRegistry.SetActive(ctx, firstID, false)
	require.NoError(t, err)
	assert.Contains(t, msg, "Model already inactive")

	active, err = services.ModelRegistry.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, secondID, active.ID)

	msg, err = services.ModelRegistry.Unload(ctx, firstID)
	require.NoError(t, err)
	assert.Contains(t, msg, "Model unloaded successfully")
	_, err = services.ModelRegistry.Unload(ctx, firstID)
	assert.ErrorIs(t, err, modelreg.ErrConfigNotFound)
}

func TestModelRegistry_Chat(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	modelID := loadModel(t, services, trainModel(t, services, "chat_lora"))
	_, err := services.ModelRegistry.SetActive(ctx, modelID, true)
	require.NoError(t, err)

	messages := []modelreg.ChatMessage{{Role: "user", Content: "Lãi suất bao nhiêu?"}}
	resp, err := services.ModelRegistry.Chat(ctx, messages, "", "")
	require.NoError(t, err)
	assert.Equal(t, "echo: Lãi suất bao nhiêu?", resp.Text)
	assert.Equal(t, resp.Text, resp.GeneratedText)

	resp, err = services.ModelRegistry.Chat(ctx, messages, "", modelID)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Usage.TotalTokens)

	var chunks []string
	resp, err = services.ModelRegistry.StreamChat(ctx, modelID, messages, func(_ context.Context, chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"echo: ", "Lãi suất bao nhiêu?"}, chunks)
	assert.Equal(t, "echo: Lãi suất bao nhiêu?", resp.Text)
}

func TestModelRegistry_Reconcile(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	modelID := loadModel(t, services, trainModel(t, services, "stale_lora"))
	_, err := services.ModelRegistry.SetActive(ctx, modelID, true)
	require.NoError(t, err)

	db := services.DBContext
	restarted, err := NewModelRegistry(db.ModelConfigRepo, db.TaskRepo, services.ChatFactory, services.OutputRoot, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, restarted.Reconcile(ctx))

	cfg, err := services.DBContext.ModelConfigRepo.GetByID(ctx, modelID)
	require.NoError(t, err)
	assert.False(t, cfg.IsActive)

	loaded, err := restarted.Loaded(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.False(t, loaded[0].IsActive)

	_, err = restarted.SetActive(ctx, modelID, true)
	assert.NoError(t, err)
}
