//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinetuneTaskSqliteRepository_LatestByProcess(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	pending := CreateTestTask(t, "run_a")
	running := pending.Next(finetune.StatusRunning, "", pending.CreatedAt.Add(time.Second))
	completed := running.Next(finetune.StatusCompleted, "", pending.CreatedAt.Add(2*time.Second))
	for _, row := range []*finetune.FinetuningTask{pending, running, completed} {
		require.NoError(t, ctx.TaskRepo.Create(context.Background(), row))
	}

	latest, err := ctx.TaskRepo.GetLatestByProcessID(context.Background(), pending.ProcessID)
	require.NoError(t, err)
	assert.Equal(t, completed.ID, latest.ID)
	assert.Equal(t, finetune.StatusCompleted, latest.Status)
	require.NotNil(t, latest.CompletedAt)

	first, err := ctx.TaskRepo.GetByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, finetune.StatusPending, first.Status)
}

func TestFinetuneTaskSqliteRepository_ListLatest(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	a := CreateTestTask(t, "run_a")
	aFailed := a.Next(finetune.StatusFailed, "boom", a.CreatedAt.Add(time.Second))
	b := CreateTestTask(t, "run_b")
	b.CreatedAt = a.CreatedAt.Add(2 * time.Second)
	for _, row := range []*finetune.FinetuningTask{a, aFailed, b} {
		require.NoError(t, ctx.TaskRepo.Create(context.Background(), row))
	}

	tasks, err := ctx.TaskRepo.ListLatest(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, b.ID, tasks[0].ID)
	assert.Equal(t, aFailed.ID, tasks[1].ID)
	require.NotNil(t, tasks[1].ErrorMessage)
	assert.Equal(t, "boom", *tasks[1].ErrorMessage)
}

func TestFinetuneTaskSqliteRepository_UnknownProcess(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, err := ctx.TaskRepo.GetLatestByProcessID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, finetune.ErrTaskNotFound)
}
