//go:build unit
// +build unit

package models

import (
	"testing"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserModel_OptionalNames(t *testing.T) {
	user := &users.User{
		ID:           uuid.NewString(),
		Username:     "teller",
		Email:        "teller@bank.vn",
		PasswordHash: "hash",
		Status:       users.StatusInactive,
	}

	var m UserModel
	m.FromDomain(user)
	assert.Nil(t, m.FirstName)
	assert.Nil(t, m.LastName)
	assert.Equal(t, users.StatusInactive, m.IsActive)

	first := "Lan"
	m.FirstName = &first
	back := m.ToDomain()
	assert.Equal(t, "Lan", back.FirstName)
	assert.Empty(t, back.LastName)
	assert.Equal(t, "hash", back.PasswordHash)
}

func TestConversationModel_ToDomainKeepsMessageOrder(t *testing.T) {
	now := time.Now()
	m := &ConversationModel{
		ID:        uuid.NewString(),
		Title:     conversations.DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages: []MessageModel{
			{ID: "1", Role: "user", Content: "hỏi", CreatedAt: now},
			{ID: "2", Role: "assistant", Content: "đáp", CreatedAt: now.Add(time.Second)},
		},
	}

	c := m.ToDomain()
	assert.Len(t, c.Messages, 2)
	assert.Equal(t, "user", c.Messages[0].Role)
	assert.Equal(t, "assistant", c.Messages[1].Role)
	assert.Nil(t, c.SystemMessage)
}

func TestFinetuningTaskModel_ZeroValuesSurvive(t *testing.T) {
	spec := finetune.NewTaskSpec()
	spec.ModelNameOrPath = "base"
	spec.Dataset = "data.csv"
	spec.Template = "llama3"
	spec.OutputDir = "out"
	spec.WarmupRatio = 0
	spec.FP16 = false
	task := finetune.NewTask(spec, time.Now())

	var m FinetuningTaskModel
	m.FromDomain(task)
	back := m.ToDomain()

	assert.Equal(t, task.TaskSpec, back.TaskSpec)
	assert.Equal(t, task.ProcessID, back.ProcessID)
	assert.Zero(t, back.WarmupRatio)
	assert.False(t, back.FP16)
}
