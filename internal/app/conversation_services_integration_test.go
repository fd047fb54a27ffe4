//go:build integration
// +build integration

package app

import (
	"context"
	"testing"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationService_Lifecycle(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	conversation, err := services.ConversationService.Create(ctx, "  ", nil)
	require.NoError(t, err)
	assert.Equal(t, conversations.DefaultTitle, conversation.Title)

	_, err = services.ConversationService.AddMessage(ctx, conversation.ID, "user", "Mở thẻ tín dụng cần giấy tờ gì?")
	require.NoError(t, err)
	_, err = services.ConversationService.AddMessage(ctx, conversation.ID, "assistant", "Bạn cần CMND và sao kê lương.")
	require.NoError(t, err)

	turns, err := services.ConversationService.GetMessages(ctx, conversation.ID)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "assistant", turns[1].Role)

	require.NoError(t, services.ConversationService.SetSystemMessage(ctx, conversation.ID, "Bạn là trợ lý ngân hàng"))
	fetched, err := services.ConversationService.GetByID(ctx, conversation.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.SystemMessage)
	assert.Equal(t, "Bạn là trợ lý ngân hàng", *fetched.SystemMessage)
	assert.False(t, fetched.UpdatedAt.Before(conversation.UpdatedAt))

	require.NoError(t, services.ConversationService.Clear(ctx, conversation.ID))
	turns, err = services.ConversationService.GetMessages(ctx, conversation.ID)
	require.NoError(t, err)
	assert.Empty(t, turns)

	require.NoError(t, services.ConversationService.DeleteByID(ctx, conversation.ID))
	_, err = services.ConversationService.GetByID(ctx, conversation.ID)
	assert.ErrorIs(t, err, conversations.ErrNotFound)
}

func TestConversationService_AddMessage_Errors(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	conversation, err := services.ConversationService.Create(ctx, "Hỏi đáp", nil)
	require.NoError(t, err)

	tests := []struct {
		name           string
		conversationID string
		role           string
		expectedErr    error
	}{
		{"invalid role", conversation.ID, "bot", conversations.ErrInvalidRole},
		{"missing conversation", "f47ac10b-58cc-4372-a567-0e02b2c3d479", "user", conversations.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.ConversationService.AddMessage(ctx, tt.conversationID, tt.role, "hi")
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestConversationService_List_FiltersByOwner(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	owner := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	_, err := services.ConversationService.Create(ctx, "Của tôi", &owner)
	require.NoError(t, err)
	_, err = services.ConversationService.Create(ctx, "Ẩn danh", nil)
	require.NoError(t, err)

	mine, err := services.ConversationService.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Của tôi", mine[0].Title)

	all, err := services.ConversationService.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
