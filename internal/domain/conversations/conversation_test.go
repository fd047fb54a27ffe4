//go:build unit
// +build unit

package conversations

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMessageValidation(t *testing.T) {
	tests := []struct {
		name          string
		role          string
		content       string
		expectedError bool
	}{
		{"user", "user", "Xin chào", false},
		{"assistant", "assistant", "Chào bạn", false},
		{"system", "system", "Bạn là trợ lý ngân hàng", false},
		{"unknown role", "bot", "hi", true},
		{"empty content", "user", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Message{ID: uuid.NewString(), ConversationID: uuid.NewString(), Role: tt.role, Content: tt.content}
			err := m.Validate()
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConversationTurns(t *testing.T) {
	c := &Conversation{
		ID:    uuid.NewString(),
		Title: DefaultTitle,
		Messages: []*Message{
			{Role: "user", Content: "Phí chuyển khoản là bao nhiêu?"},
			{Role: "assistant", Content: "Miễn phí trong hệ thống."},
		},
	}

	assert.NoError(t, c.Validate())
	assert.Equal(t, []Turn{
		{Role: "user", Content: "Phí chuyển khoản là bao nhiêu?"},
		{Role: "assistant", Content: "Miễn phí trong hệ thống."},
	}, c.Turns())

	c.Title = ""
	assert.Error(t, c.Validate())
}
