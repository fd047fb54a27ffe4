//go:build unit
// +build unit

package v1

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testConversationID = "5f0c7a0e-8d3b-4e4a-9b8e-2f6d1c3a7b90"

func testConversation() *conversations.Conversation {
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	return &conversations.Conversation{
		ID:    testConversationID,
		Title: "Lãi suất tiết kiệm",
		Messages: []*conversations.Message{
			{ID: "m1", ConversationID: testConversationID, Role: "user", Content: "Lãi suất 12 tháng là bao nhiêu?", CreatedAt: now},
			{ID: "m2", ConversationID: testConversationID, Role: "assistant", Content: "5.5% một năm.", CreatedAt: now.Add(time.Second)},
		},
		CreatedAt: now,
		UpdatedAt: now.Add(time.Second),
	}
}

func TestConversationHandler_Create(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedTitle string
	}{
		{"with title", `{"title":"Vay mua nhà"}`, "Vay mua nhà"},
		{"without body", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockConversationService)
			handler := NewConversationHandler(mockService, testutil.SetupTestLogger(t))
			mockService.On("Create", mock.Anything, tt.expectedTitle, (*string)(nil)).Return(testConversation(), nil)

			c, w := newJSONContext(t, "POST", "/api/conversations", tt.body)
			handler.Create(c)

			assert.Equal(t, http.StatusCreated, w.Code)
			assert.Contains(t, w.Body.String(), `"conversation_id":"`+testConversationID+`"`)
			mockService.AssertExpectations(t)
		})
	}
}

func TestConversationHandler_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockService := new(MockConversationService)
		handler := NewConversationHandler(mockService, testutil.SetupTestLogger(t))
		mockService.On("GetByID", mock.Anything, testConversationID).Return(testConversation(), nil)

		c, w := newJSONContext(t, "GET", "/api/conversations/"+testConversationID, "")
		c.Params = gin.Params{gin.Param{Key: "id", Value: testConversationID}}
		handler.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Conversation found")
		assert.Contains(t, w.Body.String(), "5.5% một năm.")
		assert.Contains(t, w.Body.String(), `"system_message":null`)
	})

	t.Run("missing", func(t *testing.T) {
		mockService := new(MockConversationService)
		handler := NewConversationHandler(mockService, testutil.SetupTestLogger(t))
		mockService.On("GetByID", mock.Anything, "nope").Return(nil, fmt.Errorf("%w: nope", conversations.ErrNotFound))

		c, w := newJSONContext(t, "GET", "/api/conversations/nope", "")
		c.Params = gin.Params{gin.Param{Key: "id", Value: "nope"}}
		handler.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Conversation not found")
	})
}

func TestConversationHandler_List_FiltersByUser(t *testing.T) {
	mockService := new(MockConversationService)
	handler := NewConversationHandler(mockService, testutil.SetupTestLogger(t))
	mockService.On("List", mock.Anything, "user-1").Return([]*conversations.Conversation{testConversation()}, nil)

	c, w := newJSONContext(t, "GET", "/api/conversations?user_id=user-1", "")
	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testConversationID)
	mockService.AssertExpectations(t)
}

func TestConversationHandler_AddMessage(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		callsService   bool
		expectedStatus int
		expectedText   string
	}{
		{"added", `{"role":"user","content":"Xin chào"}`, nil, true, http.StatusOK, "Message added successfully"},
		{"invalid role", `{"role":"robot","content":"Xin chào"}`, conversations.ErrInvalidRole, true, http.StatusBadRequest, "Invalid role"},
		{"missing conversation", `{"role":"user","content":"Xin chào"}`, conversations.ErrNotFound, true, http.StatusBadRequest, "Conversation not found"},
		{"missing content", `{"role":"user"}`, nil, false, http.StatusBadRequest, msgValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockConversationService)
			handler := NewConversationHandler(mockService, testutil.SetupTestLogger(t))
			if tt.callsService {
				if tt.serviceErr != nil {
					mockService.On("AddMessage", mock.Anything, testConversationID, mock.Anything, "Xin chào").Return(nil, tt.serviceErr)
				} else {
					mockService.On("AddMessage", mock.Anything, testConversationID, "user", "Xin chào").Return(&conversations.Message{ID: "m3"}, nil)
				}
			}

			c, w := newJSONContext(t, "POST", "/api/conversations/"+testConversationID+"/messages", tt.body)
			c.Params = gin.Params{gin.Param{Key: "id", Value: testConversationID}}
			handler.AddMessage(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedText)
			mockService.AssertExpectations(t)
		})
	}
}

func TestConversationHandler_GetMessages(t *testing.T) {
	mockService := new(MockConversationService)
	handler := NewConversationHandler(mockService, testutil.SetupTestLogger(t))
	mockService.On("GetMessages", mock.Anything, testConversationID).Return(testConversation().Turns(), nil)

	c, w := newJSONContext(t, "GET", "/api/conversations/"+testConversationID+"/messages", "")
	c.Params = gin.Params{gin.Param{Key: "id", Value: testConversationID}}
	handler.GetMessages(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `{"role":"user","content":"Lãi suất 12 tháng là bao nhiêu?"}`)
}

func TestConversationHandler_ClearDeleteAndSystemMessage(t *testing.T) {
	mockService := new(MockConversationService)
	handler := NewConversationHandler(mockService, testutil.SetupTestLogger(t))
	mockService.On("Clear", mock.Anything, testConversationID).Return(nil)
	mockService.On("DeleteByID", mock.Anything, "gone").Return(fmt.Errorf("%w: gone", conversations.ErrNotFound))
	mockService.On("SetSystemMessage", mock.Anything, testConversationID, "Bạn là trợ lý ngân hàng").Return(nil)

	c, w := newJSONContext(t, "POST", "/api/conversations/"+testConversationID+"/clear", "")
	c.Params = gin.Params{gin.Param{Key: "id", Value: testConversationID}}
	handler.Clear(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Conversation cleared successfully")

	c, w = newJSONContext(t, "DELETE", "/api/conversations/gone", "")
	c.Params = gin.Params{gin.Param{Key: "id", Value: "gone"}}
	handler.DeleteByID(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newJSONContext(t, "PUT", "/api/conversations/"+testConversationID+"/system-message", `{"content":"Bạn là trợ lý ngân hàng"}`)
	c.Params = gin.Params{gin.Param{Key: "id", Value: testConversationID}}
	handler.SetSystemMessage(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "System message set successfully")

	mockService.AssertExpectations(t)
}
