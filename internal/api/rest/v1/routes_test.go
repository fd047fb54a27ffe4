//go:build unit
// +build unit

package v1

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestSetupRoutes_RoutesRegistered verifies that routes are properly registered
func TestSetupRoutes_RoutesRegistered(t *testing.T) {
	mockAuthService := new(MockAuthService)
	mockConversationService := new(MockConversationService)
	mockFinetuneService := new(MockFinetuneService)
	mockModelRegistry := new(MockModelRegistry)

	r := gin.New()

	// Setup mocks to return nil
	mockConversationService.On("List", mock.Anything, mock.Anything).Return(nil, nil)
	mockConversationService.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(testConversation(), nil)
	mockFinetuneService.On("ListTasks", mock.Anything).Return(nil, nil)
	mockFinetuneService.On("ListFinetunedModels", mock.Anything).Return(nil, nil)
	mockModelRegistry.On("Loaded", mock.Anything).Return(nil, nil)

	SetupRoutes(r, Services{
		AuthService:         mockAuthService,
		AdminService:        new(MockAdminService),
		ConversationService: mockConversationService,
		FinetuneService:     mockFinetuneService,
		ModelRegistry:       mockModelRegistry,
	}, 1<<20, testutil.SetupTestLogger(t))

	// Verify routes are registered by testing they respond (even with errors)
	tests := []struct {
		method string
		url    string
	}{
		{"GET", "/health"},
		{"POST", "/api/auth/register"},
		{"POST", "/api/auth/login"},
		{"GET", "/api/auth/me"},
		{"GET", "/api/admin/users"},
		{"POST", "/api/conversations"},
		{"GET", "/api/conversations"},
		{"POST", "/api/finetune"},
		{"GET", "/api/finetune/tasks"},
		{"GET", "/api/finetune/models"},
		{"POST", "/api/check-csv-file"},
		{"POST", "/api/auto-finetune"},
		{"POST", "/api/models/load"},
		{"GET", "/api/models/loaded"},
		{"POST", "/api/choose-model"},
		{"POST", "/api/chat"},
		{"POST", "/api/stream-chat"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			// Just verify route exists (status != 404)
			assert.NotEqual(t, http.StatusNotFound, w.Code, "Route should be registered")
		})
	}
}

func TestSetupRoutes_AdminRoutesRequireToken(t *testing.T) {
	r := gin.New()
	SetupRoutes(r, Services{
		AuthService:         new(MockAuthService),
		AdminService:        new(MockAdminService),
		ConversationService: new(MockConversationService),
		FinetuneService:     new(MockFinetuneService),
		ModelRegistry:       new(MockModelRegistry),
	}, 1<<20, testutil.SetupTestLogger(t))

	req, _ := http.NewRequest("DELETE", "/api/admin/users/u-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetupRoutes_BodyLimitAppliesToAPIRoutes(t *testing.T) {
	const limit = 256
	mockModelRegistry := new(MockModelRegistry)
	mockConversationService := new(MockConversationService)

	r := gin.New()
	SetupRoutes(r, Services{
		AuthService:         new(MockAuthService),
		AdminService:        new(MockAdminService),
		ConversationService: mockConversationService,
		FinetuneService:     new(MockFinetuneService),
		ModelRegistry:       mockModelRegistry,
	}, limit, testutil.SetupTestLogger(t))

	oversized := fmt.Sprintf(`{"messages":[{"role":"user","content":%q}]}`, strings.Repeat("lãi suất ", 64))

	tests := []struct {
		name    string
		url     string
		body    string
		chunked bool
	}{
		{"chat with declared length", "/api/chat", oversized, false},
		{"chat streamed", "/api/chat", oversized, true},
		{"stream chat", "/api/stream-chat", fmt.Sprintf(`{"message":%q,"model_id":"m-1"}`, strings.Repeat("x", 512)), false},
		{"add message streamed", "/api/conversations/c-1/messages", fmt.Sprintf(`{"role":"user","content":%q}`, strings.Repeat("x", 512)), true},
		{"login", "/api/auth/login", fmt.Sprintf(`{"username_or_email":%q,"password":"x"}`, strings.Repeat("a", 512)), false},
		{"check csv streamed", "/api/check-csv-file", fmt.Sprintf(`{"file_path":%q}`, strings.Repeat("a", 512)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("POST", tt.url, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
			assert.Contains(t, w.Body.String(), msgBodyTooLarge)
		})
	}

	mockModelRegistry.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockConversationService.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetupRoutes_BodyWithinLimitReachesHandler(t *testing.T) {
	mockModelRegistry := new(MockModelRegistry)
	mockModelRegistry.On("Chat", mock.Anything, mock.Anything, "", "").Return(&modelreg.ChatResponse{Text: "Chào bạn", GeneratedText: "Chào bạn"}, nil)

	r := gin.New()
	SetupRoutes(r, Services{
		AuthService:         new(MockAuthService),
		AdminService:        new(MockAdminService),
		ConversationService: new(MockConversationService),
		FinetuneService:     new(MockFinetuneService),
		ModelRegistry:       mockModelRegistry,
	}, 1<<10, testutil.SetupTestLogger(t))

	req, _ := http.NewRequest("POST", "/api/chat", strings.NewReader(`{"messages":[{"role":"user","content":"Xin chào"}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockModelRegistry.AssertExpectations(t)
}
