//go:build unit
// +build unit

package v1

import (
	"context"
	"io"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"

	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input *auth.RegisterInput) (*users.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, input *auth.LoginInput) (*auth.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID string, input *auth.ChangePasswordInput) error {
	args := m.Called(ctx, userID, input)
	return args.Error(0)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, input *auth.ResetPasswordInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockAuthService) ResendActivation(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ActivateAccount(ctx context.Context, token string) (*users.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*users.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

// MockAdminService is a mock implementation of AdminService
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) List(ctx context.Context) ([]*users.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*users.User), args.Error(1)
}

func (m *MockAdminService) GetByID(ctx context.Context, userID string) (*users.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockAdminService) Create(ctx context.Context, input *users.CreateUserInput) (*users.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockAdminService) Update(ctx context.Context, userID string, input *users.UpdateUserInput) (*users.User, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockAdminService) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAdminService) Activate(ctx context.Context, userID string) (*users.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockAdminService) Deactivate(ctx context.Context, userID string) (*users.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

// MockConversationService is a mock implementation of ConversationService
type MockConversationService struct {
	mock.Mock
}

func (m *MockConversationService) Create(ctx context.Context, title string, userID *string) (*conversations.Conversation, error) {
	args := m.Called(ctx, title, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversations.Conversation), args.Error(1)
}

func (m *MockConversationService) GetByID(ctx context.Context, conversationID string) (*conversations.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversations.Conversation), args.Error(1)
}

func (m *MockConversationService) List(ctx context.Context, userID string) ([]*conversations.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*conversations.Conversation), args.Error(1)
}

func (m *MockConversationService) AddMessage(ctx context.Context, conversationID, role, content string) (*conversations.Message, error) {
	args := m.Called(ctx, conversationID, role, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversations.Message), args.Error(1)
}

func (m *MockConversationService) GetMessages(ctx context.Context, conversationID string) ([]conversations.Turn, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]conversations.Turn), args.Error(1)
}

func (m *MockConversationService) SetSystemMessage(ctx context.Context, conversationID, content string) error {
	args := m.Called(ctx, conversationID, content)
	return args.Error(0)
}

func (m *MockConversationService) Clear(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *MockConversationService) DeleteByID(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

// MockFinetuneService is a mock implementation of FinetuneService
type MockFinetuneService struct {
	mock.Mock
}

func (m *MockFinetuneService) Start(ctx context.Context, spec *finetune.TaskSpec) (*finetune.FinetuningTask, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finetune.FinetuningTask), args.Error(1)
}

func (m *MockFinetuneService) SaveUpload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	args := m.Called(ctx, fileName, r)
	return args.String(0), args.Error(1)
}

func (m *MockFinetuneService) AutoFinetune(ctx context.Context, filePath string, spec *finetune.TaskSpec) (*finetune.FinetuningTask, error) {
	args := m.Called(ctx, filePath, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finetune.FinetuningTask), args.Error(1)
}

func (m *MockFinetuneService) GetStatus(ctx context.Context, processID string) (*finetune.FinetuningTask, error) {
	args := m.Called(ctx, processID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finetune.FinetuningTask), args.Error(1)
}

func (m *MockFinetuneService) ListTasks(ctx context.Context) ([]*finetune.FinetuningTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finetune.FinetuningTask), args.Error(1)
}

func (m *MockFinetuneService) ListFinetunedModels(ctx context.Context) ([]*finetune.FinetunedModel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finetune.FinetunedModel), args.Error(1)
}

func (m *MockFinetuneService) CheckCSV(ctx context.Context, filePath string) (*finetune.CSVPreview, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finetune.CSVPreview), args.Error(1)
}

func (m *MockFinetuneService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockModelRegistry is a mock implementation of ModelRegistry
type MockModelRegistry struct {
	mock.Mock
}

func (m *MockModelRegistry) Load(ctx context.Context, taskID string) (string, error) {
	args := m.Called(ctx, taskID)
	return args.String(0), args.Error(1)
}

func (m *MockModelRegistry) Unload(ctx context.Context, modelID string) (string, error) {
	args := m.Called(ctx, modelID)
	return args.String(0), args.Error(1)
}

func (m *MockModelRegistry) SetActive(ctx context.Context, modelID string, active bool) (string, error) {
	args := m.Called(ctx, modelID, active)
	return args.String(0), args.Error(1)
}

func (m *MockModelRegistry) Loaded(ctx context.Context) ([]*modelreg.ModelInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*modelreg.ModelInfo), args.Error(1)
}

func (m *MockModelRegistry) Active(ctx context.Context) (*modelreg.ModelInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*modelreg.ModelInfo), args.Error(1)
}

func (m *MockModelRegistry) ActiveModels(ctx context.Context) ([]*modelreg.ModelInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*modelreg.ModelInfo), args.Error(1)
}

func (m *MockModelRegistry) Choose(ctx context.Context, modelID string) (*modelreg.ModelArgs, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*modelreg.ModelArgs), args.Error(1)
}

func (m *MockModelRegistry) Chat(ctx context.Context, messages []modelreg.ChatMessage, system, modelID string) (*modelreg.ChatResponse, error) {
	args := m.Called(ctx, messages, system, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*modelreg.ChatResponse), args.Error(1)
}

// StreamChat feeds the chunks given as the third return value to onChunk before returning
func (m *MockModelRegistry) StreamChat(ctx context.Context, modelID string, messages []modelreg.ChatMessage, onChunk modelreg.ChunkFunc) (*modelreg.ChatResponse, error) {
	args := m.Called(ctx, modelID, messages, onChunk)
	if chunks, ok := args.Get(2).([]string); ok {
		for _, chunk := range chunks {
			if err := onChunk(ctx, chunk); err != nil {
				return nil, err
			}
		}
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*modelreg.ChatResponse), args.Error(1)
}

func (m *MockModelRegistry) Reconcile(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
