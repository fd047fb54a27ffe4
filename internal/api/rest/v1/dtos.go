package v1

import (
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"
)

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// MessageResponse is the envelope of requests that only report an outcome
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// validateRequest returns the failed field list or nil
func validateRequest(request interface{}) []string {
	if err := validators.New().Struct(request); err != nil {
		return validators.FieldErrors(err)
	}
	return nil
}

// Auth

// EmailRequest carries a single email address
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenRequest carries a one-time token
type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// UserResponse is the public profile of an account
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	IsAdmin   bool       `json:"is_admin"`
	IsActive  int        `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

// NewUserResponse maps an account to its public profile
func NewUserResponse(u *users.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.Status,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

// LoginData is returned by a successful login
type LoginData struct {
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Admin

// CreateUserRequest is the admin payload for a new account
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest is a partial admin update
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// AdminUserResponse is the row shown in the admin user list
type AdminUserResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	Status     string     `json:"status"`
	IsActive   int        `json:"is_active"`
	IsAdmin    bool       `json:"is_admin"`
	Role       string     `json:"role"`
	Department *string    `json:"department"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	LastLogin  *time.Time `json:"last_login"`
}

// NewAdminUserResponse maps an account to its admin row
func NewAdminUserResponse(u *users.User) AdminUserResponse {
	return AdminUserResponse{
		ID:        u.ID,
		Name:      u.FullName(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Username:  u.Username,
		Status:    u.StatusLabel(),
		IsActive:  u.Status,
		IsAdmin:   u.IsAdmin,
		Role:      u.Role(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		LastLogin: u.LastLogin,
	}
}

// Conversations

// CreateConversationRequest starts a conversation
type CreateConversationRequest struct {
	Title  string  `json:"title" validate:"max=255"`
	UserID *string `json:"user_id"`
}

// AddMessageRequest appends a message
type AddMessageRequest struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// SystemMessageRequest replaces the system prompt
type SystemMessageRequest struct {
	Content string `json:"content"`
}

// MessageDTO is one stored message
type MessageDTO struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationResponse is a conversation with its messages
type ConversationResponse struct {
	ID            string       `json:"id"`
	UserID        *string      `json:"user_id"`
	Title         string       `json:"title"`
	Messages      []MessageDTO `json:"messages"`
	SystemMessage *string      `json:"system_message"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewConversationResponse maps a conversation and its messages
func NewConversationResponse(c *conversations.Conversation) ConversationResponse {
	messages := make([]MessageDTO, 0, len(c.Messages))
	for _, m := range c.Messages {
		messages = append(messages, MessageDTO{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			Role:           m.Role,
			Content:        m.Content,
			CreatedAt:      m.CreatedAt,
		})
	}
	return ConversationResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		Title:         c.Title,
		Messages:      messages,
		SystemMessage: c.SystemMessage,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// Fine-tuning

// FilePathRequest names a CSV on the server
type FilePathRequest struct {
	FilePath string `json:"file_path"`
}

// AutoFinetuneRequest names a CSV plus optional training overrides
type AutoFinetuneRequest struct {
	FilePath string `json:"file_path"`
	finetune.TaskSpec
}

// StartFinetuneResponse identifies a scheduled process
type StartFinetuneResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	TaskID    string `json:"task_id"`
	ProcessID string `json:"process_id"`
}

// TaskResponse is one status row with its training parameters
type TaskResponse struct {
	ID           string  `json:"id"`
	ProcessID    string  `json:"process_id"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message"`
	finetune.TaskSpec
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// NewTaskResponse maps a status row
func NewTaskResponse(t *finetune.FinetuningTask) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		ProcessID:    t.ProcessID,
		Status:       t.Status,
		ErrorMessage: t.ErrorMessage,
		TaskSpec:     t.TaskSpec,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		CompletedAt:  t.CompletedAt,
	}
}

// CSVCheckResponse previews a validated CSV
type CSVCheckResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	RowsCount int                 `json:"rows_count"`
	Preview   []map[string]string `json:"preview"`
}

// Models and chat

// LoadModelRequest registers the adapter of a completed task
type LoadModelRequest struct {
	TaskID string `json:"task_id" validate:"required"`
}

// ModelIDRequest names a model config
type ModelIDRequest struct {
	ModelID string `json:"model_id" validate:"required"`
}

// UpdateActiveRequest toggles a loaded model
type UpdateActiveRequest struct {
	ModelID  string `json:"model_id" validate:"required"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

// ChatRequest asks a model for one reply
type ChatRequest struct {
	Messages []modelreg.ChatMessage `json:"messages" validate:"required,min=1,dive"`
	System   string                 `json:"system"`
	ModelID  string                 `json:"model_id"`
}

// StreamChatRequest asks a model for a streamed reply to one message
type StreamChatRequest struct {
	Message string `json:"message" validate:"required"`
	ModelID string `json:"model_id" validate:"required"`
}

// StreamEvent is the payload of every server-sent event of stream-chat
type StreamEvent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}
