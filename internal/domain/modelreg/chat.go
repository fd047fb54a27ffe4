package modelreg

import (
	"context"
)

// ChatMessage is one role/content turn
type ChatMessage struct {
	Role    string `json:"role" validate:"required,chatrole"`
	Content string `json:"content" validate:"required"`
}

// Usage counts tokens of a generation
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is a finished generation
type ChatResponse struct {
	Text           string `json:"text"`
	GeneratedText  string `json:"generated_text"`
	Usage          Usage  `json:"usage"`
	ModelKey       string `json:"model_key,omitempty"`
	FinishedReason string `json:"finish_reason,omitempty"`
}

// ChunkFunc receives streamed text. Returning an error stops the stream.
type ChunkFunc func(ctx context.Context, chunk string) error

// ChatModel generates replies for one model configuration
type ChatModel interface {
	Chat(ctx context.Context, messages []ChatMessage, system string) (*ChatResponse, error)
	StreamChat(ctx context.Context, messages []ChatMessage, system string, onChunk ChunkFunc) (*ChatResponse, error)
}

// ChatModelFactory creates chat models from args
type ChatModelFactory interface {
	New(args ModelArgs) (ChatModel, error)
}
