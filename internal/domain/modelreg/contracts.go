package modelreg

import (
	"context"
)

// ModelRegistry tracks loaded and active models and dispatches chat to them.
// All methods are safe for concurrent use.
type ModelRegistry interface {
	// Load registers the adapter produced by a completed fine-tuning task
	Load(ctx context.Context, taskID string) (string, error)

	// Unload drops an inactive model and deletes its config
	Unload(ctx context.Context, modelID string) (string, error)

	// SetActive activates or deactivates a loaded model. Both directions are idempotent.
	SetActive(ctx context.Context, modelID string, active bool) (string, error)

	// Loaded lists every loaded model; IsActive marks the primary model
	Loaded(ctx context.Context) ([]*ModelInfo, error)

	// Active returns the primary active model or ErrNoActiveModel
	Active(ctx context.Context) (*ModelInfo, error)

	// ActiveModels lists every active model in activation order
	ActiveModels(ctx context.Context) ([]*ModelInfo, error)

	// Choose returns the inference args of an active model
	Choose(ctx context.Context, modelID string) (*ModelArgs, error)

	// Chat generates a reply with modelID, or with the primary active model when modelID is empty
	Chat(ctx context.Context, messages []ChatMessage, system, modelID string) (*ChatResponse, error)

	// StreamChat streams a reply from the chosen model
	StreamChat(ctx context.Context, modelID string, messages []ChatMessage, onChunk ChunkFunc) (*ChatResponse, error)

	// Reconcile clears active flags persisted by a previous process
	Reconcile(ctx context.Context) error
}

// ModelConfigRepository persists model configs
type ModelConfigRepository interface {
	Create(ctx context.Context, config *ModelConfig) error
	GetByID(ctx context.Context, modelID string) (*ModelConfig, error)
	GetByModelKey(ctx context.Context, modelKey string) (*ModelConfig, error)
	List(ctx context.Context) ([]*ModelConfig, error)
	Update(ctx context.Context, config *ModelConfig) error
	DeleteByID(ctx context.Context, modelID string) error
	// ResetActive marks every config inactive and returns how many changed
	ResetActive(ctx context.Context) (int64, error)
}
