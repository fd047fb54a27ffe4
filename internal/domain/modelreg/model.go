package modelreg

import (
	"errors"
	"fmt"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"
)

// Errors surfaced by the model and chat endpoints
var (
	ErrTaskNotFound     = errors.New("Fine-tuning task not found with ID")
	ErrTaskNotCompleted = errors.New("Fine-tuning task is not completed")
	ErrAdapterMissing   = errors.New("Adapter path does not exist")
	ErrConfigNotFound   = errors.New("Model configuration not found with ID")
	ErrNotLoaded        = errors.New("Model not loaded in memory. Cannot update status")
	ErrModelActive      = errors.New("Cannot unload active model. Deactivate it first.")
	ErrModelNotActive   = errors.New("Model is not active. Please activate it first.")
	ErrNoActiveModel    = errors.New("No active model")
	ErrNoChatModel      = errors.New("No active model for chat")
)

// Inference settings attached to every model
const (
	FinetuningTypeLoRA      = "lora"
	InferBackendHuggingface = "huggingface"
)

// ModelKey identifies a base model, adapter and template combination
func ModelKey(modelNameOrPath, adapterNameOrPath, template string) string {
	return fmt.Sprintf("%s_%s_%s", modelNameOrPath, adapterNameOrPath, template)
}

// ModelConfig is the persisted record of a loaded model
type ModelConfig struct {
	ID                string `validate:"required,uuid4"`
	ModelKey          string `validate:"required,max=255"`
	ModelNameOrPath   string `validate:"required,max=255"`
	AdapterNameOrPath string `validate:"required,max=255"`
	Template          string `validate:"required,max=100"`
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastActivatedAt   *time.Time
}

// Validate for validating ModelConfig struct
func (c *ModelConfig) Validate() error {
	return validators.Struct(c)
}

// Args returns the inference arguments for the config
func (c *ModelConfig) Args() ModelArgs {
	return NewModelArgs(c.ModelNameOrPath, c.AdapterNameOrPath, c.Template)
}

// ModelArgs configures a chat model instance
type ModelArgs struct {
	ModelNameOrPath   string `json:"model_name_or_path"`
	AdapterNameOrPath string `json:"adapter_name_or_path"`
	Template          string `json:"template"`
	FinetuningType    string `json:"finetuning_type"`
	InferBackend      string `json:"infer_backend"`
	LowCPUMemUsage    bool   `json:"low_cpu_mem_usage"`
}

// NewModelArgs returns LoRA args on the huggingface backend
func NewModelArgs(modelNameOrPath, adapterNameOrPath, template string) ModelArgs {
	return ModelArgs{
		ModelNameOrPath:   modelNameOrPath,
		AdapterNameOrPath: adapterNameOrPath,
		Template:          template,
		FinetuningType:    FinetuningTypeLoRA,
		InferBackend:      InferBackendHuggingface,
	}
}

// Key returns the model key of the args
func (a ModelArgs) Key() string {
	return ModelKey(a.ModelNameOrPath, a.AdapterNameOrPath, a.Template)
}

// ModelInfo describes a loaded model as returned by the registry
type ModelInfo struct {
	ID                string `json:"id,omitempty"`
	ModelKey          string `json:"model_key"`
	ModelNameOrPath   string `json:"model_name_or_path"`
	AdapterNameOrPath string `json:"adapter_name_or_path"`
	Template          string `json:"template"`
	IsActive          bool   `json:"is_active"`
	IsPrimary         bool   `json:"is_primary"`
}
