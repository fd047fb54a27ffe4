//go:build unit
// +build unit

package modelreg

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestModelKey(t *testing.T) {
	key := ModelKey("meta-llama/Meta-Llama-3-8B-Instruct", "output/llama3_lora", "llama3")
	assert.Equal(t, "meta-llama/Meta-Llama-3-8B-Instruct_output/llama3_lora_llama3", key)
}

func TestModelConfigArgs(t *testing.T) {
	cfg := &ModelConfig{
		ID:                uuid.NewString(),
		ModelNameOrPath:   "base",
		AdapterNameOrPath: "output/adapter",
		Template:          "llama3",
	}
	cfg.ModelKey = ModelKey(cfg.ModelNameOrPath, cfg.AdapterNameOrPath, cfg.Template)
	assert.NoError(t, cfg.Validate())

	args := cfg.Args()
	assert.Equal(t, FinetuningTypeLoRA, args.FinetuningType)
	assert.Equal(t, InferBackendHuggingface, args.InferBackend)
	assert.False(t, args.LowCPUMemUsage)
	assert.Equal(t, cfg.ModelKey, args.Key())

	cfg.Template = ""
	assert.Error(t, cfg.Validate())
}
