package inference

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// ServedModelName is the model name requested from the server for args.
// LoRA adapters are served under the base name of their directory.
func ServedModelName(args modelreg.ModelArgs) string {
	if args.AdapterNameOrPath != "" {
		return filepath.Base(args.AdapterNameOrPath)
	}
	return args.ModelNameOrPath
}

// chatModelFactory struct that implements the ChatModelFactory interface
type chatModelFactory struct {
	settings *config.InferenceSettings
	client   *http.Client
	counter  TokenCounter
	logger   logger.Logger
}

// NewChatModelFactory creates a ChatModelFactory for the configured server
func NewChatModelFactory(settings *config.InferenceSettings, logger logger.Logger) (modelreg.ChatModelFactory, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &chatModelFactory{
		settings: settings,
		client:   &http.Client{Timeout: time.Duration(settings.TimeoutSeconds) * time.Second},
		counter:  NewTokenCounter(settings.Encoding, logger),
		logger:   logger,
	}, nil
}

func (f *chatModelFactory) New(args modelreg.ModelArgs) (modelreg.ChatModel, error) {
	token := f.settings.APIKey
	if token == "" {
		token = "EMPTY"
	}
	model := ServedModelName(args)

	llm, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(f.settings.BaseURL),
		openai.WithModel(model),
		openai.WithHTTPClient(f.client),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model %s: %w", args.Key(), err)
	}

	f.logger.Info(fmt.Sprintf("Created chat model %s served as %s", args.Key(), model))
	return &openAIChatModel{
		llm:      llm,
		modelKey: args.Key(),
		counter:  f.counter,
		logger:   f.logger,
	}, nil
}

// openAIChatModel struct that implements the ChatModel interface
type openAIChatModel struct {
	llm      llms.Model
	modelKey string
	counter  TokenCounter
	logger   logger.Logger
}

func (m *openAIChatModel) Chat(ctx context.Context, messages []modelreg.ChatMessage, system string) (*modelreg.ChatResponse, error) {
	return m.generate(ctx, messages, system)
}

func (m *openAIChatModel) StreamChat(ctx context.Context, messages []modelreg.ChatMessage, system string, onChunk modelreg.ChunkFunc) (*modelreg.ChatResponse, error) {
	if onChunk == nil {
		return nil, fmt.Errorf("chunk callback is required")
	}
	return m.generate(ctx, messages, system, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		return onChunk(ctx, string(chunk))
	}))
}

func (m *openAIChatModel) generate(ctx context.Context, messages []modelreg.ChatMessage, system string, opts ...llms.CallOption) (*modelreg.ChatResponse, error) {
	content, err := toMessageContent(messages, system)
	if err != nil {
		return nil, err
	}

	resp, err := m.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		return nil, fmt.Errorf("generation with %s failed: %w", m.modelKey, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("generation with %s returned no choices", m.modelKey)
	}

	choice := resp.Choices[0]
	return &modelreg.ChatResponse{
		Text:           choice.Content,
		GeneratedText:  choice.Content,
		Usage:          m.usage(choice, messages, system),
		ModelKey:       m.modelKey,
		FinishedReason: choice.StopReason,
	}, nil
}

// usage reads the server-reported counts and estimates them when missing
func (m *openAIChatModel) usage(choice *llms.ContentChoice, messages []modelreg.ChatMessage, system string) modelreg.Usage {
	u := modelreg.Usage{
		PromptTokens:     intInfo(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
		TotalTokens:      intInfo(choice.GenerationInfo, "TotalTokens"),
	}
	if u.TotalTokens > 0 {
		return u
	}

	prompt := m.counter.Count(system)
	for _, msg := range messages {
		prompt += m.counter.Count(msg.Content)
	}
	completion := m.counter.Count(choice.Content)
	return modelreg.Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func toMessageContent(messages []modelreg.ChatMessage, system string) ([]llms.MessageContent, error) {
	content := make([]llms.MessageContent, 0, len(messages)+1)
	if system != "" {
		content = append(content, llms.TextParts(schema.ChatMessageTypeSystem, system))
	}
	for _, msg := range messages {
		var role schema.ChatMessageType
		switch msg.Role {
		case validators.RoleUser:
			role = schema.ChatMessageTypeHuman
		case validators.RoleAssistant:
			role = schema.ChatMessageTypeAI
		case validators.RoleSystem:
			role = schema.ChatMessageTypeSystem
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}
	return content, nil
}
