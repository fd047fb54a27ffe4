package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/google/uuid"
)

type loadedModel struct {
	args modelreg.ModelArgs
	chat modelreg.ChatModel
}

// modelRegistry implements the ModelRegistry interface.
// mu guards loaded, active, order and primary.
type modelRegistry struct {
	configRepo modelreg.ModelConfigRepository
	taskRepo   finetune.TaskRepository
	factory    modelreg.ChatModelFactory
	outputRoot string
	logger     logger.Logger

	mu      sync.Mutex
	loaded  map[string]*loadedModel
	active  map[string]modelreg.ChatModel
	order   []string
	primary string
}

// NewModelRegistry creates a new modelRegistry instance
func NewModelRegistry(
	configRepo modelreg.ModelConfigRepository,
	taskRepo finetune.TaskRepository,
	factory modelreg.ChatModelFactory,
	outputRoot string,
	logger logger.Logger,
) (modelreg.ModelRegistry, error) {
	if factory == nil {
		return nil, fmt.Errorf("chat model factory must not be nil")
	}
	return &modelRegistry{
		configRepo: configRepo,
		taskRepo:   taskRepo,
		factory:    factory,
		outputRoot: outputRoot,
		logger:     logger,
		loaded:     make(map[string]*loadedModel),
		active:     make(map[string]modelreg.ChatModel),
	}, nil
}

func (r *modelRegistry) Load(ctx context.Context, taskID string) (string, error) {
	task, err := r.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, finetune.ErrTaskNotFound) {
			return "", fmt.Errorf("%w: %s", modelreg.ErrTaskNotFound, taskID)
		}
		return "", err
	}
	// task_id may name any row of the process
	task, err = r.taskRepo.GetLatestByProcessID(ctx, task.ProcessID)
	if err != nil {
		return "", err
	}
	if task.Status != finetune.StatusCompleted {
		return "", fmt.Errorf("%w: %s", modelreg.ErrTaskNotCompleted, task.Status)
	}

	adapter := filepath.Join(r.outputRoot, task.OutputDir)
	args := modelreg.NewModelArgs(task.ModelNameOrPath, adapter, task.Template)
	key := args.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.loaded[key]; ok {
		if _, err := r.ensureConfig(ctx, args); err != nil {
			return "", err
		}
		return fmt.Sprintf("Model already loaded: %s", key), nil
	}

	if _, err := os.Stat(adapter); err != nil {
		return "", fmt.Errorf("%w: %s", modelreg.ErrAdapterMissing, adapter)
	}

	if _, err := r.ensureConfig(ctx, args); err != nil {
		return "", err
	}
	r.loaded[key] = &loadedModel{args: args}

	r.logger.Info("Registered model ", key)
	return fmt.Sprintf("Model registered successfully: %s", key), nil
}

// ensureConfig returns the persisted config of args, inserting an inactive one if missing
func (r *modelRegistry) ensureConfig(ctx context.Context, args modelreg.ModelArgs) (*modelreg.ModelConfig, error) {
	cfg, err := r.configRepo.GetByModelKey(ctx, args.Key())
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, modelreg.ErrConfigNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	cfg = &modelreg.ModelConfig{
		ID:                uuid.NewString(),
		ModelKey:          args.Key(),
		ModelNameOrPath:   args.ModelNameOrPath,
		AdapterNameOrPath: args.AdapterNameOrPath,
		Template:          args.Template,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.configRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *modelRegistry) Unload(ctx context.Context, modelID string) (string, error) {
	cfg, err := r.configRepo.GetByID(ctx, modelID)
	if err != nil {
		return "", err
	}
	key := cfg.ModelKey

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.loaded[key]; !ok {
		if err := r.configRepo.DeleteByID(ctx, modelID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Model configuration removed from database: %s", key), nil
	}

	if _, ok := r.active[key]; ok || cfg.IsActive {
		return "", modelreg.ErrModelActive
	}

	if err := r.configRepo.DeleteByID(ctx, modelID); err != nil {
		return "", err
	}
	delete(r.loaded, key)

	r.logger.Info("Unloaded model ", key)
	return fmt.Sprintf("Model unloaded successfully: %s", key), nil
}

func (r *modelRegistry) SetActive(ctx context.Context, modelID string, active bool) (string, error) {
	cfg, err := r.configRepo.GetByID(ctx, modelID)
	if err != nil {
		return "", err
	}
	key := cfg.ModelKey

	r.mu.Lock()
	defer r.mu.Unlock()

	lm, ok := r.loaded[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", modelreg.ErrNotLoaded, key)
	}

	if active {
		return r.activate(ctx, cfg, lm)
	}
	return r.deactivate(ctx, cfg)
}

func (r *modelRegistry) activate(ctx context.Context, cfg *modelreg.ModelConfig, lm *loadedModel) (string, error) {
	key := cfg.ModelKey
	now := time.Now().UTC()

	if _, ok := r.active[key]; ok {
		if !cfg.IsActive {
			cfg.IsActive = true
			cfg.LastActivatedAt = &now
			cfg.UpdatedAt = now
			if err := r.configRepo.Update(ctx, cfg); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("Model already active: %s", key), nil
	}

	args := lm.args
	args.LowCPUMemUsage = true
	chat, err := r.factory.New(args)
	if err != nil {
		return "", fmt.Errorf("Error activating model: %w", err)
	}

	cfg.IsActive = true
	cfg.LastActivatedAt = &now
	cfg.UpdatedAt = now
	if err := r.configRepo.Update(ctx, cfg); err != nil {
		return "", err
	}

	lm.args = args
	lm.chat = chat
	r.active[key] = chat
	r.order = append(r.order, key)
	if r.primary == "" {
		r.primary = key
	}

	r.logger.Info("Activated model ", key)
	return fmt.Sprintf("Model activated successfully: %s", key), nil
}

func (r *modelRegistry) deactivate(ctx context.Context, cfg *modelreg.ModelConfig) (string, error) {
	key := cfg.ModelKey

	if _, ok := r.active[key]; !ok {
		if cfg.IsActive {
			cfg.IsActive = false
			cfg.UpdatedAt = time.Now().UTC()
			if err := r.configRepo.Update(ctx, cfg); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("Model already inactive: %s", key), nil
	}

	cfg.IsActive = false
	cfg.UpdatedAt = time.Now().UTC()
	if err := r.configRepo.Update(ctx, cfg); err != nil {
		return "", err
	}

	delete(r.active, key)
	if lm, ok := r.loaded[key]; ok {
		lm.chat = nil
	}
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.primary == key {
		r.primary = ""
		if len(r.order) > 0 {
			r.primary = r.order[0]
		}
	}

	r.logger.Info("Deactivated model ", key)
	return fmt.Sprintf("Model deactivated successfully: %s", key), nil
}

// configIDs maps model keys to persisted config IDs
func (r *modelRegistry) configIDs(ctx context.Context) (map[string]string, error) {
	configs, err := r.configRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(configs))
	for _, c := range configs {
		ids[c.ModelKey] = c.ID
	}
	return ids, nil
}

func (r *modelRegistry) info(key, id string) *modelreg.ModelInfo {
	args := r.loaded[key].args
	return &modelreg.ModelInfo{
		ID:                id,
		ModelKey:          key,
		ModelNameOrPath:   args.ModelNameOrPath,
		AdapterNameOrPath: args.AdapterNameOrPath,
		Template:          args.Template,
	}
}

func (r *modelRegistry) Loaded(ctx context.Context) ([]*modelreg.ModelInfo, error) {
	ids, err := r.configIDs(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*modelreg.ModelInfo, 0, len(r.loaded))
	for key := range r.loaded {
		mi := r.info(key, ids[key])
		mi.IsActive = key == r.primary
		mi.IsPrimary = mi.IsActive
		result = append(result, mi)
	}
	sortModelInfos(result)
	return result, nil
}

// primaryKey returns the primary model or the first active one. Callers hold mu.
func (r *modelRegistry) primaryKey() string {
	if r.primary != "" {
		return r.primary
	}
	if len(r.order) > 0 {
		return r.order[0]
	}
	return ""
}

func (r *modelRegistry) Active(ctx context.Context) (*modelreg.ModelInfo, error) {
	ids, err := r.configIDs(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.primaryKey()
	if key == "" {
		return nil, modelreg.ErrNoActiveModel
	}
	mi := r.info(key, ids[key])
	mi.IsActive = true
	mi.IsPrimary = true
	return mi, nil
}

func (r *modelRegistry) ActiveModels(ctx context.Context) ([]*modelreg.ModelInfo, error) {
	ids, err := r.configIDs(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*modelreg.ModelInfo, 0, len(r.order))
	for _, key := range r.order {
		mi := r.info(key, ids[key])
		mi.IsActive = true
		mi.IsPrimary = key == r.primary
		result = append(result, mi)
	}
	return result, nil
}

func (r *modelRegistry) Choose(ctx context.Context, modelID string) (*modelreg.ModelArgs, error) {
	cfg, err := r.configRepo.GetByID(ctx, modelID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	_, ok := r.active[cfg.ModelKey]
	r.mu.Unlock()
	if !ok || !cfg.IsActive {
		return nil, modelreg.ErrModelNotActive
	}

	args := cfg.Args()
	args.LowCPUMemUsage = true
	return &args, nil
}

// resolve picks the chat model for modelID or the primary model when modelID is empty
func (r *modelRegistry) resolve(ctx context.Context, modelID string) (modelreg.ChatModel, string, error) {
	if modelID != "" {
		cfg, err := r.configRepo.GetByID(ctx, modelID)
		if err != nil {
			return nil, "", err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		chat, ok := r.active[cfg.ModelKey]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", modelreg.ErrModelNotActive, cfg.ModelKey)
		}
		return chat, cfg.ModelKey, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.primaryKey()
	if key == "" {
		return nil, "", modelreg.ErrNoChatModel
	}
	return r.active[key], key, nil
}

func (r *modelRegistry) Chat(ctx context.Context, messages []modelreg.ChatMessage, system, modelID string) (*modelreg.ChatResponse, error) {
	chat, key, err := r.resolve(ctx, modelID)
	if err != nil {
		return nil, err
	}

	resp, err := chat.Chat(ctx, messages, system)
	if err != nil {
		return nil, fmt.Errorf("Error generating response: %w", err)
	}
	r.logger.Debug("Generated response with model ", key)
	return resp, nil
}

func (r *modelRegistry) StreamChat(ctx context.Context, modelID string, messages []modelreg.ChatMessage, onChunk modelreg.ChunkFunc) (*modelreg.ChatResponse, error) {
	if _, err := r.Choose(ctx, modelID); err != nil {
		return nil, err
	}
	chat, key, err := r.resolve(ctx, modelID)
	if err != nil {
		return nil, err
	}

	resp, err := chat.StreamChat(ctx, messages, "", onChunk)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Streamed response with model ", key)
	return resp, nil
}

// Reconcile resets persisted active flags and registers every config whose adapter still exists
func (r *modelRegistry) Reconcile(ctx context.Context) error {
	n, err := r.configRepo.ResetActive(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		r.logger.Warn("Reset ", n, " stale active model flags")
	}

	configs, err := r.configRepo.List(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cfg := range configs {
		if _, err := os.Stat(cfg.AdapterNameOrPath); err != nil {
			r.logger.Warn("Adapter missing for model ", cfg.ModelKey, ", leaving it unloaded")
			continue
		}
		r.loaded[cfg.ModelKey] = &loadedModel{args: cfg.Args()}
	}
	return nil
}

func sortModelInfos(infos []*modelreg.ModelInfo) {
	sort.Slice(infos, func(i, j int) bool { return infos[i].ModelKey < infos[j].ModelKey })
}
