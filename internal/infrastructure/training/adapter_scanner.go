package training

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"
)

// AdapterConfigFile marks a directory as a trained adapter
const AdapterConfigFile = "adapter_config.json"

const unknown = "Unknown"

type adapterConfig struct {
	PeftType            string `json:"peft_type"`
	BaseModelNameOrPath string `json:"base_model_name_or_path"`
}

// adapterScanner struct that implements the AdapterScanner interface
type adapterScanner struct {
	logger logger.Logger
}

// NewAdapterScanner creates an AdapterScanner
func NewAdapterScanner(logger logger.Logger) (finetune.AdapterScanner, error) {
	return &adapterScanner{logger: logger}, nil
}

// Scan lists the direct subdirectories of root holding an adapter_config.json.
// Unreadable adapters are skipped. A missing root yields an empty list.
func (s *adapterScanner) Scan(root string) ([]*finetune.FinetunedModel, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*finetune.FinetunedModel{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	result := []*finetune.FinetunedModel{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		model, err := readAdapter(dir)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("Skipping adapter ", dir, ": ", err)
			}
			continue
		}
		result = append(result, model)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].OutputDir < result[j].OutputDir })
	return result, nil
}

func readAdapter(dir string) (*finetune.FinetunedModel, error) {
	data, err := os.ReadFile(filepath.Join(dir, AdapterConfigFile))
	if err != nil {
		return nil, err
	}
	var cfg adapterConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", AdapterConfigFile, err)
	}

	model := &finetune.FinetunedModel{
		OutputDir:   dir,
		ModelName:   filepath.Base(dir),
		AdapterType: orUnknown(cfg.PeftType),
		BaseModel:   orUnknown(cfg.BaseModelNameOrPath),
	}
	if readme, err := os.ReadFile(filepath.Join(dir, "README.md")); err == nil {
		if title := readmeTitle(string(readme)); title != "" {
			model.ModelName = title
		}
	}
	return model, nil
}

// readmeTitle returns the text following the first "# " up to the end of its line
func readmeTitle(content string) string {
	idx := strings.Index(content, "# ")
	if idx < 0 {
		return ""
	}
	rest := content[idx+2:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
