package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DatasetInfoFile is the registry file read by the trainer
const DatasetInfoFile = "dataset_info.json"

// Columns maps alpaca fields to trainer roles
type Columns struct {
	Prompt   string `json:"prompt"`
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Entry is one dataset_info.json record
type Entry struct {
	FileName string  `json:"file_name"`
	Columns  Columns `json:"columns"`
}

// InstructionColumns is the column mapping of Instruction datasets
var InstructionColumns = Columns{Prompt: "instruction", Query: "input", Response: "output"}

var registryMu sync.Mutex

// Register adds or replaces name in dataDir/dataset_info.json. Other entries are kept as they are.
func Register(dataDir, name string, entry Entry) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	path := filepath.Join(dataDir, DatasetInfoFile)
	registry := map[string]json.RawMessage{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &registry); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode dataset entry %s: %w", name, err)
	}
	registry[name] = raw

	return WriteJSON(path, registry)
}

// Lookup returns the entry registered under name
func Lookup(dataDir, name string) (*Entry, error) {
	path := filepath.Join(dataDir, DatasetInfoFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	registry := map[string]*Entry{}
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	entry, ok := registry[name]
	if !ok || entry == nil {
		return nil, fmt.Errorf("dataset %s is not registered in %s", name, path)
	}
	return entry, nil
}
