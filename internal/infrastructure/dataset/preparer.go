package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"
)

// CSVDatasetPrefix prefixes datasets converted from uploaded CSV files
const CSVDatasetPrefix = "csv_dataset_"

// preparer struct that implements the DatasetPreparer interface
type preparer struct {
	dataDir string
	logger  logger.Logger
}

// NewPreparer creates a DatasetPreparer writing into dataDir
func NewPreparer(dataDir string, logger logger.Logger) (finetune.DatasetPreparer, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dataDir, err)
	}
	return &preparer{
		dataDir: dataDir,
		logger:  logger,
	}, nil
}

func (p *preparer) DataDir() string {
	return p.dataDir
}

func (p *preparer) Inspect(path string) (*finetune.CSVPreview, error) {
	if !IsCSV(path) {
		return nil, finetune.ErrNotCSV
	}
	return Inspect(path)
}

// Prepare converts a CSV dataset into csv_dataset_<basename>.json in the data dir
func (p *preparer) Prepare(ctx context.Context, dataset string) (string, error) {
	if !IsCSV(dataset) {
		return dataset, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := CSVDatasetName(dataset)
	if err := ConvertAndRegister(dataset, p.dataDir, name); err != nil {
		return "", err
	}

	p.logger.Info(fmt.Sprintf("Registered dataset %s from %s", name, dataset))
	return name, nil
}

// CSVDatasetName derives the registered dataset name of a CSV path
func CSVDatasetName(csvPath string) string {
	base := filepath.Base(csvPath)
	return CSVDatasetPrefix + strings.TrimSuffix(base, filepath.Ext(base))
}

// ConvertAndRegister writes all CSV rows to dataDir/<name>.json and registers it under name
func ConvertAndRegister(csvPath, dataDir, name string) error {
	pairs, err := ReadQA(csvPath)
	if err != nil {
		return err
	}

	fileName := name + ".json"
	if err := WriteJSON(filepath.Join(dataDir, fileName), nonNil(ToInstructions(pairs))); err != nil {
		return err
	}
	return Register(dataDir, name, Entry{FileName: fileName, Columns: InstructionColumns})
}
