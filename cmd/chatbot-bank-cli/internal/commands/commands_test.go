//go:build unit
// +build unit

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/dataset"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/testutil"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoot(t *testing.T, init func(*cobra.Command) error) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "chatbot-bank-cli"}
	require.NoError(t, init(root))
	return root
}

func readInstructions(t *testing.T, path string) []dataset.Instruction {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var items []dataset.Instruction
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func TestDatasetConvertCmd(t *testing.T) {
	dir := t.TempDir()
	csvPath := testutil.QACSV(t, dir, "qa.csv", 10)
	outDir := filepath.Join(dir, "out")

	root := newRoot(t, InitDatasetCommands)
	root.SetArgs([]string{"dataset", "convert", "--csv", csvPath, "--out-dir", outDir, "--split", "0.8"})
	require.NoError(t, root.Execute())

	train := readInstructions(t, filepath.Join(outDir, "train.json"))
	validation := readInstructions(t, filepath.Join(outDir, "validation.json"))
	assert.Len(t, train, 8)
	assert.Len(t, validation, 2)
}

func TestDatasetConvertCmd_InvalidSplit(t *testing.T) {
	dir := t.TempDir()
	csvPath := testutil.QACSV(t, dir, "qa.csv", 3)
	outDir := filepath.Join(dir, "out")

	root := newRoot(t, InitDatasetCommands)
	root.SetArgs([]string{"dataset", "convert", "--csv", csvPath, "--out-dir", outDir, "--split", "1.5"})
	require.NoError(t, root.Execute())

	assert.NoFileExists(t, filepath.Join(outDir, "train.json"))
}

func TestDatasetInspectCmd(t *testing.T) {
	dir := t.TempDir()
	csvPath := testutil.QACSV(t, dir, "qa.csv", 7)

	var out bytes.Buffer
	root := newRoot(t, InitDatasetCommands)
	root.SetOut(&out)
	root.SetArgs([]string{"dataset", "inspect", "--csv", csvPath})
	require.NoError(t, root.Execute())

	var preview finetune.CSVPreview
	require.NoError(t, json.Unmarshal(out.Bytes(), &preview))
	assert.Equal(t, 7, preview.RowsCount)
	assert.Len(t, preview.Preview, 5)
	assert.Contains(t, preview.Columns, "question")
}

func TestDatasetRegisterCmd(t *testing.T) {
	dir := t.TempDir()
	csvPath := testutil.QACSV(t, dir, "faq.csv", 4)
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	root := newRoot(t, InitDatasetCommands)
	root.SetArgs([]string{"dataset", "register", "--csv", csvPath, "--data-dir", dataDir})
	require.NoError(t, root.Execute())

	name := dataset.CSVDatasetName(csvPath)
	entry, err := dataset.Lookup(dataDir, name)
	require.NoError(t, err)
	assert.Equal(t, name+".json", entry.FileName)
	assert.Len(t, readInstructions(t, filepath.Join(dataDir, entry.FileName)), 4)
}

func TestSpecFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, spec *finetune.TaskSpec)
		wantErr bool
	}{
		{
			name: "defaults",
			args: []string{"--dataset", "csv_faq"},
			check: func(t *testing.T, spec *finetune.TaskSpec) {
				assert.Equal(t, finetune.DefaultBaseModel, spec.ModelNameOrPath)
				assert.Equal(t, finetune.DefaultTemplate, spec.Template)
				assert.Equal(t, finetune.DefaultOutputDir, spec.OutputDir)
				assert.Equal(t, finetune.DefaultTrainingParams(), spec.TrainingParams)
			},
		},
		{
			name: "overrides",
			args: []string{"--dataset", "csv_faq", "--output-dir", "run1", "--epochs", "1.5", "--max-samples", "100"},
			check: func(t *testing.T, spec *finetune.TaskSpec) {
				assert.Equal(t, "run1", spec.OutputDir)
				assert.Equal(t, 1.5, spec.NumTrainEpochs)
				assert.Equal(t, 100, spec.MaxSamples)
			},
		},
		{
			name:    "missing dataset",
			args:    []string{},
			wantErr: true,
		},
		{
			name:    "nested output dir",
			args:    []string{"--dataset", "csv_faq", "--output-dir", "../escape"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRoot(t, InitFinetuneCommands)
			runCmd, _, err := root.Find([]string{"finetune", "run"})
			require.NoError(t, err)
			require.NoError(t, runCmd.ParseFlags(tt.args))

			spec, configPath, err := specFromFlags(runCmd)
			require.NoError(t, err)
			assert.Equal(t, defaultConfigPath, configPath)

			err = spec.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, finetune.ErrInvalidSpec)
				return
			}
			require.NoError(t, err)
			tt.check(t, spec)
		})
	}
}
