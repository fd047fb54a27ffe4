//go:build unit
// +build unit

package dataset

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	t.Run("preview", func(t *testing.T) {
		path := testutil.QACSV(t, dir, "qa.csv", 8)
		preview, err := Inspect(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"question", "answer"}, preview.Columns)
		assert.Equal(t, 8, preview.RowsCount)
		require.Len(t, preview.Preview, PreviewRows)
		assert.Contains(t, preview.Preview[0]["question"], "kỳ hạn 1 tháng")
	})

	t.Run("byte order mark", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "bom.csv", []byte("\xef\xbb\xbfquestion,answer\nA?,B\n"))
		preview, err := Inspect(path)
		require.NoError(t, err)
		assert.Equal(t, "question", preview.Columns[0])
		assert.Equal(t, 1, preview.RowsCount)
	})

	t.Run("missing columns", func(t *testing.T) {
		path := testutil.WriteCSV(t, dir, "bad.csv", []string{"question", "reply"}, []string{"a", "b"})
		_, err := Inspect(path)
		assert.ErrorIs(t, err, finetune.ErrMissingColumns)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Inspect(filepath.Join(dir, "nope.csv"))
		assert.ErrorIs(t, err, finetune.ErrFileNotFound)
		assert.Contains(t, err.Error(), "nope.csv")
	})

	t.Run("empty file", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "empty.csv", nil)
		_, err := Inspect(path)
		assert.ErrorIs(t, err, finetune.ErrMissingColumns)
	})
}

func TestSplit(t *testing.T) {
	items := make([]Instruction, 10)

	train, validation := Split(items, 0.9)
	assert.Len(t, train, 9)
	assert.Len(t, validation, 1)

	train, validation = Split(items[:3], 0.9)
	assert.Len(t, train, 2)
	assert.Len(t, validation, 1)

	train, validation = Split(items, 0)
	assert.Len(t, train, 10)
	assert.Empty(t, validation)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	csvPath := testutil.QACSV(t, dir, "qa.csv", 20)

	result, err := Convert(csvPath, filepath.Join(dir, "out"), 0.9)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Total)
	assert.Equal(t, 18, result.TrainCount)
	assert.Equal(t, 2, result.ValidationCount)

	data, err := os.ReadFile(result.TrainPath)
	require.NoError(t, err)
	var train []Instruction
	require.NoError(t, json.Unmarshal(data, &train))
	require.Len(t, train, 18)
	assert.Equal(t, "", train[0].Input)
	assert.Contains(t, string(data), "Lãi suất")
}

func TestRegisterKeepsOtherEntries(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, DatasetInfoFile, []byte(`{"alpaca_en_demo": {"file_name": "alpaca_en_demo.json"}}`))

	require.NoError(t, Register(dir, "vietnamese_qa", Entry{FileName: "vietnamese_qa.json", Columns: InstructionColumns}))

	data, err := os.ReadFile(filepath.Join(dir, DatasetInfoFile))
	require.NoError(t, err)
	var registry map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &registry))
	assert.Contains(t, registry, "alpaca_en_demo")

	entry, err := Lookup(dir, "vietnamese_qa")
	require.NoError(t, err)
	assert.Equal(t, "vietnamese_qa.json", entry.FileName)
	assert.Equal(t, "instruction", entry.Columns.Prompt)

	_, err = Lookup(dir, "unknown")
	assert.Error(t, err)
}

func TestPreparer(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	p, err := NewPreparer(dataDir, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, dataDir, p.DataDir())

	csvPath := testutil.QACSV(t, t.TempDir(), "upload-1.csv", 4)
	name, err := p.Prepare(context.Background(), csvPath)
	require.NoError(t, err)
	assert.Equal(t, "csv_dataset_upload-1", name)
	assert.FileExists(t, filepath.Join(dataDir, "csv_dataset_upload-1.json"))

	entry, err := Lookup(dataDir, name)
	require.NoError(t, err)
	assert.Equal(t, InstructionColumns, entry.Columns)

	name, err = p.Prepare(context.Background(), "alpaca_en_demo")
	require.NoError(t, err)
	assert.Equal(t, "alpaca_en_demo", name)

	_, err = p.Inspect(filepath.Join(dataDir, "dataset.txt"))
	assert.ErrorIs(t, err, finetune.ErrNotCSV)
}
