package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Instruction is one alpaca-style training example
type Instruction struct {
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	Output      string `json:"output"`
}

// ToInstructions maps question/answer pairs to instructions with an empty input
func ToInstructions(pairs []QAPair) []Instruction {
	out := make([]Instruction, len(pairs))
	for i, p := range pairs {
		out[i] = Instruction{Instruction: p.Question, Input: "", Output: p.Answer}
	}
	return out
}

// Split divides items at floor(len*ratio) into train and validation parts
func Split(items []Instruction, ratio float64) (train, validation []Instruction) {
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	idx := int(float64(len(items)) * ratio)
	return items[:idx], items[idx:]
}

// WriteJSON writes v as indented UTF-8 JSON, creating parent directories
func WriteJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ConvertResult reports the files written by Convert
type ConvertResult struct {
	Total           int
	TrainPath       string
	TrainCount      int
	ValidationPath  string
	ValidationCount int
}

// Convert writes train.json and validation.json under outDir, splitting the CSV rows at ratio
func Convert(csvPath, outDir string, ratio float64) (*ConvertResult, error) {
	pairs, err := ReadQA(csvPath)
	if err != nil {
		return nil, err
	}

	train, validation := Split(ToInstructions(pairs), ratio)
	result := &ConvertResult{
		Total:           len(pairs),
		TrainPath:       filepath.Join(outDir, "train.json"),
		TrainCount:      len(train),
		ValidationPath:  filepath.Join(outDir, "validation.json"),
		ValidationCount: len(validation),
	}

	if err := WriteJSON(result.TrainPath, nonNil(train)); err != nil {
		return nil, err
	}
	if err := WriteJSON(result.ValidationPath, nonNil(validation)); err != nil {
		return nil, err
	}
	return result, nil
}

func nonNil(items []Instruction) []Instruction {
	if items == nil {
		return []Instruction{}
	}
	return items
}
