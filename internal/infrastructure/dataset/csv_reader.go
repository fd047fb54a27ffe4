package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"

	"github.com/dimchansky/utfbom"
)

// Required CSV columns
const (
	QuestionColumn = "question"
	AnswerColumn   = "answer"
)

// PreviewRows is the number of rows returned by Inspect
const PreviewRows = 5

// QAPair is one question/answer row
type QAPair struct {
	Question string
	Answer   string
}

// IsCSV reports whether path has a .csv extension
func IsCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func openCSV(path string) (*os.File, *csv.Reader, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil, fmt.Errorf("%w: %s", finetune.ErrFileNotFound, path)
		}
		return nil, nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	reader := csv.NewReader(utfbom.SkipOnly(f))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		f.Close()
		if errors.Is(err, io.EOF) {
			return nil, nil, nil, fmt.Errorf("%w: empty file", finetune.ErrMissingColumns)
		}
		return nil, nil, nil, fmt.Errorf("failed to read CSV header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return f, reader, header, nil
}

func columnIndex(header []string) (question, answer int, err error) {
	question, answer = -1, -1
	for i, name := range header {
		switch name {
		case QuestionColumn:
			question = i
		case AnswerColumn:
			answer = i
		}
	}
	if question < 0 || answer < 0 {
		return 0, 0, fmt.Errorf("%w (found: %s)", finetune.ErrMissingColumns, strings.Join(header, ", "))
	}
	return question, answer, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// Inspect validates the question/answer columns of a CSV and previews its first rows
func Inspect(path string) (*finetune.CSVPreview, error) {
	f, reader, header, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, _, err := columnIndex(header); err != nil {
		return nil, err
	}

	preview := &finetune.CSVPreview{Columns: header, Preview: []map[string]string{}}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if preview.RowsCount < PreviewRows {
			row := make(map[string]string, len(header))
			for i, name := range header {
				row[name] = field(record, i)
			}
			preview.Preview = append(preview.Preview, row)
		}
		preview.RowsCount++
	}
	return preview, nil
}

// ReadQA returns every question/answer pair of a CSV
func ReadQA(path string) ([]QAPair, error) {
	f, reader, header, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	qi, ai, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var pairs []QAPair
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		pairs = append(pairs, QAPair{Question: field(record, qi), Answer: field(record, ai)})
	}
	return pairs, nil
}
