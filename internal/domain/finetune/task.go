package finetune

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"
	"github.com/google/uuid"
)

// Task status values
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Errors surfaced by the fine-tune endpoints
var (
	ErrTaskNotFound   = errors.New("Task not found with process ID")
	ErrOutputExists   = errors.New("Output directory already exists")
	ErrFileNotFound   = errors.New("File not found")
	ErrNotCSV         = errors.New("Only CSV files are allowed")
	ErrMissingColumns = errors.New("CSV file must contain columns: question, answer")
	ErrShuttingDown   = errors.New("fine-tuning is shutting down")
	ErrInvalidSpec    = errors.New("Invalid fine-tuning parameters")
)

// TaskSpec describes what to train. TrainingParams fields are flattened in JSON.
type TaskSpec struct {
	ModelNameOrPath string `json:"model_name_or_path" form:"model_name_or_path" validate:"required"`
	Dataset         string `json:"dataset" form:"dataset" validate:"required"`
	Template        string `json:"template" form:"template" validate:"required"`
	// OutputDir is a directory name under the output root
	OutputDir string `json:"output_dir" form:"output_dir" validate:"required"`
	TrainingParams
}

// NewTaskSpec returns a spec prefilled with DefaultTrainingParams
func NewTaskSpec() *TaskSpec {
	return &TaskSpec{TrainingParams: DefaultTrainingParams()}
}

// Validate for validating TaskSpec struct
func (s *TaskSpec) Validate() error {
	if err := validators.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if s.OutputDir != filepath.Base(s.OutputDir) || s.OutputDir == ".." || strings.ContainsAny(s.OutputDir, `/\`) {
		return fmt.Errorf("%w: output_dir must be a plain directory name", ErrInvalidSpec)
	}
	return nil
}

// FinetuningTask is one status row of a fine-tuning process.
// Every transition inserts a new row sharing ProcessID.
type FinetuningTask struct {
	ID           string `validate:"required,uuid4"`
	ProcessID    string `validate:"required,uuid4"`
	Status       string `validate:"required,oneof=pending running completed failed"`
	TaskSpec
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// NewTask creates the pending row of a new process
func NewTask(spec *TaskSpec, now time.Time) *FinetuningTask {
	return &FinetuningTask{
		ID:        uuid.NewString(),
		ProcessID: uuid.NewString(),
		Status:    StatusPending,
		TaskSpec:  *spec,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate for validating FinetuningTask struct
func (t *FinetuningTask) Validate() error {
	return validators.Struct(t)
}

// Next returns the successor row for status. errMsg is recorded for failures.
func (t *FinetuningTask) Next(status string, errMsg string, now time.Time) *FinetuningTask {
	next := &FinetuningTask{
		ID:        uuid.NewString(),
		ProcessID: t.ProcessID,
		Status:    status,
		TaskSpec:  t.TaskSpec,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errMsg != "" {
		next.ErrorMessage = &errMsg
	}
	if status == StatusCompleted || status == StatusFailed {
		next.CompletedAt = &now
	}
	return next
}

// Finished reports whether the process reached a terminal status
func (t *FinetuningTask) Finished() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// FinetunedModel describes an adapter directory found under the output root
type FinetunedModel struct {
	OutputDir   string `json:"output_dir"`
	ModelName   string `json:"model_name"`
	AdapterType string `json:"adapter_type"`
	BaseModel   string `json:"base_model"`
}

// CSVPreview summarizes a question/answer CSV
type CSVPreview struct {
	Columns   []string            `json:"columns"`
	RowsCount int                 `json:"rows_count"`
	Preview   []map[string]string `json:"preview"`
}
