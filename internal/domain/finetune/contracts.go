package finetune

import (
	"context"
	"io"
)

// FinetuneService runs fine-tuning processes in the background
type FinetuneService interface {
	// Start records the pending row and schedules training. It returns the pending row at once.
	Start(ctx context.Context, spec *TaskSpec) (*FinetuningTask, error)

	// SaveUpload stores an uploaded CSV under a unique name and returns its path
	SaveUpload(ctx context.Context, fileName string, r io.Reader) (string, error)

	// AutoFinetune copies a CSV into the upload folder and starts training with the
	// auto fine-tune defaults for any spec field left empty
	AutoFinetune(ctx context.Context, filePath string, spec *TaskSpec) (*FinetuningTask, error)

	// GetStatus returns the latest row of a process
	GetStatus(ctx context.Context, processID string) (*FinetuningTask, error)

	// ListTasks returns the latest row of every process
	ListTasks(ctx context.Context) ([]*FinetuningTask, error)

	// ListFinetunedModels scans the output root for adapters
	ListFinetunedModels(ctx context.Context) ([]*FinetunedModel, error)

	// CheckCSV validates a CSV path and previews its first rows
	CheckCSV(ctx context.Context, filePath string) (*CSVPreview, error)

	// Shutdown cancels running jobs and waits for them until ctx is done
	Shutdown(ctx context.Context) error
}

// TaskRepository persists the append-only status rows
type TaskRepository interface {
	Create(ctx context.Context, task *FinetuningTask) error
	GetByID(ctx context.Context, taskID string) (*FinetuningTask, error)
	// GetLatestByProcessID returns the newest row of the process
	GetLatestByProcessID(ctx context.Context, processID string) (*FinetuningTask, error)
	// ListLatest returns the newest row of every process, newest first
	ListLatest(ctx context.Context) ([]*FinetuningTask, error)
}

// TrainingJob is everything the trainer needs for one run
type TrainingJob struct {
	Task        *FinetuningTask
	DatasetName string
	DatasetDir  string
	OutputPath  string
}

// Trainer runs supervised fine-tuning to completion or until ctx is cancelled
type Trainer interface {
	Train(ctx context.Context, job *TrainingJob) error
}

// DatasetPreparer turns task datasets into registered training datasets
type DatasetPreparer interface {
	// Inspect reads a question/answer CSV and previews it
	Inspect(path string) (*CSVPreview, error)
	// Prepare converts a CSV dataset to instruction JSON and registers it.
	// Other dataset names are returned unchanged.
	Prepare(ctx context.Context, dataset string) (string, error)
	// DataDir is the directory holding dataset_info.json
	DataDir() string
}

// AdapterScanner lists trained adapters on disk
type AdapterScanner interface {
	Scan(root string) ([]*FinetunedModel, error)
}
