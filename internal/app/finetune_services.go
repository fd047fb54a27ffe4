package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// statusWriteTimeout bounds the status row writes made by background jobs
const statusWriteTimeout = 10 * time.Second

// FinetuneOptions holds the directories and limits of the fine-tune service
type FinetuneOptions struct {
	OutputRoot        string
	UploadFolder      string
	MaxConcurrentJobs int64
}

// finetuneService implements the FinetuneService interface
type finetuneService struct {
	taskRepo finetune.TaskRepository
	preparer finetune.DatasetPreparer
	trainer  finetune.Trainer
	scanner  finetune.AdapterScanner
	opts     FinetuneOptions
	logger   logger.Logger

	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	reserved  map[string]string
	lastWrite map[string]time.Time
}

// NewFinetuneService creates a new finetuneService instance
func NewFinetuneService(
	taskRepo finetune.TaskRepository,
	preparer finetune.DatasetPreparer,
	trainer finetune.Trainer,
	scanner finetune.AdapterScanner,
	opts FinetuneOptions,
	logger logger.Logger,
) (finetune.FinetuneService, error) {
	if opts.OutputRoot == "" {
		return nil, fmt.Errorf("output root must be set")
	}
	if opts.UploadFolder == "" {
		return nil, fmt.Errorf("upload folder must be set")
	}
	if opts.MaxConcurrentJobs < 1 {
		opts.MaxConcurrentJobs = 1
	}
	if err := os.MkdirAll(opts.OutputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output root: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &finetuneService{
		taskRepo:  taskRepo,
		preparer:  preparer,
		trainer:   trainer,
		scanner:   scanner,
		opts:      opts,
		logger:    logger,
		sem:       semaphore.NewWeighted(opts.MaxConcurrentJobs),
		ctx:       ctx,
		cancel:    cancel,
		reserved:  make(map[string]string),
		lastWrite: make(map[string]time.Time),
	}, nil
}

func (s *finetuneService) Start(ctx context.Context, spec *finetune.TaskSpec) (*finetune.FinetuningTask, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	outputPath := filepath.Join(s.opts.OutputRoot, spec.OutputDir)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, finetune.ErrShuttingDown
	}
	if _, busy := s.reserved[spec.OutputDir]; busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", finetune.ErrOutputExists, outputPath)
	}
	if _, err := os.Stat(outputPath); err == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", finetune.ErrOutputExists, outputPath)
	}

	pending := finetune.NewTask(spec, time.Now().UTC())
	s.reserved[spec.OutputDir] = pending.ProcessID
	s.lastWrite[pending.ProcessID] = pending.CreatedAt
	s.wg.Add(1)
	s.mu.Unlock()

	if err := s.taskRepo.Create(ctx, pending); err != nil {
		s.release(pending)
		s.wg.Done()
		return nil, err
	}

	s.logger.Info("Queued fine-tuning process ", pending.ProcessID, " for output ", spec.OutputDir)
	go s.run(pending, outputPath)

	return pending, nil
}

// run executes one process. It appends running, then completed or failed.
func (s *finetuneService) run(pending *finetune.FinetuningTask, outputPath string) {
	defer s.wg.Done()
	defer s.release(pending)

	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		s.append(pending, finetune.StatusFailed, "cancelled before training started")
		return
	}
	defer s.sem.Release(1)

	running := s.append(pending, finetune.StatusRunning, "")
	if running == nil {
		return
	}

	err := s.train(running, outputPath)
	if err != nil {
		s.logger.Error("Fine-tuning process ", pending.ProcessID, " failed: ", err)
		s.append(running, finetune.StatusFailed, err.Error())
		return
	}

	s.logger.Info("Fine-tuning process ", pending.ProcessID, " completed")
	s.append(running, finetune.StatusCompleted, "")
}

func (s *finetuneService) train(task *finetune.FinetuningTask, outputPath string) error {
	datasetName, err := s.preparer.Prepare(s.ctx, task.Dataset)
	if err != nil {
		return fmt.Errorf("dataset preparation failed: %w", err)
	}

	return s.trainer.Train(s.ctx, &finetune.TrainingJob{
		Task:        task,
		DatasetName: datasetName,
		DatasetDir:  s.preparer.DataDir(),
		OutputPath:  outputPath,
	})
}

// append records the successor row of prev. created_at strictly increases per process.
func (s *finetuneService) append(prev *finetune.FinetuningTask, status, errMsg string) *finetune.FinetuningTask {
	s.mu.Lock()
	now := time.Now().UTC()
	if floor := s.lastWrite[prev.ProcessID].Add(time.Millisecond); now.Before(floor) {
		now = floor
	}
	s.lastWrite[prev.ProcessID] = now
	s.mu.Unlock()

	next := prev.Next(status, errMsg, now)

	ctx, cancel := context.WithTimeout(context.Background(), statusWriteTimeout)
	defer cancel()
	if err := s.taskRepo.Create(ctx, next); err != nil {
		s.logger.Error("Failed to record status ", status, " for process ", prev.ProcessID, ": ", err)
		return nil
	}
	return next
}

func (s *finetuneService) release(task *finetune.FinetuningTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved[task.OutputDir] == task.ProcessID {
		delete(s.reserved, task.OutputDir)
	}
	delete(s.lastWrite, task.ProcessID)
}

func (s *finetuneService) SaveUpload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	base := filepath.Base(strings.TrimSpace(fileName))
	if !strings.EqualFold(filepath.Ext(base), ".csv") {
		return "", finetune.ErrNotCSV
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.opts.UploadFolder, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	path := filepath.Join(s.opts.UploadFolder, fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFileName(base)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	if _, err := s.preparer.Inspect(path); err != nil {
		os.Remove(path)
		return "", err
	}

	s.logger.Info("Stored dataset upload ", path)
	return path, nil
}

func (s *finetuneService) AutoFinetune(ctx context.Context, filePath string, spec *finetune.TaskSpec) (*finetune.FinetuningTask, error) {
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", finetune.ErrFileNotFound, filePath)
		}
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	stored, err := s.SaveUpload(ctx, filepath.Base(filePath), f)
	if err != nil {
		return nil, err
	}

	if spec == nil {
		spec = finetune.NewTaskSpec()
	}
	spec.Dataset = stored
	if spec.ModelNameOrPath == "" {
		spec.ModelNameOrPath = finetune.DefaultBaseModel
	}
	if spec.Template == "" {
		spec.Template = finetune.DefaultTemplate
	}
	if spec.OutputDir == "" {
		spec.OutputDir = finetune.DefaultOutputDir
	}

	task, err := s.Start(ctx, spec)
	if err != nil {
		os.Remove(stored)
		return nil, err
	}
	return task, nil
}

func (s *finetuneService) GetStatus(ctx context.Context, processID string) (*finetune.FinetuningTask, error) {
	return s.taskRepo.GetLatestByProcessID(ctx, processID)
}

func (s *finetuneService) ListTasks(ctx context.Context) ([]*finetune.FinetuningTask, error) {
	return s.taskRepo.ListLatest(ctx)
}

func (s *finetuneService) ListFinetunedModels(ctx context.Context) ([]*finetune.FinetunedModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scanner.Scan(s.opts.OutputRoot)
}

func (s *finetuneService) CheckCSV(ctx context.Context, filePath string) (*finetune.CSVPreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.preparer.Inspect(filePath)
}

func (s *finetuneService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Fine-tuning jobs stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for fine-tuning jobs: %w", ctx.Err())
	}
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
