package training

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"
)

// stderrTail is the number of stderr lines kept for failure messages
const stderrTail = 20

// cliTrainer struct that implements the Trainer interface by running `<cli> train <config.yaml>`
type cliTrainer struct {
	cliPath   string
	stopGrace time.Duration
	logger    logger.Logger
}

// NewCLITrainer creates a Trainer running cliPath.
// On cancellation the process gets an interrupt and is killed after stopGrace.
func NewCLITrainer(cliPath string, stopGrace time.Duration, logger logger.Logger) (finetune.Trainer, error) {
	if cliPath == "" {
		return nil, fmt.Errorf("trainer cli path is required")
	}
	if stopGrace <= 0 {
		stopGrace = 30 * time.Second
	}
	return &cliTrainer{
		cliPath:   cliPath,
		stopGrace: stopGrace,
		logger:    logger,
	}, nil
}

func (t *cliTrainer) Train(ctx context.Context, job *finetune.TrainingJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	configFile, err := os.CreateTemp("", "train-"+job.Task.ProcessID+"-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create train config: %w", err)
	}
	configPath := configFile.Name()
	configFile.Close()
	defer os.Remove(configPath)

	if err := NewTrainConfig(job).WriteFile(configPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output root: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.cliPath, "train", configPath)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = t.stopGrace

	tail := newLineTail(stderrTail)
	stdout := &lineWriter{onLine: t.logLine(job.Task.ProcessID, nil)}
	stderr := &lineWriter{onLine: t.logLine(job.Task.ProcessID, tail)}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	t.logger.Info(fmt.Sprintf("Starting training process %s: %s train %s", job.Task.ProcessID, t.cliPath, configPath))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", t.cliPath, err)
	}

	err = cmd.Wait()
	stdout.Flush()
	stderr.Flush()
	if ctxErr := ctx.Err(); ctxErr != nil {
		t.logger.Warn("Training process ", job.Task.ProcessID, " cancelled")
		return ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with code %d: %s", filepath.Base(t.cliPath), exitErr.ExitCode(), tail.String())
		}
		return fmt.Errorf("training process failed: %w", err)
	}

	t.logger.Info("Training process ", job.Task.ProcessID, " finished")
	return nil
}

func (t *cliTrainer) logLine(processID string, tail *lineTail) func(string) {
	return func(line string) {
		t.logger.Debug("[", processID, "] ", line)
		if tail != nil {
			tail.Add(line)
		}
	}
}

// lineWriter calls onLine for every complete line written to it.
// LLaMA-Factory progress bars end lines with \r, so both \r and \n terminate a line.
type lineWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	onLine func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range p {
		if b == '\n' || b == '\r' {
			w.emit()
			continue
		}
		w.buf.WriteByte(b)
	}
	return len(p), nil
}

// Flush emits a trailing line without terminator
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.emit()
}

func (w *lineWriter) emit() {
	if w.buf.Len() == 0 {
		return
	}
	w.onLine(w.buf.String())
	w.buf.Reset()
}

// lineTail keeps the last n lines written to it
type lineTail struct {
	n     int
	lines []string
}

func newLineTail(n int) *lineTail {
	return &lineTail{n: n}
}

func (l *lineTail) Add(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	l.lines = append(l.lines, line)
	if len(l.lines) > l.n {
		l.lines = l.lines[len(l.lines)-l.n:]
	}
}

func (l *lineTail) String() string {
	if len(l.lines) == 0 {
		return "no output"
	}
	return strings.Join(l.lines, "\n")
}
