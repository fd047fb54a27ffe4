//go:build unit
// +build unit

package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer, level string) Logger {
	handler := slog.NewTextHandler(buf, handlerOptions(level))
	return &slogLogger{logger: slog.New(handler)}
}

func TestConsoleLogger_LogsToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, config.LogLevelInfo)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestConsoleLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, config.LogLevelDebug)

	logger.Debug("loaded model ", "llama3_lora")

	assert.Contains(t, buf.String(), "loaded model llama3_lora")
}

func TestConsoleLogger_CriticalFiltersErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, config.LogLevelCritical)

	logger.Error("suppressed")
	assert.Empty(t, buf.String())

	assert.Panics(t, func() { logger.Panic("kept") })
	assert.Contains(t, buf.String(), "level=CRITICAL msg=kept")
}

func TestConsoleLogger_Panic(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, config.LogLevelInfo)

	assert.PanicsWithValue(t, "boom", func() {
		logger.Panic("boom")
	})
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "level=CRITICAL")
}

func TestNewConsoleLogger(t *testing.T) {
	logger := NewConsoleLogger(config.LogLevelInfo)
	require.NotNil(t, logger)

	require.NotPanics(t, func() {
		logger.Debug("test")
		logger.Info("test")
		logger.Warn("test")
		logger.Error("test")
	})
}
