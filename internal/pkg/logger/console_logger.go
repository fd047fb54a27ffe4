package logger

import (
	"context"
	"log/slog"
	"os"
)

// slogLogger adapts a *slog.Logger to the Logger interface.
type slogLogger struct {
	logger *slog.Logger
}

// NewConsoleLogger creates a text logger writing to stdout with the specified log level.
func NewConsoleLogger(level string) Logger {
	return &slogLogger{logger: slog.New(slog.NewTextHandler(os.Stdout, handlerOptions(level)))}
}

func (l *slogLogger) Debug(args ...interface{}) {
	l.logger.Debug(formatArgs(args...))
}

func (l *slogLogger) Info(args ...interface{}) {
	l.logger.Info(formatArgs(args...))
}

func (l *slogLogger) Warn(args ...interface{}) {
	l.logger.Warn(formatArgs(args...))
}

func (l *slogLogger) Error(args ...interface{}) {
	l.logger.Error(formatArgs(args...))
}

// Fatal logs at critical level and exits the process.
func (l *slogLogger) Fatal(args ...interface{}) {
	l.logger.Log(context.Background(), levelCritical, formatArgs(args...))
	os.Exit(1)
}

// Panic logs at critical level and panics with the same message.
func (l *slogLogger) Panic(args ...interface{}) {
	msg := formatArgs(args...)
	l.logger.Log(context.Background(), levelCritical, msg)
	panic(msg)
}
