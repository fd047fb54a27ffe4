package logger

import (
	"log/slog"

	"github.com/natefinch/lumberjack"
)

// FileRotation holds the lumberjack rotation knobs
type FileRotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// fileLogger is a slogLogger writing JSON records through a rotating file
type fileLogger struct {
	*slogLogger
	writer *lumberjack.Logger
}

// NewFileLogger creates a JSON logger writing to a size-rotated file.
func NewFileLogger(level, filePath string, rotation FileRotation) Logger {
	writer := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    rotation.MaxSize,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAge,
		Compress:   rotation.Compress,
	}

	return &fileLogger{
		slogLogger: &slogLogger{logger: slog.New(slog.NewJSONHandler(writer, handlerOptions(level)))},
		writer:     writer,
	}
}
