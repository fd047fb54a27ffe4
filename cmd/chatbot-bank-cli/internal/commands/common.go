package commands

import (
	"fmt"

	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"
)

const defaultConfigPath = "configs/rest-app.yaml"

func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelInfo,
		LogType:  config.LogTypeConsole,
		FilePath: "",
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// loadConfig reads the REST API configuration used by commands that need the database or trainer
func loadConfig(path string) (*config.RestConfig, error) {
	cfg, err := config.InitializeRestConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}
