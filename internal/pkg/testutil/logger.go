// Package testutil holds helpers shared by unit and integration tests.
package testutil

import (
	"testing"

	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"
	"github.com/stretchr/testify/require"
)

// SetupTestLogger initializes the shared console logger at debug level and returns it.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	err := logger.InitLogger(&config.LoggerSettings{
		LogLevel: config.LogLevelDebug,
		LogType:  config.LogTypeConsole,
	})
	require.NoError(t, err)

	log, err := logger.GetLogger()
	require.NoError(t, err)

	return log
}
