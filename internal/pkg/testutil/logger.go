package testutil

import (
	"bytes"
	"testing"

	"github.com/AastromSecurity/Crypto/internal/pkg/config"
	"github.com/AastromSecurity/Crypto/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

// SetupTestLogger sets up the singleton logger for testing purposes.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelInfo,
		LogType:  config.LogTypeConsole,
	}

	err := logger.InitLogger(settings)
	require.NoError(t, err)

	log, err := logger.GetLogger()
	require.NoError(t, err)

	return log
}

// SetupBufferLogger returns a debug-level logger and the buffer it writes to.
func SetupBufferLogger(t *testing.T) (logger.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	return logger.NewWriterLogger(config.LogLevelDebug, &buf), &buf
}
