//go:build unit
// +build unit

package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/AastromSecurity/Crypto/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLoggerSingleton() {
	loggerInstance = nil
	loggerErr = nil
	loggerOnce = sync.Once{}
}

// fileSettings is the CLI default switched to a rotated log file inside a temp dir.
func fileSettings(t *testing.T) config.LoggerSettings {
	t.Helper()

	settings := config.DefaultLoggerSettings()
	settings.LogType = config.LogTypeFile
	settings.FilePath = filepath.Join(t.TempDir(), "logs", "rsa-cli.log")
	return settings
}

func TestInitLogger_CLIDefaults(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	settings := config.DefaultLoggerSettings()
	require.NoError(t, InitLogger(&settings))

	log, err := GetLogger()
	require.NoError(t, err)
	assert.IsType(t, &ConsoleLogger{}, log)
}

func TestInitLogger_FileLoggerHonoursWarningLevel(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	settings := fileSettings(t)
	require.NoError(t, InitLogger(&settings))

	log, err := GetLogger()
	require.NoError(t, err)
	log.Info("generating 100 digit primes")
	log.Warn("message exceeds modulus")

	content, err := os.ReadFile(settings.FilePath)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "generating 100 digit primes")
	assert.Contains(t, string(content), "message exceeds modulus")
}

func TestInitLogger_InvalidSettingsLeaveNoLogger(t *testing.T) {
	cases := map[string]func(*config.LoggerSettings){
		"unknown level":        func(s *config.LoggerSettings) { s.LogLevel = "verbose" },
		"unknown type":         func(s *config.LoggerSettings) { s.LogType = "syslog" },
		"file without path":    func(s *config.LoggerSettings) { s.LogType = config.LogTypeFile },
		"file with zero size":  func(s *config.LoggerSettings) { s.LogType, s.FilePath, s.MaxSize = config.LogTypeFile, "rsa.log", 0 },
		"file with no backups": func(s *config.LoggerSettings) { s.LogType, s.FilePath, s.MaxBackups = config.LogTypeFile, "rsa.log", 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(resetLoggerSingleton)

			settings := config.DefaultLoggerSettings()
			mutate(&settings)

			require.Error(t, InitLogger(&settings))
			log, err := GetLogger()
			assert.Nil(t, log)
			assert.ErrorContains(t, err, "not initialized")
		})
	}
}

func TestInitLogger_FirstSettingsWin(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	first := config.DefaultLoggerSettings()
	require.NoError(t, InitLogger(&first))
	log, err := GetLogger()
	require.NoError(t, err)

	second := fileSettings(t)
	second.LogLevel = config.LogLevelDebug
	require.NoError(t, InitLogger(&second))

	again, err := GetLogger()
	require.NoError(t, err)
	assert.Same(t, log, again)
	assert.NoFileExists(t, second.FilePath)
}

func TestNew_LeavesSingletonUnset(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	settings := fileSettings(t)
	log, err := New(&settings)
	require.NoError(t, err)
	assert.IsType(t, &FileLogger{}, log)

	_, err = GetLogger()
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	levels := map[string]slog.Level{
		config.LogLevelDebug:    slog.LevelDebug,
		config.LogLevelInfo:     slog.LevelInfo,
		config.LogLevelWarning:  slog.LevelWarn,
		config.LogLevelError:    slog.LevelError,
		config.LogLevelCritical: slog.LevelError,
		"":                      slog.LevelInfo,
	}

	for level, want := range levels {
		assert.Equal(t, want, parseLevel(level), "level %q", level)
	}
}

func TestFormatArgs_JoinsLikeSprint(t *testing.T) {
	assert.Empty(t, formatArgs())
	assert.Equal(t, "candidate 7919 rejected", formatArgs("candidate ", 7919, " rejected"))
	assert.Equal(t, "3 17", formatArgs(3, 17))
}
