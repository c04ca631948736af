//go:build unit
// +build unit

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/infrastructure/persistence"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var encryptedPattern = regexp.MustCompile(`ENCRYPTED : (\d+)`)

// executeCLI runs a fresh rsa-cli command tree with args and returns its stdout.
func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	rootCmd := &cobra.Command{Use: "rsa-cli", SilenceUsage: true, SilenceErrors: true}
	require.NoError(t, InitRSACommands(rootCmd))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRSACommands_GenerateEncryptDecrypt(t *testing.T) {
	keyDir := t.TempDir()

	out, err := executeCLI(t, "generate", "--digits", "8", "--key-dir", keyDir)
	require.NoError(t, err)
	assert.Contains(t, out, "(~) Generating two 4 digits-long random prime numbers, please wait... OK")
	assert.Contains(t, out, "(~) Generating public and private keys based on prime numbers... OK")
	assert.Contains(t, out, "(~) Storing public and private keys... OK")
	assert.FileExists(t, filepath.Join(keyDir, persistence.PublicDirName, persistence.PublicKeyFile))
	assert.FileExists(t, filepath.Join(keyDir, persistence.PrivateDirName, persistence.PrivateKeyFile))

	out, err = executeCLI(t, "encrypt", "--message", "42", "--key-dir", keyDir)
	require.NoError(t, err)
	match := encryptedPattern.FindStringSubmatch(out)
	require.Len(t, match, 2, "unexpected output %q", out)

	out, err = executeCLI(t, "decrypt", "-m", match[1], "--key-dir", keyDir)
	require.NoError(t, err)
	assert.Equal(t, "DECRYPTED : 42\n", out)
}

func TestRSACommands_ConfigFile(t *testing.T) {
	keyDir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "rsa-cli.yaml")
	content := strings.Join([]string{
		"rsa:",
		"  public_exponent: 3",
		"  max_generation_attempts: 100",
		"storage:",
		"  key_dir: " + keyDir,
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	_, err := executeCLI(t, "generate", "--digits", "10", "--config", configPath)
	require.NoError(t, err)

	exponent, err := os.ReadFile(filepath.Join(keyDir, persistence.PublicDirName, persistence.PublicExponentFile))
	require.NoError(t, err)
	assert.Equal(t, "0x3", strings.TrimSpace(string(exponent)))

	out, err := executeCLI(t, "encrypt", "-m", "7", "--config", configPath)
	require.NoError(t, err)
	match := encryptedPattern.FindStringSubmatch(out)
	require.Len(t, match, 2)
	assert.Equal(t, "343", match[1])
}

func TestRSACommands_MissingKeys(t *testing.T) {
	keyDir := t.TempDir()

	_, err := executeCLI(t, "encrypt", "-m", "42", "--key-dir", keyDir)
	assert.ErrorIs(t, err, cryptoalg.ErrMissingKeys)
	assert.Contains(t, err.Error(), "rsa-cli generate")

	_, err = executeCLI(t, "decrypt", "-m", "42", "--key-dir", keyDir)
	assert.ErrorIs(t, err, cryptoalg.ErrMissingKeys)
}

func TestRSACommands_InvalidArguments(t *testing.T) {
	keyDir := t.TempDir()

	_, err := executeCLI(t, "generate", "--digits", "1", "--key-dir", keyDir)
	assert.ErrorIs(t, err, cryptoalg.ErrInvalidParameters)

	_, err = executeCLI(t, "encrypt", "-m", "forty-two", "--key-dir", keyDir)
	assert.ErrorIs(t, err, cryptoalg.ErrInvalidParameters)

	_, err = executeCLI(t, "encrypt", "--key-dir", keyDir)
	assert.Error(t, err, "message is required")

	_, err = executeCLI(t, "generate", "--digits", "eight", "--key-dir", keyDir)
	assert.Error(t, err)

	_, err = executeCLI(t, "encrypt", "-m", "1", "--storage", "tape", "--key-dir", keyDir)
	assert.Error(t, err)

	_, err = executeCLI(t, "sign", "--key-dir", keyDir)
	assert.Error(t, err)
}

func TestConsoleProgress(t *testing.T) {
	var out bytes.Buffer
	progress := newConsoleProgress(&out)

	progress.OnProgress(cryptoalg.ProgressEvent{Stage: cryptoalg.StageGeneratingPrimes, PrimeDigits: 50})
	progress.OnProgress(cryptoalg.ProgressEvent{Stage: cryptoalg.StagePrimesReady})
	progress.OnProgress(cryptoalg.ProgressEvent{Stage: cryptoalg.StageDerivingKeys})
	// retried attempt
	progress.OnProgress(cryptoalg.ProgressEvent{Stage: cryptoalg.StageGeneratingPrimes, PrimeDigits: 50})
	progress.OnProgress(cryptoalg.ProgressEvent{Stage: cryptoalg.StagePrimesReady})

	assert.Equal(t,
		"(~) Generating two 50 digits-long random prime numbers, please wait... OK\n"+
			"(~) Generating public and private keys based on prime numbers... FAILED\n"+
			"(~) Generating two 50 digits-long random prime numbers, please wait... OK\n",
		out.String())
}
