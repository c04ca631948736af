package commands

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/AastromSecurity/Crypto/internal/app"
	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/domain/keys"
	"github.com/AastromSecurity/Crypto/internal/infrastructure/cryptography"
	"github.com/AastromSecurity/Crypto/internal/infrastructure/persistence"
	"github.com/AastromSecurity/Crypto/internal/pkg/config"
	"github.com/AastromSecurity/Crypto/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// RSACommandHandler encapsulates logic for handling RSA operations via CLI.
type RSACommandHandler struct {
	cfg        *config.CLIConfig
	logger     logger.Logger
	generator  keys.KeyGenerationService
	cipher     keys.CipherService
	closeStore func() error
}

// NewRSACommandHandler loads the configuration visible to cmd (file, environment and flags)
// and wires the RSA processor, key store and services. Call Close when done.
func NewRSACommandHandler(cmd *cobra.Command) (*RSACommandHandler, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}

	cfg, err := config.InitializeCLIConfig(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	loggerInstance, err := setupLogger(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	rsaProcessor, err := cryptography.NewDefaultRSAProcessor(&cfg.RSA, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSA processor: %w", err)
	}

	keyStore, closeStore, err := persistence.NewKeyPairStore(cmd.Context(), &cfg.Storage, cfg.RSA.Exponent(), loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to open key store: %w", err)
	}

	generator, err := app.NewKeyGenerationService(rsaProcessor, keyStore, &cfg.RSA, loggerInstance)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("failed to create key generation service: %w", err)
	}

	cipher, err := app.NewCipherService(rsaProcessor, keyStore, loggerInstance)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("failed to create cipher service: %w", err)
	}

	return &RSACommandHandler{
		cfg:        cfg,
		logger:     loggerInstance,
		generator:  generator,
		cipher:     cipher,
		closeStore: closeStore,
	}, nil
}

// Close releases the key store.
func (commandHandler *RSACommandHandler) Close() {
	if err := commandHandler.closeStore(); err != nil {
		commandHandler.logger.Warn("Failed to close key store: ", err)
	}
}

// GenerateRSAKeysCmd generates an RSA key pair and replaces the stored one
func (commandHandler *RSACommandHandler) GenerateRSAKeysCmd(cmd *cobra.Command, _ []string) error {
	digits := commandHandler.cfg.RSA.DefaultDigits
	if cmd.Flags().Changed("digits") {
		var err error
		if digits, err = cmd.Flags().GetInt("digits"); err != nil {
			return fmt.Errorf("invalid digits flag: %w", err)
		}
	}

	progress := newConsoleProgress(cmd.OutOrStdout())
	if _, err := commandHandler.generator.Generate(cmd.Context(), digits, progress); err != nil {
		progress.end("FAILED")
		return err
	}

	return nil
}

// EncryptRSACmd encrypts an integer message with the stored public key
func (commandHandler *RSACommandHandler) EncryptRSACmd(cmd *cobra.Command, _ []string) error {
	message, err := messageFlag(cmd)
	if err != nil {
		return err
	}

	encrypted, err := commandHandler.cipher.Encrypt(cmd.Context(), message)
	if err != nil {
		return withGenerateHint(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ENCRYPTED : %s\n", encrypted)
	return nil
}

// DecryptRSACmd decrypts an integer ciphertext with the stored private key
func (commandHandler *RSACommandHandler) DecryptRSACmd(cmd *cobra.Command, _ []string) error {
	ciphertext, err := messageFlag(cmd)
	if err != nil {
		return err
	}

	decrypted, err := commandHandler.cipher.Decrypt(cmd.Context(), ciphertext)
	if err != nil {
		return withGenerateHint(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "DECRYPTED : %s\n", decrypted)
	return nil
}

func messageFlag(cmd *cobra.Command) (*big.Int, error) {
	text, err := cmd.Flags().GetString("message")
	if err != nil {
		return nil, fmt.Errorf("invalid message flag: %w", err)
	}

	message, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, fmt.Errorf("%w: message %q is not a decimal integer", cryptoalg.ErrInvalidParameters, text)
	}
	return message, nil
}

func withGenerateHint(err error) error {
	if errors.Is(err, cryptoalg.ErrMissingKeys) {
		return fmt.Errorf("%w\nYou need to generate RSA keys first: rsa-cli generate --digits N", err)
	}
	return err
}

// withHandler builds a handler for the invoked command and runs fn with it.
func withHandler(fn func(*RSACommandHandler, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		handler, err := NewRSACommandHandler(cmd)
		if err != nil {
			return err
		}
		defer handler.Close()

		return fn(handler, cmd, args)
	}
}

// InitRSACommands registers RSA-related commands and the flags they share
func InitRSACommands(rootCmd *cobra.Command) error {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "", "", "Path to a YAML configuration file")
	flags.StringP("key-dir", "", "", "Directory holding the key files (default ~/.rsa)")
	flags.StringP("storage", "", "", "Key storage backend: file, sqlite or postgres")
	flags.StringP("db-dsn", "", "", "Database DSN for the sqlite and postgres backends")
	flags.StringP("log-level", "", "", "Log level: debug, info, warning, error or critical")
	flags.StringP("log-file", "", "", "Log file path used when the log type is file")

	var generateRSAKeysCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate and store an RSA key pair",
		Args:  cobra.NoArgs,
		RunE:  withHandler((*RSACommandHandler).GenerateRSAKeysCmd),
	}
	generateRSAKeysCmd.Flags().IntP("digits", "g", config.DefaultKeyDigits, "Decimal length of the modulus; each prime gets half of it")
	rootCmd.AddCommand(generateRSAKeysCmd)

	var encryptRSACmd = &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt an integer message with the stored public key",
		Args:  cobra.NoArgs,
		RunE:  withHandler((*RSACommandHandler).EncryptRSACmd),
	}
	encryptRSACmd.Flags().StringP("message", "m", "", "Message to encrypt, a decimal integer in [0, n)")
	if err := encryptRSACmd.MarkFlagRequired("message"); err != nil {
		return fmt.Errorf("failed to mark message flag as required: %w", err)
	}
	rootCmd.AddCommand(encryptRSACmd)

	var decryptRSACmd = &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt an integer ciphertext with the stored private key",
		Args:  cobra.NoArgs,
		RunE:  withHandler((*RSACommandHandler).DecryptRSACmd),
	}
	decryptRSACmd.Flags().StringP("message", "m", "", "Ciphertext to decrypt, a decimal integer")
	if err := decryptRSACmd.MarkFlagRequired("message"); err != nil {
		return fmt.Errorf("failed to mark message flag as required: %w", err)
	}
	rootCmd.AddCommand(decryptRSACmd)

	return nil
}
