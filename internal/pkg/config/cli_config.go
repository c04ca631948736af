package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by the CLI,
// e.g. rsa.public_exponent is configurable using RSA_CLI_RSA_PUBLIC_EXPONENT.
const EnvPrefix = "RSA_CLI"

// DefaultKeyDirName is the directory below the user's home holding the key files.
const DefaultKeyDirName = ".rsa"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"key-dir":   "storage.key_dir",
	"storage":   "storage.type",
	"db-dsn":    "storage.database.dsn",
	"log-level": "logger.log_level",
	"log-file":  "logger.file_path",
}

// CLIConfig aggregates every setting of the RSA command-line tool
type CLIConfig struct {
	Logger  LoggerSettings  `mapstructure:"logger"`
	RSA     RSASettings     `mapstructure:"rsa"`
	Storage StorageSettings `mapstructure:"storage"`
}

// Validate checks every settings section
func (c *CLIConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.RSA.Validate(); err != nil {
		return err
	}
	return c.Storage.Validate()
}

// InitializeCLIConfig loads the configuration from defaults, the YAML file at path,
// the environment and flags. An empty path searches for rsa-cli.yaml in the working
// directory and the default key directory and tolerates its absence.
// flags may be nil.
func InitializeCLIConfig(path string, flags *pflag.FlagSet) (*CLIConfig, error) {
	v := viper.New()

	keyDir, err := defaultKeyDir()
	if err != nil {
		return nil, err
	}
	setDefaults(v, keyDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("rsa-cli")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(keyDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, keyDir string) {
	logger := DefaultLoggerSettings()
	v.SetDefault("logger.log_level", logger.LogLevel)
	v.SetDefault("logger.log_type", logger.LogType)
	v.SetDefault("logger.file_path", logger.FilePath)
	v.SetDefault("logger.max_size", logger.MaxSize)
	v.SetDefault("logger.max_backups", logger.MaxBackups)
	v.SetDefault("logger.max_age", logger.MaxAge)

	rsa := DefaultRSASettings()
	v.SetDefault("rsa.public_exponent", rsa.PublicExponent)
	v.SetDefault("rsa.default_digits", rsa.DefaultDigits)
	v.SetDefault("rsa.max_prime_draws", rsa.MaxPrimeDraws)
	v.SetDefault("rsa.max_generation_attempts", rsa.MaxGenerationAttempts)
	v.SetDefault("rsa.primality.rounds", rsa.Primality.Rounds)
	v.SetDefault("rsa.primality.randomized_rounds", rsa.Primality.RandomizedRounds)

	v.SetDefault("storage.type", StorageTypeFile)
	v.SetDefault("storage.key_dir", keyDir)
	v.SetDefault("storage.database.type", "")
	v.SetDefault("storage.database.dsn", "")
	v.SetDefault("storage.database.name", "")
}

// normalize fills the database section from the storage type when it was left empty.
func (c *CLIConfig) normalize() {
	if c.Storage.Type == StorageTypeFile {
		return
	}
	if c.Storage.Database.Type == "" {
		c.Storage.Database.Type = c.Storage.Type
	}
	if c.Storage.Database.Type == SqliteDbType && c.Storage.Database.DSN == "" {
		c.Storage.Database.DSN = filepath.Join(c.Storage.KeyDir, "keys.db")
	}
}

func defaultKeyDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultKeyDirName), nil
}
