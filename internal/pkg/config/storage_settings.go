package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Storage type constants
const (
	StorageTypeFile = "file"
	SqliteDbType    = "sqlite"
	PostgresDbType  = "postgres"
)

// DatabaseSettings holds the connection parameters of a SQL key store
type DatabaseSettings struct {
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	DSN  string `mapstructure:"dsn" validate:"required"`
	Name string `mapstructure:"name" validate:"required_if=Type postgres"`
}

// Validate checks that all fields in DatabaseSettings are valid
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}
	return nil
}

// StorageSettings selects where the key pair is persisted.
// KeyDir is used by the file store, Database by the sqlite and postgres stores.
type StorageSettings struct {
	Type     string           `mapstructure:"type" validate:"required,oneof=file sqlite postgres"`
	KeyDir   string           `mapstructure:"key_dir"`
	Database DatabaseSettings `mapstructure:"database" validate:"-"`
}

// Validate checks that all fields in StorageSettings are valid
func (s *StorageSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for StorageSettings: %w", err)
	}

	if s.Type == StorageTypeFile {
		if s.KeyDir == "" {
			return fmt.Errorf("key directory is required for file storage")
		}
		return nil
	}

	if s.Database.Type != s.Type {
		return fmt.Errorf("database type %q does not match storage type %q", s.Database.Type, s.Type)
	}
	return s.Database.Validate()
}
