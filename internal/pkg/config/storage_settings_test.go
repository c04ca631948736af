//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatabaseSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *DatabaseSettings
		expectedError bool
	}{
		{
			name: "valid postgres settings",
			settings: &DatabaseSettings{
				Type: PostgresDbType,
				DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
				Name: "rsa",
			},
			expectedError: false,
		},
		{
			name: "valid sqlite settings",
			settings: &DatabaseSettings{
				Type: SqliteDbType,
				DSN:  ":memory:",
			},
			expectedError: false,
		},
		{
			name: "missing type",
			settings: &DatabaseSettings{
				DSN: ":memory:",
			},
			expectedError: true,
		},
		{
			name: "unsupported type",
			settings: &DatabaseSettings{
				Type: "mysql",
				DSN:  "user:password@tcp(localhost:3306)/dbname",
			},
			expectedError: true,
		},
		{
			name: "missing DSN",
			settings: &DatabaseSettings{
				Type: SqliteDbType,
			},
			expectedError: true,
		},
		{
			name: "postgres missing name",
			settings: &DatabaseSettings{
				Type: PostgresDbType,
				DSN:  "host=localhost",
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStorageSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *StorageSettings
		expectedError bool
	}{
		{
			name:          "file storage",
			settings:      &StorageSettings{Type: StorageTypeFile, KeyDir: "/tmp/rsa"},
			expectedError: false,
		},
		{
			name:          "file storage without directory",
			settings:      &StorageSettings{Type: StorageTypeFile},
			expectedError: true,
		},
		{
			name: "sqlite storage",
			settings: &StorageSettings{
				Type:     SqliteDbType,
				Database: DatabaseSettings{Type: SqliteDbType, DSN: ":memory:"},
			},
			expectedError: false,
		},
		{
			name: "mismatched database type",
			settings: &StorageSettings{
				Type:     SqliteDbType,
				Database: DatabaseSettings{Type: PostgresDbType, DSN: "host=localhost", Name: "rsa"},
			},
			expectedError: true,
		},
		{
			name:          "unknown storage type",
			settings:      &StorageSettings{Type: "s3", KeyDir: "/tmp/rsa"},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
