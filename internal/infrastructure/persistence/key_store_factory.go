package persistence

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/AastromSecurity/Crypto/internal/domain/keys"
	"github.com/AastromSecurity/Crypto/internal/infrastructure/persistence/models"
	"github.com/AastromSecurity/Crypto/internal/pkg/config"
	"github.com/AastromSecurity/Crypto/internal/pkg/logger"
)

// NewKeyPairStore returns the KeyPairStore selected by settings.Type together with a
// function releasing the resources it holds. Database stores are migrated before use.
func NewKeyPairStore(ctx context.Context, settings *config.StorageSettings, defaultExponent *big.Int, logger logger.Logger) (keys.KeyPairStore, func() error, error) {
	if settings == nil {
		return nil, nil, fmt.Errorf("storage settings cannot be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid storage settings: %w", err)
	}

	noop := func() error { return nil }

	switch settings.Type {
	case config.StorageTypeFile:
		store, err := NewFileKeyPairStore(settings.KeyDir, defaultExponent, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.SqliteDbType, config.PostgresDbType:
		if settings.Database.Type == config.SqliteDbType {
			if err := ensureSQLiteDir(settings.Database.DSN); err != nil {
				return nil, nil, err
			}
		}

		db, err := NewDBConnection(settings.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() error { return CloseDB(db) }

		if err := db.WithContext(ctx).AutoMigrate(&models.KeyPairModel{}); err != nil {
			_ = closeDB()
			return nil, nil, fmt.Errorf("failed to migrate key pair schema: %w", err)
		}

		store, err := NewGormKeyPairStore(db, logger)
		if err != nil {
			_ = closeDB()
			return nil, nil, err
		}
		return store, closeDB, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", settings.Type)
	}
}

// ensureSQLiteDir creates the parent directory of a file backed sqlite DSN.
func ensureSQLiteDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, keyDirPerm); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}
