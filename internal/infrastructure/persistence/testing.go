//go:build integration
// +build integration

package persistence

import (
	"fmt"
	"math/big"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/domain/keys"
	"github.com/AastromSecurity/Crypto/internal/infrastructure/persistence/models"
	"github.com/AastromSecurity/Crypto/internal/pkg/config"
	"github.com/AastromSecurity/Crypto/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestPostgresAdminDSN points at the postgres instance used by integration tests.
const TestPostgresAdminDSN = "user=postgres password=postgres host=localhost port=5432 sslmode=disable"

// TestContext holds test database and store
type TestContext struct {
	DB    *gorm.DB
	Store keys.KeyPairStore
}

// SetupTestDB initializes test database with automatic cleanup.
// Postgres tests are skipped when no server is reachable.
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanupFunc := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  filepath.Join(t.TempDir(), "keys.db"),
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  TestPostgresAdminDSN,
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			_ = DropDatabase(TestPostgresAdminDSN+" dbname=postgres", uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings, testutil.SetupTestLogger(t))
	if dbType == config.PostgresDbType && err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	err = db.AutoMigrate(&models.KeyPairModel{})
	require.NoError(t, err, "Failed to migrate schema")

	store, err := NewGormKeyPairStore(db, testutil.SetupTestLogger(t))
	require.NoError(t, err, "Failed to create key pair store")

	return &TestContext{
		DB:    db,
		Store: store,
	}
}

// DropDatabase removes a postgres database created by SetupTestDB
func DropDatabase(adminDSN, dbName string) error {
	db, err := gorm.Open(postgres.Open(adminDSN), quietConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer func() { _ = CloseDB(db) }()

	if err := db.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)).Error; err != nil {
		return fmt.Errorf("failed to drop database '%s': %w", dbName, err)
	}
	return nil
}

// CreateTestKeyPair returns the textbook key pair n=3233, e=17, d=2753
func CreateTestKeyPair(t *testing.T) *cryptoalg.KeyPair {
	t.Helper()

	return &cryptoalg.KeyPair{
		N: big.NewInt(3233),
		E: big.NewInt(17),
		D: big.NewInt(2753),
	}
}
