package persistence

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/AastromSecurity/Crypto/internal/pkg/config"
	"github.com/AastromSecurity/Crypto/internal/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDBConnection opens the key pair database described by settings.
// A postgres database named by settings.Name is created when missing.
func NewDBConnection(settings config.DatabaseSettings, logger logger.Logger) (*gorm.DB, error) {
	switch settings.Type {
	case config.PostgresDbType:
		return openPostgres(settings, logger)
	case config.SqliteDbType:
		dsn := settings.DSN
		if dsn == "" {
			dsn = ":memory:"
		}
		db, err := gorm.Open(sqlite.Open(dsn), quietConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", settings.Type)
	}
}

// openPostgres connects with the server DSN and, when a database name is set,
// reconnects to that database after making sure it exists.
func openPostgres(settings config.DatabaseSettings, logger logger.Logger) (*gorm.DB, error) {
	server, err := gorm.Open(postgres.Open(settings.DSN), quietConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if settings.Name == "" {
		return server, nil
	}

	sqlDB, err := server.DB()
	if err != nil {
		if closer, ok := server.ConnPool.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("failed to get raw DB connection: %w", err)
	}

	ensureDatabase(sqlDB, settings.Name, logger)

	if err := sqlDB.Close(); err != nil {
		return nil, fmt.Errorf("failed to close initial DB connection: %w", err)
	}

	db, err := gorm.Open(postgres.Open(fmt.Sprintf("%s dbname=%s", settings.DSN, settings.Name)), quietConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database '%s': %w", settings.Name, err)
	}
	return db, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// ensureDatabase issues CREATE DATABASE. postgres has no IF NOT EXISTS for it, so
// a failure usually means the database is already there; the reconnect that
// follows reports the real problem otherwise.
func ensureDatabase(conn execer, name string, logger logger.Logger) {
	if _, err := conn.Exec(fmt.Sprintf("CREATE DATABASE %s", name)); err != nil {
		logger.Debug("CREATE DATABASE ", name, " skipped: ", err)
	}
}

// quietConfig keeps GORM's own logger off stdout, which carries command output.
func quietConfig() *gorm.Config {
	return &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
