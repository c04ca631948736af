package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/domain/keys"
	"github.com/AastromSecurity/Crypto/internal/infrastructure/persistence/models"
	"github.com/AastromSecurity/Crypto/internal/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormKeyPairStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormKeyPairStore creates a new GORM-based KeyPairStore implementation
func NewGormKeyPairStore(db *gorm.DB, logger logger.Logger) (keys.KeyPairStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &gormKeyPairStore{
		db:     db,
		logger: logger,
	}, nil
}

// Save replaces every stored key pair with keyPair in a single transaction.
func (r *gormKeyPairStore) Save(ctx context.Context, keyPair *cryptoalg.KeyPair) error {
	if keyPair == nil {
		return fmt.Errorf("%w: key pair cannot be nil", cryptoalg.ErrInvalidParameters)
	}
	if err := keyPair.Validate(); err != nil {
		return fmt.Errorf("%w: %v", cryptoalg.ErrInvalidParameters, err)
	}

	model := &models.KeyPairModel{
		ID:              uuid.NewString(),
		DateTimeCreated: time.Now().UTC(),
	}
	model.FromDomain(keyPair)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.KeyPairModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete previous key pair: %w", err)
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create key pair: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Stored RSA key pair with id ", model.ID)
	return nil
}

func (r *gormKeyPairStore) latest(ctx context.Context) (*cryptoalg.KeyPair, error) {
	var model models.KeyPairModel
	if err := r.db.WithContext(ctx).Order("date_time_created desc").Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no key pair stored", cryptoalg.ErrMissingKeys)
		}
		return nil, fmt.Errorf("failed to fetch key pair: %w", err)
	}

	keyPair, err := model.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("key pair %s: %w", model.ID, err)
	}
	return keyPair, nil
}

// LoadPublicKey returns (n, e) of the newest key pair.
func (r *gormKeyPairStore) LoadPublicKey(ctx context.Context) (*cryptoalg.PublicKey, error) {
	keyPair, err := r.latest(ctx)
	if err != nil {
		return nil, err
	}
	return keyPair.Public(), nil
}

// LoadPrivateKey returns (n, d) of the newest key pair.
func (r *gormKeyPairStore) LoadPrivateKey(ctx context.Context) (*cryptoalg.PrivateKey, error) {
	keyPair, err := r.latest(ctx)
	if err != nil {
		return nil, err
	}
	return keyPair.Private(), nil
}
