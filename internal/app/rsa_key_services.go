package app

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/domain/keys"
	"github.com/AastromSecurity/Crypto/internal/pkg/config"
	"github.com/AastromSecurity/Crypto/internal/pkg/logger"

	"github.com/sethvargo/go-retry"
)

// GenerationRetryDelay is the pause between two key generation attempts.
const GenerationRetryDelay = 10 * time.Millisecond

// keyGenerationService implements the KeyGenerationService interface
type keyGenerationService struct {
	rsaProcessor cryptoalg.RSAProcessor
	keyStore     keys.KeyPairStore
	maxAttempts  int
	retryDelay   time.Duration
	logger       logger.Logger
}

// NewKeyGenerationService creates a new keyGenerationService instance
func NewKeyGenerationService(
	rsaProcessor cryptoalg.RSAProcessor,
	keyStore keys.KeyPairStore,
	settings *config.RSASettings,
	logger logger.Logger,
) (keys.KeyGenerationService, error) {
	if rsaProcessor == nil || keyStore == nil {
		return nil, fmt.Errorf("RSA processor and key store are required")
	}
	if settings == nil {
		return nil, fmt.Errorf("RSA settings cannot be nil")
	}
	if settings.MaxGenerationAttempts < 1 {
		return nil, fmt.Errorf("%w: at least one generation attempt is required", cryptoalg.ErrInvalidParameters)
	}

	return &keyGenerationService{
		rsaProcessor: rsaProcessor,
		keyStore:     keyStore,
		maxAttempts:  settings.MaxGenerationAttempts,
		retryDelay:   GenerationRetryDelay,
		logger:       logger,
	}, nil
}

// Generate creates a key pair with a modulus of about digits decimal digits and persists it,
// replacing the stored key pair. Attempts that hit an exponent without inverse or a weak
// prime pair are retried with fresh primes.
func (s *keyGenerationService) Generate(ctx context.Context, digits int, observer cryptoalg.ProgressObserver) (*cryptoalg.KeyPair, error) {
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewConstant(s.retryDelay))
	keyPair, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (*cryptoalg.KeyPair, error) {
		attempt++

		generated, err := s.rsaProcessor.GenerateKeys(digits, observer)
		if err != nil {
			if isTransientGenerationError(err) {
				s.logger.Warn("Key generation attempt ", attempt, " of ", s.maxAttempts, " failed: ", err)
				return nil, retry.RetryableError(err)
			}
			return nil, err
		}
		return generated, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	cryptoalg.Notify(observer, cryptoalg.ProgressEvent{Stage: cryptoalg.StageStoringKeys})
	if err := s.keyStore.Save(ctx, keyPair); err != nil {
		return nil, fmt.Errorf("failed to store key pair: %w", err)
	}
	cryptoalg.Notify(observer, cryptoalg.ProgressEvent{Stage: cryptoalg.StageKeysStored})

	s.logger.Info("Generated and stored RSA key pair after ", attempt, " attempt(s)")
	return keyPair, nil
}

func isTransientGenerationError(err error) bool {
	return errors.Is(err, cryptoalg.ErrInverseUndefined) || errors.Is(err, cryptoalg.ErrWeakPrimePair)
}

// cipherService implements the CipherService interface
type cipherService struct {
	rsaProcessor cryptoalg.RSAProcessor
	keyStore     keys.KeyPairStore
	logger       logger.Logger
}

// NewCipherService creates a new cipherService instance
func NewCipherService(rsaProcessor cryptoalg.RSAProcessor, keyStore keys.KeyPairStore, logger logger.Logger) (keys.CipherService, error) {
	if rsaProcessor == nil || keyStore == nil {
		return nil, fmt.Errorf("RSA processor and key store are required")
	}

	return &cipherService{
		rsaProcessor: rsaProcessor,
		keyStore:     keyStore,
		logger:       logger,
	}, nil
}

// Encrypt encrypts message with the stored public key.
func (s *cipherService) Encrypt(ctx context.Context, message *big.Int) (*big.Int, error) {
	publicKey, err := s.keyStore.LoadPublicKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key: %w", err)
	}
	s.warnOutOfRange(message, publicKey.N, "message")

	return s.rsaProcessor.Encrypt(message, publicKey)
}

// Decrypt decrypts ciphertext with the stored private key.
func (s *cipherService) Decrypt(ctx context.Context, ciphertext *big.Int) (*big.Int, error) {
	privateKey, err := s.keyStore.LoadPrivateKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	s.warnOutOfRange(ciphertext, privateKey.N, "ciphertext")

	return s.rsaProcessor.Decrypt(ciphertext, privateKey)
}

// warnOutOfRange logs values outside [0, n); they are reduced modulo n and will not round trip.
func (s *cipherService) warnOutOfRange(value, n *big.Int, what string) {
	if value == nil || n == nil {
		return
	}
	if value.Sign() < 0 || value.Cmp(n) >= 0 {
		s.logger.Warn("The ", what, " is outside [0, n) and will be reduced modulo n")
	}
}
