//go:build unit
// +build unit

package app

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/pkg/config"
	"github.com/AastromSecurity/Crypto/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testKeyPair() *cryptoalg.KeyPair {
	return &cryptoalg.KeyPair{
		N: big.NewInt(3233),
		E: big.NewInt(17),
		D: big.NewInt(2753),
	}
}

func setupGenerationService(t *testing.T, attempts int) (*keyGenerationService, *MockRSAProcessor, *MockKeyPairStore) {
	t.Helper()

	processor := &MockRSAProcessor{}
	store := &MockKeyPairStore{}
	settings := config.DefaultRSASettings()
	settings.MaxGenerationAttempts = attempts

	service, err := NewKeyGenerationService(processor, store, &settings, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	s := service.(*keyGenerationService)
	s.retryDelay = time.Nanosecond
	return s, processor, store
}

func TestKeyGenerationService_Generate(t *testing.T) {
	service, processor, store := setupGenerationService(t, 3)
	keyPair := testKeyPair()

	processor.On("GenerateKeys", 8, mock.Anything).Return(keyPair, nil).Once()
	store.On("Save", mock.Anything, keyPair).Return(nil).Once()

	var stages []cryptoalg.GenerationStage
	observer := cryptoalg.ProgressFunc(func(event cryptoalg.ProgressEvent) {
		stages = append(stages, event.Stage)
	})

	generated, err := service.Generate(context.Background(), 8, observer)
	require.NoError(t, err)
	assert.Same(t, keyPair, generated)
	assert.Equal(t, []cryptoalg.GenerationStage{cryptoalg.StageStoringKeys, cryptoalg.StageKeysStored}, stages)

	processor.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestKeyGenerationService_RetriesTransientErrors(t *testing.T) {
	service, processor, store := setupGenerationService(t, 3)
	keyPair := testKeyPair()

	processor.On("GenerateKeys", 8, mock.Anything).
		Return(nil, fmt.Errorf("derive: %w", cryptoalg.ErrInverseUndefined)).Once()
	processor.On("GenerateKeys", 8, mock.Anything).
		Return(nil, fmt.Errorf("primes: %w", cryptoalg.ErrWeakPrimePair)).Once()
	processor.On("GenerateKeys", 8, mock.Anything).Return(keyPair, nil).Once()
	store.On("Save", mock.Anything, keyPair).Return(nil).Once()

	generated, err := service.Generate(context.Background(), 8, nil)
	require.NoError(t, err)
	assert.Same(t, keyPair, generated)
	processor.AssertNumberOfCalls(t, "GenerateKeys", 3)
}

func TestKeyGenerationService_GivesUpAfterMaxAttempts(t *testing.T) {
	service, processor, store := setupGenerationService(t, 3)

	processor.On("GenerateKeys", 8, mock.Anything).
		Return(nil, fmt.Errorf("derive: %w", cryptoalg.ErrInverseUndefined))

	_, err := service.Generate(context.Background(), 8, nil)
	assert.ErrorIs(t, err, cryptoalg.ErrInverseUndefined)
	processor.AssertNumberOfCalls(t, "GenerateKeys", 3)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestKeyGenerationService_DoesNotRetryPermanentErrors(t *testing.T) {
	service, processor, store := setupGenerationService(t, 5)

	processor.On("GenerateKeys", 1, mock.Anything).
		Return(nil, fmt.Errorf("%w: too short", cryptoalg.ErrInvalidParameters))

	_, err := service.Generate(context.Background(), 1, nil)
	assert.ErrorIs(t, err, cryptoalg.ErrInvalidParameters)
	processor.AssertNumberOfCalls(t, "GenerateKeys", 1)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestKeyGenerationService_SaveFailure(t *testing.T) {
	service, processor, store := setupGenerationService(t, 1)
	keyPair := testKeyPair()

	processor.On("GenerateKeys", 8, mock.Anything).Return(keyPair, nil)
	store.On("Save", mock.Anything, keyPair).Return(errors.New("disk full"))

	_, err := service.Generate(context.Background(), 8, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestKeyGenerationService_CancelledContext(t *testing.T) {
	service, processor, _ := setupGenerationService(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Generate(ctx, 8, nil)
	assert.ErrorIs(t, err, context.Canceled)
	processor.AssertNotCalled(t, "GenerateKeys", mock.Anything, mock.Anything)
}

func TestNewKeyGenerationService_InvalidArguments(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	settings := config.DefaultRSASettings()

	_, err := NewKeyGenerationService(nil, &MockKeyPairStore{}, &settings, logger)
	assert.Error(t, err)

	_, err = NewKeyGenerationService(&MockRSAProcessor{}, &MockKeyPairStore{}, nil, logger)
	assert.Error(t, err)

	settings.MaxGenerationAttempts = 0
	_, err = NewKeyGenerationService(&MockRSAProcessor{}, &MockKeyPairStore{}, &settings, logger)
	assert.ErrorIs(t, err, cryptoalg.ErrInvalidParameters)
}

func TestCipherService_Encrypt(t *testing.T) {
	processor := &MockRSAProcessor{}
	store := &MockKeyPairStore{}
	service, err := NewCipherService(processor, store, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	publicKey := testKeyPair().Public()
	message := big.NewInt(65)
	store.On("LoadPublicKey", mock.Anything).Return(publicKey, nil)
	processor.On("Encrypt", message, publicKey).Return(big.NewInt(2790), nil)

	encrypted, err := service.Encrypt(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, int64(2790), encrypted.Int64())
	processor.AssertExpectations(t)
}

func TestCipherService_Decrypt(t *testing.T) {
	processor := &MockRSAProcessor{}
	store := &MockKeyPairStore{}
	service, err := NewCipherService(processor, store, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	privateKey := testKeyPair().Private()
	ciphertext := big.NewInt(2790)
	store.On("LoadPrivateKey", mock.Anything).Return(privateKey, nil)
	processor.On("Decrypt", ciphertext, privateKey).Return(big.NewInt(65), nil)

	decrypted, err := service.Decrypt(context.Background(), ciphertext)
	require.NoError(t, err)
	assert.Equal(t, int64(65), decrypted.Int64())
}

func TestCipherService_MissingKeys(t *testing.T) {
	processor := &MockRSAProcessor{}
	store := &MockKeyPairStore{}
	service, err := NewCipherService(processor, store, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	store.On("LoadPublicKey", mock.Anything).Return(nil, fmt.Errorf("%w: nothing stored", cryptoalg.ErrMissingKeys))
	store.On("LoadPrivateKey", mock.Anything).Return(nil, fmt.Errorf("%w: nothing stored", cryptoalg.ErrMissingKeys))

	_, err = service.Encrypt(context.Background(), big.NewInt(42))
	assert.ErrorIs(t, err, cryptoalg.ErrMissingKeys)

	_, err = service.Decrypt(context.Background(), big.NewInt(42))
	assert.ErrorIs(t, err, cryptoalg.ErrMissingKeys)

	processor.AssertNotCalled(t, "Encrypt", mock.Anything, mock.Anything)
	processor.AssertNotCalled(t, "Decrypt", mock.Anything, mock.Anything)
}

func TestCipherService_WarnsWhenMessageExceedsModulus(t *testing.T) {
	logger, buf := testutil.SetupBufferLogger(t)
	processor := &MockRSAProcessor{}
	store := &MockKeyPairStore{}
	service, err := NewCipherService(processor, store, logger)
	require.NoError(t, err)

	publicKey := testKeyPair().Public()
	message := big.NewInt(5000)
	store.On("LoadPublicKey", mock.Anything).Return(publicKey, nil)
	processor.On("Encrypt", message, publicKey).Return(big.NewInt(1), nil)

	_, err = service.Encrypt(context.Background(), message)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "outside [0, n)")
}
