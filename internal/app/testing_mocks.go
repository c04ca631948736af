//go:build unit
// +build unit

package app

import (
	"context"
	"math/big"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"

	"github.com/stretchr/testify/mock"
)

// MockRSAProcessor is a mock implementation of RSAProcessor
type MockRSAProcessor struct {
	mock.Mock
}

func (m *MockRSAProcessor) GenerateKeys(digits int, observer cryptoalg.ProgressObserver) (*cryptoalg.KeyPair, error) {
	args := m.Called(digits, observer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoalg.KeyPair), args.Error(1)
}

func (m *MockRSAProcessor) Encrypt(message *big.Int, publicKey *cryptoalg.PublicKey) (*big.Int, error) {
	args := m.Called(message, publicKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockRSAProcessor) Decrypt(ciphertext *big.Int, privateKey *cryptoalg.PrivateKey) (*big.Int, error) {
	args := m.Called(ciphertext, privateKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

// MockKeyPairStore is a mock implementation of KeyPairStore
type MockKeyPairStore struct {
	mock.Mock
}

func (m *MockKeyPairStore) Save(ctx context.Context, keyPair *cryptoalg.KeyPair) error {
	args := m.Called(ctx, keyPair)
	return args.Error(0)
}

func (m *MockKeyPairStore) LoadPublicKey(ctx context.Context) (*cryptoalg.PublicKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoalg.PublicKey), args.Error(1)
}

func (m *MockKeyPairStore) LoadPrivateKey(ctx context.Context) (*cryptoalg.PrivateKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoalg.PrivateKey), args.Error(1)
}
