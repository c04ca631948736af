package keys

import (
	"context"
	"math/big"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
)

// KeyPairStore persists the single active RSA key pair.
// Save overwrites whatever was stored before.
type KeyPairStore interface {
	// Save persists the modulus and both exponents of the key pair.
	Save(ctx context.Context, keyPair *cryptoalg.KeyPair) error

	// LoadPublicKey returns (n, e). It returns cryptoalg.ErrMissingKeys when nothing is stored
	// and cryptoalg.ErrMalformedKeyData when stored values cannot be parsed.
	LoadPublicKey(ctx context.Context) (*cryptoalg.PublicKey, error)

	// LoadPrivateKey returns (n, d) with the same error contract as LoadPublicKey.
	LoadPrivateKey(ctx context.Context) (*cryptoalg.PrivateKey, error)
}

// KeyGenerationService generates and persists key pairs.
type KeyGenerationService interface {
	Generate(ctx context.Context, digits int, observer cryptoalg.ProgressObserver) (*cryptoalg.KeyPair, error)
}

// CipherService encrypts and decrypts integers with the stored key pair.
type CipherService interface {
	Encrypt(ctx context.Context, message *big.Int) (*big.Int, error)
	Decrypt(ctx context.Context, ciphertext *big.Int) (*big.Int, error)
}
