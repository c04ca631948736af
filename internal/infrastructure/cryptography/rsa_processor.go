package cryptography

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/pkg/config"
	"github.com/AastromSecurity/Crypto/internal/pkg/logger"
	"github.com/AastromSecurity/Crypto/internal/pkg/validators"
)

// rsaProcessor struct that implements the RSAProcessor interface
type rsaProcessor struct {
	primes        cryptoalg.PrimeGenerator
	exponent      *big.Int
	maxPrimeDraws int
	logger        logger.Logger
}

// NewRSAProcessor creates and returns a new instance of rsaProcessor
func NewRSAProcessor(settings *config.RSASettings, primes cryptoalg.PrimeGenerator, logger logger.Logger) (cryptoalg.RSAProcessor, error) {
	if settings == nil {
		return nil, fmt.Errorf("RSA settings cannot be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid RSA settings: %w", err)
	}
	if primes == nil {
		return nil, fmt.Errorf("prime generator cannot be nil")
	}

	return &rsaProcessor{
		primes:        primes,
		exponent:      settings.Exponent(),
		maxPrimeDraws: settings.MaxPrimeDraws,
		logger:        logger,
	}, nil
}

// NewDefaultRSAProcessor wires a Miller-Rabin tester and prime generator over crypto/rand.
func NewDefaultRSAProcessor(settings *config.RSASettings, logger logger.Logger) (cryptoalg.RSAProcessor, error) {
	if settings == nil {
		return nil, fmt.Errorf("RSA settings cannot be nil")
	}

	tester, err := NewMillerRabinTester(&settings.Primality, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create primality tester: %w", err)
	}

	primes, err := NewPrimeGenerator(tester, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create prime generator: %w", err)
	}

	return NewRSAProcessor(settings, primes, logger)
}

// MinPrimeGap is the smallest accepted distance |p - q| between two primes of the given length.
func MinPrimeGap(primeDigits int) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(int64(primeDigits/2)), nil)
}

// GenerateKeys generates an RSA key pair from two primes of digits/2 decimal digits.
// The second prime is redrawn while it is closer than MinPrimeGap to the first.
func (r *rsaProcessor) GenerateKeys(digits int, observer cryptoalg.ProgressObserver) (*cryptoalg.KeyPair, error) {
	if digits < validators.MinKeyDigits {
		return nil, fmt.Errorf("%w: key length must be at least %d digits, got %d", cryptoalg.ErrInvalidParameters, validators.MinKeyDigits, digits)
	}
	primeDigits := digits / 2

	cryptoalg.Notify(observer, cryptoalg.ProgressEvent{Stage: cryptoalg.StageGeneratingPrimes, PrimeDigits: primeDigits})

	p, err := r.primes.GeneratePrime(primeDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate first prime: %w", err)
	}
	q, err := r.secondPrime(p, primeDigits)
	if err != nil {
		return nil, err
	}

	cryptoalg.Notify(observer, cryptoalg.ProgressEvent{Stage: cryptoalg.StagePrimesReady})
	cryptoalg.Notify(observer, cryptoalg.ProgressEvent{Stage: cryptoalg.StageDerivingKeys})

	n := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))

	d, err := InverseModulo(r.exponent, phi)
	if err != nil {
		return nil, fmt.Errorf("failed to derive private exponent: %w", err)
	}

	keyPair := &cryptoalg.KeyPair{
		N: n,
		E: new(big.Int).Set(r.exponent),
		D: d,
	}

	cryptoalg.Notify(observer, cryptoalg.ProgressEvent{Stage: cryptoalg.StageKeysReady})
	r.logger.Info("Generated RSA key pair with a ", len(n.String()), "-digit modulus")
	return keyPair, nil
}

func (r *rsaProcessor) secondPrime(p *big.Int, primeDigits int) (*big.Int, error) {
	minGap := MinPrimeGap(primeDigits)
	gap := new(big.Int)

	for draw := 1; draw <= r.maxPrimeDraws; draw++ {
		q, err := r.primes.GeneratePrime(primeDigits)
		if err != nil {
			return nil, fmt.Errorf("failed to generate second prime: %w", err)
		}
		if gap.Sub(p, q).Abs(gap).Cmp(minGap) >= 0 {
			return q, nil
		}
		r.logger.Debug("Rejected second prime closer than ", minGap, " to the first (draw ", draw, ")")
	}

	return nil, fmt.Errorf("%w: no second prime at least %s away from the first after %d draws", cryptoalg.ErrWeakPrimePair, minGap, r.maxPrimeDraws)
}

// Encrypt computes message^e mod n with the public key.
func (r *rsaProcessor) Encrypt(message *big.Int, publicKey *cryptoalg.PublicKey) (*big.Int, error) {
	if publicKey == nil || publicKey.N == nil || publicKey.E == nil {
		return nil, fmt.Errorf("%w: public key cannot be nil", cryptoalg.ErrMissingKeys)
	}
	if err := checkOperands(message, publicKey.N, publicKey.E); err != nil {
		return nil, err
	}

	cipherText := Cipher(message, publicKey.E, publicKey.N)
	r.logger.Info("RSA encryption succeeded")
	return cipherText, nil
}

// Decrypt computes ciphertext^d mod n with the private key.
func (r *rsaProcessor) Decrypt(ciphertext *big.Int, privateKey *cryptoalg.PrivateKey) (*big.Int, error) {
	if privateKey == nil || privateKey.N == nil || privateKey.D == nil {
		return nil, fmt.Errorf("%w: private key cannot be nil", cryptoalg.ErrMissingKeys)
	}
	if err := checkOperands(ciphertext, privateKey.N, privateKey.D); err != nil {
		return nil, err
	}

	plainText := Decipher(ciphertext, privateKey.D, privateKey.N)
	r.logger.Info("RSA decryption succeeded")
	return plainText, nil
}

func checkOperands(value, modulus, exponent *big.Int) error {
	switch {
	case value == nil:
		return fmt.Errorf("%w: message cannot be nil", cryptoalg.ErrInvalidParameters)
	case modulus.Sign() <= 0:
		return fmt.Errorf("%w: modulus must be positive", cryptoalg.ErrInvalidParameters)
	case exponent.Sign() <= 0:
		return fmt.Errorf("%w: exponent must be positive", cryptoalg.ErrInvalidParameters)
	}
	return nil
}
