package cryptoalg

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/go-playground/validator/v10"
)

// KeyPair holds the modulus and both exponents of an RSA key.
// The prime factors of N are not retained.
type KeyPair struct {
	N *big.Int `validate:"required"`
	E *big.Int `validate:"required"`
	D *big.Int `validate:"required"`
}

// PublicKey is the (n, e) half of a key pair.
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// PrivateKey is the (n, d) half of a key pair.
type PrivateKey struct {
	N *big.Int
	D *big.Int
}

// Public returns the public half of the key pair.
func (k *KeyPair) Public() *PublicKey {
	return &PublicKey{N: k.N, E: k.E}
}

// Private returns the private half of the key pair.
func (k *KeyPair) Private() *PrivateKey {
	return &PrivateKey{N: k.N, D: k.D}
}

// Validate for validating KeyPair struct
func (k *KeyPair) Validate() error {
	validate := validator.New()

	err := validate.Struct(k)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	for _, field := range []struct {
		name  string
		value *big.Int
	}{{"N", k.N}, {"E", k.E}, {"D", k.D}} {
		if field.value.Sign() <= 0 {
			return fmt.Errorf("validation failed: %s must be positive", field.name)
		}
	}

	return nil
}
