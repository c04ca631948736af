package config

import (
	"fmt"
	"math/big"

	"github.com/AastromSecurity/Crypto/internal/pkg/validators"
)

// DefaultPublicExponent is the Fermat prime F4.
const DefaultPublicExponent = 65537

// DefaultKeyDigits is the modulus length generated when none is requested.
const DefaultKeyDigits = 100

// DefaultPrimalityRounds bounds the Miller-Rabin error by 4^-40.
const DefaultPrimalityRounds = 40

// PrimalitySettings configures the Miller-Rabin tester.
// With RandomizedRounds set, each call draws its round count uniformly from [2, Rounds].
type PrimalitySettings struct {
	Rounds           int  `mapstructure:"rounds" validate:"gte=2,lte=256"`
	RandomizedRounds bool `mapstructure:"randomized_rounds"`
}

// RSASettings holds the parameters of key pair generation.
type RSASettings struct {
	PublicExponent        int64             `mapstructure:"public_exponent" validate:"required,public_exponent"`
	DefaultDigits         int               `mapstructure:"default_digits" validate:"digit_length"`
	MaxPrimeDraws         int               `mapstructure:"max_prime_draws" validate:"gte=1"`
	MaxGenerationAttempts int               `mapstructure:"max_generation_attempts" validate:"gte=1,lte=100"`
	Primality             PrimalitySettings `mapstructure:"primality"`
}

// DefaultRSASettings returns the settings used when nothing is configured.
func DefaultRSASettings() RSASettings {
	return RSASettings{
		PublicExponent:        DefaultPublicExponent,
		DefaultDigits:         DefaultKeyDigits,
		MaxPrimeDraws:         100,
		MaxGenerationAttempts: 5,
		Primality: PrimalitySettings{
			Rounds: DefaultPrimalityRounds,
		},
	}
}

// Exponent returns the public exponent as a big integer.
func (s *RSASettings) Exponent() *big.Int {
	return big.NewInt(s.PublicExponent)
}

// Validate checks that all fields in RSASettings are valid
func (s *RSASettings) Validate() error {
	if err := validators.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for RSASettings: %w", err)
	}
	return nil
}
