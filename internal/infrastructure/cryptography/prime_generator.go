package cryptography

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
)

var ten = big.NewInt(10)

// primeGenerator implements cryptoalg.PrimeGenerator by random sampling plus a forward search.
type primeGenerator struct {
	tester cryptoalg.PrimalityTester
	random io.Reader
}

// NewPrimeGenerator creates a prime generator. A nil random source falls back to crypto/rand.
func NewPrimeGenerator(tester cryptoalg.PrimalityTester, random io.Reader) (cryptoalg.PrimeGenerator, error) {
	if tester == nil {
		return nil, fmt.Errorf("primality tester cannot be nil")
	}
	if random == nil {
		random = rand.Reader
	}
	return &primeGenerator{tester: tester, random: random}, nil
}

// DigitBounds returns [10^(digits-1), 10^digits - 1].
func DigitBounds(digits int) (lower, upper *big.Int) {
	lower = new(big.Int).Exp(ten, big.NewInt(int64(digits-1)), nil)
	upper = new(big.Int).Exp(ten, big.NewInt(int64(digits)), nil)
	upper.Sub(upper, one)
	return lower, upper
}

// RandomOddByLength draws a uniform integer with exactly digits decimal digits and
// bumps it to the next odd number. The result stays within the digit range because
// 10^digits - 1 is odd.
func RandomOddByLength(random io.Reader, digits int) (*big.Int, error) {
	if digits <= 0 {
		return nil, fmt.Errorf("%w: digit length must be positive, got %d", cryptoalg.ErrInvalidParameters, digits)
	}

	lower, upper := DigitBounds(digits)
	span := new(big.Int).Sub(upper, lower)
	span.Add(span, one)

	candidate, err := rand.Int(random, span)
	if err != nil {
		return nil, fmt.Errorf("failed to draw random candidate: %w", err)
	}
	candidate.Add(candidate, lower)
	if candidate.Bit(0) == 0 {
		candidate.Add(candidate, one)
	}
	return candidate, nil
}

// GeneratePrime returns a probable prime with exactly digits decimal digits.
// The search walks odd numbers upwards from a random start and wraps to the bottom
// of the range when it runs past 10^digits - 1. Termination relies on prime density;
// there is no iteration bound.
func (g *primeGenerator) GeneratePrime(digits int) (*big.Int, error) {
	candidate, err := RandomOddByLength(g.random, digits)
	if err != nil {
		return nil, err
	}

	lower, upper := DigitBounds(digits)
	firstOdd := new(big.Int).SetBit(lower, 0, 1)

	for {
		if candidate.Cmp(upper) > 0 {
			candidate.Set(firstOdd)
		}

		prime, err := g.tester.IsProbablePrime(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to test candidate: %w", err)
		}
		if prime {
			return candidate, nil
		}
		candidate.Add(candidate, two)
	}
}
