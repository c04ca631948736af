package cryptography

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/pkg/config"
)

// millerRabinTester implements cryptoalg.PrimalityTester.
type millerRabinTester struct {
	rounds     int
	randomized bool
	random     io.Reader
}

// NewMillerRabinTester creates a Miller-Rabin tester. A nil random source falls back to crypto/rand.
// With settings.RandomizedRounds each call runs a round count drawn uniformly from [2, settings.Rounds].
func NewMillerRabinTester(settings *config.PrimalitySettings, random io.Reader) (cryptoalg.PrimalityTester, error) {
	if settings == nil {
		return nil, fmt.Errorf("primality settings cannot be nil")
	}
	if settings.Rounds < 2 {
		return nil, fmt.Errorf("%w: at least 2 Miller-Rabin rounds are required, got %d", cryptoalg.ErrInvalidParameters, settings.Rounds)
	}
	if random == nil {
		random = rand.Reader
	}

	return &millerRabinTester{
		rounds:     settings.Rounds,
		randomized: settings.RandomizedRounds,
		random:     random,
	}, nil
}

// IsProbablePrime reports whether n is probably prime. A composite passes with
// probability at most 4^-k for k rounds. The error is non-nil only when the random
// source fails.
func (t *millerRabinTester) IsProbablePrime(n *big.Int) (bool, error) {
	if n.Cmp(two) == 0 || n.Cmp(three) == 0 {
		return true, nil
	}
	if n.Cmp(one) <= 0 || n.Bit(0) == 0 {
		return false, nil
	}

	nMinusOne := new(big.Int).Sub(n, one)
	s := nMinusOne.TrailingZeroBits()
	r := new(big.Int).Rsh(nMinusOne, s)

	k, err := t.roundCount()
	if err != nil {
		return false, err
	}

	// Witnesses are drawn from [2, n-1].
	witnessSpan := new(big.Int).Sub(n, two)
	x := new(big.Int)

	for i := 0; i < k; i++ {
		a, err := rand.Int(t.random, witnessSpan)
		if err != nil {
			return false, fmt.Errorf("failed to draw Miller-Rabin witness: %w", err)
		}
		a.Add(a, two)

		x.Exp(a, r, n)
		if x.Cmp(one) == 0 || x.Cmp(nMinusOne) == 0 {
			continue
		}

		passed := false
		for j := uint(1); j < s; j++ {
			x.Exp(x, two, n)
			if x.Cmp(nMinusOne) == 0 {
				passed = true
				break
			}
			if x.Cmp(one) == 0 {
				// non-trivial square root of 1
				return false, nil
			}
		}
		if !passed {
			return false, nil
		}
	}

	return true, nil
}

func (t *millerRabinTester) roundCount() (int, error) {
	if !t.randomized {
		return t.rounds, nil
	}
	k, err := rand.Int(t.random, big.NewInt(int64(t.rounds-1)))
	if err != nil {
		return 0, fmt.Errorf("failed to draw Miller-Rabin round count: %w", err)
	}
	return int(k.Int64()) + 2, nil
}
