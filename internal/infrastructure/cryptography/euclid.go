package cryptography

import (
	"fmt"
	"math/big"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Xgcd returns g = gcd(a, b) together with Bézout coefficients x, y such that
// a*x + b*y == g. g is never negative. Xgcd(0, b) is (|b|, 0, ±1).
func Xgcd(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldX, x := big.NewInt(1), big.NewInt(0)
	oldY, y := big.NewInt(0), big.NewInt(1)
	q := new(big.Int)

	for r.Sign() != 0 {
		q.Quo(oldR, r)
		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(q, r))
		oldX, x = x, new(big.Int).Sub(oldX, new(big.Int).Mul(q, x))
		oldY, y = y, new(big.Int).Sub(oldY, new(big.Int).Mul(q, y))
	}

	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldX.Neg(oldX)
		oldY.Neg(oldY)
	}
	return oldR, oldX, oldY
}

// InverseModulo returns the unique d in [0, b) with (a*d) mod b == 1.
// It fails with cryptoalg.ErrInverseUndefined when gcd(a, b) != 1, when a ≡ 0 (mod b) or when b == 1,
// and with cryptoalg.ErrInvalidParameters when b is not positive.
func InverseModulo(a, b *big.Int) (*big.Int, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: operands cannot be nil", cryptoalg.ErrInvalidParameters)
	}
	if b.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus must be positive", cryptoalg.ErrInvalidParameters)
	}
	if b.Cmp(one) == 0 {
		return nil, fmt.Errorf("%w: modulus 1 has no unit inverse", cryptoalg.ErrInverseUndefined)
	}
	if new(big.Int).Mod(a, b).Sign() == 0 {
		return nil, fmt.Errorf("%w: no modular inverse exists for 0", cryptoalg.ErrInverseUndefined)
	}

	u1, u2, u3 := big.NewInt(1), big.NewInt(0), new(big.Int).Set(a)
	v1, v2, v3 := big.NewInt(0), big.NewInt(1), new(big.Int).Set(b)
	q := new(big.Int)

	// v3 stays non-negative after the first step because b > 0, so Euclidean
	// division matches floor division here.
	for v3.Sign() != 0 {
		q.Div(u3, v3)
		t1 := new(big.Int).Sub(u1, new(big.Int).Mul(q, v1))
		t2 := new(big.Int).Sub(u2, new(big.Int).Mul(q, v2))
		t3 := new(big.Int).Sub(u3, new(big.Int).Mul(q, v3))
		u1, u2, u3 = v1, v2, v3
		v1, v2, v3 = t1, t2, t3
	}

	if u3.Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: operands are not coprime", cryptoalg.ErrInverseUndefined)
	}
	return u1.Mod(u1, b), nil
}
