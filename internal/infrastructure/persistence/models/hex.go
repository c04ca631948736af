package models

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
)

// HexPrefix marks the text form of stored integers.
const HexPrefix = "0x"

// FormatHexInteger renders v as 0x followed by lowercase hex digits.
func FormatHexInteger(v *big.Int) string {
	return HexPrefix + v.Text(16)
}

// ParseHexInteger parses a positive integer written in hex, with or without the 0x prefix.
// Surrounding whitespace is ignored.
func ParseHexInteger(text string) (*big.Int, error) {
	digits := strings.TrimSpace(text)
	if len(digits) >= 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}
	if digits == "" || digits[0] == '-' || digits[0] == '+' {
		return nil, fmt.Errorf("%w: %q is not a hex integer", cryptoalg.ErrMalformedKeyData, text)
	}

	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a hex integer", cryptoalg.ErrMalformedKeyData, text)
	}
	if v.Sign() == 0 {
		return nil, fmt.Errorf("%w: stored key values must be positive", cryptoalg.ErrMalformedKeyData)
	}
	return v, nil
}
