package cryptoalg

import "errors"

var (
	// ErrInverseUndefined is returned when a modular inverse is requested for operands that are not coprime.
	ErrInverseUndefined = errors.New("modular inverse undefined")

	// ErrMalformedKeyData is returned when persisted key material is not a valid hexadecimal integer.
	ErrMalformedKeyData = errors.New("malformed key data")

	// ErrMissingKeys is returned when encryption or decryption is requested before a key pair exists.
	ErrMissingKeys = errors.New("missing keys")

	// ErrInvalidParameters is returned for non-positive lengths, bad moduli and unparsable messages.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrWeakPrimePair is returned when no second prime far enough from the first could be drawn.
	ErrWeakPrimePair = errors.New("weak prime pair")
)
