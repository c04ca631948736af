package cryptography

import "math/big"

// Cipher computes message^e mod n by repeated squaring.
// Callers are expected to keep 0 <= message < n; nothing is padded or checked.
func Cipher(message, e, n *big.Int) *big.Int {
	return new(big.Int).Exp(message, e, n)
}

// Decipher computes ciphertext^d mod n by repeated squaring.
func Decipher(ciphertext, d, n *big.Int) *big.Int {
	return new(big.Int).Exp(ciphertext, d, n)
}
