// Package cryptoalg defines the core interfaces and structures for textbook RSA,
// such as key pairs, primality testing, prime generation, key derivation and the raw
// modular-exponentiation cipher.
package cryptoalg
