package cryptoalg

import "math/big"

// RSAProcessor handles textbook RSA operations over integers.
// There is no padding: a message is an integer m with 0 <= m < n.
type RSAProcessor interface {
	// GenerateKeys generates a key pair whose modulus is built from two primes of
	// digits/2 decimal digits each. Progress is reported to observer, which may be nil.
	GenerateKeys(digits int, observer ProgressObserver) (*KeyPair, error)

	// Encrypt computes message^e mod n with the public key.
	// Messages outside [0, n) give a defined but meaningless result.
	Encrypt(message *big.Int, publicKey *PublicKey) (*big.Int, error)

	// Decrypt computes ciphertext^d mod n with the private key.
	Decrypt(ciphertext *big.Int, privateKey *PrivateKey) (*big.Int, error)
}

// PrimalityTester decides whether an integer is probably prime.
// A prime is always reported prime; a composite may slip through with bounded probability.
type PrimalityTester interface {
	IsProbablePrime(n *big.Int) (bool, error)
}

// PrimeGenerator produces primes with an exact number of decimal digits.
type PrimeGenerator interface {
	GeneratePrime(digits int) (*big.Int, error)
}
