// Package keys defines the contracts for persisting the RSA key pair and for the
// services that generate keys and run the cipher against them.
package keys
