// Package persistence provides the key pair store implementations.
// Key pairs are kept either as hex text files below a key directory or in a
// SQL database through GORM (sqlite or postgres). Both stores keep exactly one
// active key pair and log what they persist.
package persistence
