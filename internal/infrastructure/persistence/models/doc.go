// Package models contains the storage representation of RSA key pairs.
// The GORM model and the hex text encoding shared with the file store live here,
// separate from the domain entities.
package models
