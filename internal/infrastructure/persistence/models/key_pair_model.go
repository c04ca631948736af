package models

import (
	"fmt"
	"time"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
)

// KeyPairModel is the GORM database model for RSA key pairs (infrastructure concern)
type KeyPairModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	DateTimeCreated time.Time `gorm:"not null;index"`
	Modulus         string    `gorm:"not null;type:text"`
	PublicExponent  string    `gorm:"not null;type:text"`
	PrivateExponent string    `gorm:"not null;type:text"`
}

// TableName specifies the table name for GORM
func (KeyPairModel) TableName() string {
	return "rsa_key_pairs"
}

// ToDomain converts GORM model to domain entity
func (m *KeyPairModel) ToDomain() (*cryptoalg.KeyPair, error) {
	n, err := ParseHexInteger(m.Modulus)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	e, err := ParseHexInteger(m.PublicExponent)
	if err != nil {
		return nil, fmt.Errorf("public exponent: %w", err)
	}
	d, err := ParseHexInteger(m.PrivateExponent)
	if err != nil {
		return nil, fmt.Errorf("private exponent: %w", err)
	}

	return &cryptoalg.KeyPair{N: n, E: e, D: d}, nil
}

// FromDomain converts domain entity to GORM model
func (m *KeyPairModel) FromDomain(k *cryptoalg.KeyPair) {
	m.Modulus = FormatHexInteger(k.N)
	m.PublicExponent = FormatHexInteger(k.E)
	m.PrivateExponent = FormatHexInteger(k.D)
}
