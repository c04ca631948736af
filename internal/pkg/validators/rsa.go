package validators

import (
	"math/big"

	"github.com/go-playground/validator/v10"
)

// MinKeyDigits is the smallest total digit length that still yields two one-digit primes.
const MinKeyDigits = 2

// DigitLengthTag is the struct tag name registered for DigitLengthValidation.
const DigitLengthTag = "digit_length"

// PublicExponentTag is the struct tag name registered for PublicExponentValidation.
const PublicExponentTag = "public_exponent"

// DigitLengthValidation validates a total key length in decimal digits.
// The length is split evenly between two primes, so it must be at least MinKeyDigits.
func DigitLengthValidation(fl validator.FieldLevel) bool {
	return fl.Field().Int() >= MinKeyDigits
}

// PublicExponentValidation validates an RSA public exponent: odd, at least 3 and prime.
func PublicExponentValidation(fl validator.FieldLevel) bool {
	e := fl.Field().Int()
	if e < 3 || e%2 == 0 {
		return false
	}
	return big.NewInt(e).ProbablyPrime(20)
}

// New returns a validator with the custom RSA tags registered.
func New() *validator.Validate {
	validate := validator.New()
	// Registration only fails for empty tags or nil functions.
	_ = validate.RegisterValidation(DigitLengthTag, DigitLengthValidation)
	_ = validate.RegisterValidation(PublicExponentTag, PublicExponentValidation)
	return validate
}
