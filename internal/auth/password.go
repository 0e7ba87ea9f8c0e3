package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt truncates passwords at 72 bytes.
	bcryptMaxPasswordBytes = 72
	minPasswordChars       = 8
)

var ErrPasswordValidation = errors.New("invalid password")

// HashPassword hashes a plaintext password using bcrypt.
//
// Validation:
// - Must be at least minPasswordChars characters.
// - Must be <= bcryptMaxPasswordBytes bytes when encoded as UTF-8.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: password required", ErrPasswordValidation)
	}
	if utf8.RuneCountInString(plain) < minPasswordChars {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrPasswordValidation, minPasswordChars)
	}
	if len(plain) > bcryptMaxPasswordBytes {
		return "", fmt.Errorf("%w: password too long: at most %d bytes (UTF-8)", ErrPasswordValidation, bcryptMaxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func IsPasswordValidationError(err error) bool {
	return errors.Is(err, ErrPasswordValidation)
}

func ComparePasswordHash(hash string, plain string) error {
	if plain == "" {
		return fmt.Errorf("%w: password required", ErrPasswordValidation)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
