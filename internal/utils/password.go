package utils

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/quickbill/quickbill_backend/internal/apperrors"
)

const minPasswordLength = 8

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength enforces the minimum password policy applied at
// registration and password reset.
func ValidatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.NewBadRequestError("password must be at least 8 characters")
	}
	return nil
}
