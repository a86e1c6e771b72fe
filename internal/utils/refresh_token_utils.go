package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshToken generates a SHA256 hash of a refresh token. Only the hash
// is persisted on the user row; the raw token never touches the database.
func HashRefreshToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}

// CompareRefreshTokenHash compares a raw refresh token with its stored hash
// in constant time.
func CompareRefreshTokenHash(token string, storedHash string) bool {
	return hmac.Equal([]byte(HashRefreshToken(token)), []byte(storedHash))
}
