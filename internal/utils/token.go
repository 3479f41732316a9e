package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateVerificationToken returns a random opaque token and the SHA-256
// digest under which it is stored. Only the digest ever reaches the database;
// the plaintext goes into the verification email.
func GenerateVerificationToken() (token string, digest string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	token = hex.EncodeToString(bytes)
	return token, HashToken(token), nil
}

// HashToken computes the storage digest of a plaintext verification token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
