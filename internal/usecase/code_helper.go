package usecase

import (
	"crypto/rand"
	"io"
)

// generateCode creates a random 8-character uppercase alphanumeric code.
// Uniqueness is not guaranteed up front; a collision surfaces as a
// duplicate-key error from the store and the caller retries.
func generateCode() (string, error) {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const codeLength = 8

	buffer := make([]byte, codeLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}

	for i := 0; i < codeLength; i++ {
		buffer[i] = chars[int(buffer[i])%len(chars)]
	}
	return string(buffer), nil
}
