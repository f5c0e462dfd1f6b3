package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewID generates a random 12-byte hex identifier
func NewID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
