package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	// ResetTokenBytes gives reset tokens 160 bits of entropy.
	ResetTokenBytes = 20
	// SessionTokenBytes gives session tokens 256 bits of entropy.
	SessionTokenBytes = 32
)

// GenerateToken returns n random bytes encoded as lowercase hex.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateResetToken returns a new password reset token.
func GenerateResetToken() (string, error) {
	return GenerateToken(ResetTokenBytes)
}

// GenerateSessionToken returns a new URL-safe session token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
