package utils

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// ValidateUsername validates username format.
// Rules: 3-20 characters, letters, numbers, underscores only. Usernames are
// case-sensitive and stored as given.
func ValidateUsername(username string) error {
	if username != strings.TrimSpace(username) {
		return &models.ValidationError{Field: "username", Message: "Username must not start or end with spaces"}
	}

	if len(username) < MinUsernameLength {
		return &models.ValidationError{Field: "username", Message: "Username must be at least 3 characters"}
	}

	if len(username) > MaxUsernameLength {
		return &models.ValidationError{Field: "username", Message: "Username must be at most 20 characters"}
	}

	if !usernameRegex.MatchString(username) {
		return &models.ValidationError{Field: "username", Message: "Username can only contain letters, numbers, and underscores"}
	}

	if !(unicode.IsLetter(rune(username[0])) || unicode.IsNumber(rune(username[0]))) {
		return &models.ValidationError{Field: "username", Message: "Username must start with a letter or number"}
	}

	return nil
}

// ValidatePassword checks the length limits of a new password.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &models.ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	if len(password) > MaxPasswordLength {
		return &models.ValidationError{Field: "password", Message: "Password must be at most 128 characters"}
	}
	return nil
}

// NormalizeEmail trims and lowercases an email address and checks its syntax.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &models.ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	return email, nil
}
