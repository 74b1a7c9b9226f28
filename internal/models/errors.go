package models

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUsernameTaken         = errors.New("username is already taken")
	ErrEmailTaken            = errors.New("email is already registered")
	ErrInvalidOrExpiredToken = errors.New("password reset token is invalid or has expired")
	ErrUnauthenticated       = errors.New("you must be logged in first")
	ErrForbidden             = errors.New("you can only modify your own content")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("record was modified concurrently")
	ErrUnavailable           = errors.New("service unavailable")
)

// IsDuplicateKey reports whether err is one of the uniqueness violations.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken)
}

// ValidationError describes a single rejected input field. It matches
// ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
