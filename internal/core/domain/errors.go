package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEntryNotFound      = errors.New("diary entry not found")
	ErrInvalidID          = errors.New("invalid identifier")
	ErrMalformedToken     = errors.New("malformed token")
	ErrInvalidSignature   = errors.New("invalid token signature")
)

// ValidationError reports required fields missing from a write.
type ValidationError struct {
	Entity string
	Fields []string
}

func (e *ValidationError) Error() string {
	return e.Entity + " validation failed: " + strings.Join(e.Fields, "; ")
}
