package model

import "errors"

// Validation and lookup errors. Wrap with fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidSession     = errors.New("invalid session")
	ErrInvalidQuality     = errors.New("invalid quality")
	ErrSessionNotComplete = errors.New("session not complete")
	ErrNotFound           = errors.New("not found")
)
