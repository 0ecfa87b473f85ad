package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a request is missing required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized indicates the session has no signed-in user or the
	// catalog rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")
)
