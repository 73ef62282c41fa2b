package service

import "errors"

// Stable failure kinds. Handlers map these to HTTP statuses; services never
// return raw store or crypto errors to a handler.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactive           = errors.New("user is not active")
	ErrAlreadyExists      = errors.New("already exists")
	ErrEmptyUpdate        = errors.New("at least one field must be set")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("permission denied")
	ErrInvalidRange       = errors.New("invalid range")
	ErrMisconfigured      = errors.New("config invalid")
)
