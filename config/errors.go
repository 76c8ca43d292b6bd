package config

import "errors"

var (
	// ErrUnknownBackend is returned when the storage backend is not badger or sqlite.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrInvalidValue is returned when a numeric setting is out of range.
	ErrInvalidValue = errors.New("invalid configuration value")
)
