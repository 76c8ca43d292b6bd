package backfill

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is less than 1.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be at least 1")

	// ErrRepositoryRequired is returned when a report repository is not provided.
	ErrRepositoryRequired = errors.New("report repository required")

	// ErrAnalyzerRequired is returned when an analyzer is not provided.
	ErrAnalyzerRequired = errors.New("analyzer required")
)
