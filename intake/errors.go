package intake

import "errors"

var (
	// ErrRepositoryRequired is returned when a report repository is not provided.
	ErrRepositoryRequired = errors.New("report repository required")

	// ErrAnalyzerRequired is returned when an analyzer is not provided.
	ErrAnalyzerRequired = errors.New("analyzer required")

	// ErrEngineRequired is returned when a match engine is not provided.
	ErrEngineRequired = errors.New("match engine required")

	// ErrInvalidSubmission is returned when a submission fails validation.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrNotOwner is returned when someone other than the reporter edits a report.
	ErrNotOwner = errors.New("only the reporter may edit this report")
)
