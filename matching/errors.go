package matching

import "errors"

var (
	// ErrRepositoryRequired indicates an engine without a report repository.
	ErrRepositoryRequired = errors.New("report repository is required")

	// ErrAnalyzerRequired indicates an engine without an analyzer.
	ErrAnalyzerRequired = errors.New("analyzer is required")

	// ErrNilReport indicates FindMatches was called without a report.
	ErrNilReport = errors.New("report is nil")

	// ErrMatchingSkipped indicates the query report could not be embedded,
	// so no match pass ran. It wraps the underlying cause.
	ErrMatchingSkipped = errors.New("matching skipped")
)
