package extract

import "errors"

var (
	// ErrInvalidRule indicates a rule without kind, value or keywords, or
	// with a keyword that does not compile.
	ErrInvalidRule = errors.New("invalid extraction rule")

	// ErrEmptyKeyword indicates a blank keyword.
	ErrEmptyKeyword = errors.New("empty keyword")

	// ErrNoRules indicates an empty rule table.
	ErrNoRules = errors.New("no extraction rules")
)
