package analysis

import "errors"

// ErrNoModel indicates an Analyzer constructed without an embedding model.
var ErrNoModel = errors.New("embedding model is required")
