package classify

import "errors"

// ErrNoRules indicates an empty category table.
var ErrNoRules = errors.New("no category rules")
