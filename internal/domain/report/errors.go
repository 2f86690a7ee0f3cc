package report

import "errors"

// Sentinel kinds for report errors.
var (
	// ErrEmptyScope means the requested scope matched no records, so no
	// group header can be derived for the prompt.
	ErrEmptyScope = errors.New("scope matched no records")
)
