package query

import "errors"

// Sentinel kinds for query errors.
var (
	ErrInvalidScopeKind = errors.New("invalid scope kind")
)
