package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidName = errors.New("invalid blob name")
)
