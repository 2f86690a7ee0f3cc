package loader

import "errors"

// Sentinel kinds for loader errors.
var (
	ErrEmptyFile = errors.New("dataset has no header row")
	ErrParse     = errors.New("dataset parse failed")
)
