package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrNoGenerator      = errors.New("no generation collaborator configured")
	ErrNoStore          = errors.New("no storage collaborator configured")
)
