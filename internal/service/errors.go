package service

import "errors"

// Validation errors are detected before any mutation and surfaced to the
// caller as-is; handlers map them onto HTTP statuses.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrInvalidPayload   = errors.New("invalid payload")
)
