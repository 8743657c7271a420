package service

import "errors"

// Sentinel errors mapped onto HTTP status codes by the handler layer.
var (
	// ErrNotFound maps to 404.
	ErrNotFound = errors.New("record not found")
	// ErrHasDependents maps to 400: the record is referenced by downstream
	// records and cannot be deleted.
	ErrHasDependents = errors.New("record has dependent records")
	// ErrValidation maps to 400.
	ErrValidation = errors.New("validation failed")
)
