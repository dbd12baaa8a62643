package domain

import "errors"

// Sentinels separating caller mistakes and absent rows from store
// failures. Anything not matching these via errors.Is is a persistence
// error carrying its cause.
var (
	ErrNotFound     = errors.New("project not found")
	ErrInvalidInput = errors.New("invalid input")
)
