package data

import "errors"

var (
	// ErrRecordNotFound is returned when a lookup matches no row.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateRecord is returned when an insert violates a unique constraint.
	ErrDuplicateRecord = errors.New("duplicate record")
)
