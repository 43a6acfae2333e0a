// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// Missing rows are reported as sql.ErrNoRows.
package repository

import "errors"

var (
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidReference is returned when a write points at a missing parent row.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrVersionConflict is returned when a note was modified since it was read.
	ErrVersionConflict = errors.New("version conflict")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
