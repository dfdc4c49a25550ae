package repository

import "errors"

// Storage-level sentinel errors shared by all implementations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry indicates a write violated a unique constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Per-resource aliases, kept so callers can name what they looked for.
var (
	ErrRoomNotFound = ErrNotFound
	ErrBoxNotFound  = ErrNotFound
)
