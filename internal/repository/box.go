package repository

import (
	"context"

	"collaborative-whiteboard/internal/domain"
)

// BoxRepository stores and retrieves Box records. Every mutation is a
// single-row write; the store's own transactional guarantees are the only
// consistency mechanism (last write wins).
type BoxRepository interface {
	// FindByID returns the box with the given id, or ErrBoxNotFound.
	FindByID(ctx context.Context, id string) (*domain.Box, error)

	// FindByRoom returns all boxes of a room ordered by ascending id.
	FindByRoom(ctx context.Context, roomID uint) ([]domain.Box, error)

	// Create inserts a new box. Returns ErrDuplicateEntry when the id is
	// already taken.
	Create(ctx context.Context, box *domain.Box) error

	// Save overwrites an existing box row.
	Save(ctx context.Context, box *domain.Box) error

	// Delete removes the box with the given id. Deleting a missing box is
	// not an error.
	Delete(ctx context.Context, id string) error
}
