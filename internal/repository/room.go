// Package repository declares the storage interfaces the services depend on.
package repository

import (
	"context"

	"collaborative-whiteboard/internal/domain"
)

// RoomRepository stores and retrieves Room records.
type RoomRepository interface {
	// FindByID returns the room with the given id, or ErrRoomNotFound.
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// FindByName returns the room with the given display name, or
	// ErrRoomNotFound.
	FindByName(ctx context.Context, name string) (*domain.Room, error)

	// Create inserts a new room. Returns ErrDuplicateEntry when the name
	// is already taken.
	Create(ctx context.Context, room *domain.Room) error
}
