package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"collaborative-whiteboard/internal/domain"
)

// BoxRepository is a mock of repository.BoxRepository.
type BoxRepository struct {
	mock.Mock
}

func (m *BoxRepository) FindByID(ctx context.Context, id string) (*domain.Box, error) {
	args := m.Called(ctx, id)
	var box *domain.Box
	if args.Get(0) != nil {
		box = args.Get(0).(*domain.Box)
	}
	return box, args.Error(1)
}

func (m *BoxRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.Box, error) {
	args := m.Called(ctx, roomID)
	var boxes []domain.Box
	if args.Get(0) != nil {
		boxes = args.Get(0).([]domain.Box)
	}
	return boxes, args.Error(1)
}

func (m *BoxRepository) Create(ctx context.Context, box *domain.Box) error {
	args := m.Called(ctx, box)
	return args.Error(0)
}

func (m *BoxRepository) Save(ctx context.Context, box *domain.Box) error {
	args := m.Called(ctx, box)
	return args.Error(0)
}

func (m *BoxRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
