package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"collaborative-whiteboard/internal/domain"
	"collaborative-whiteboard/internal/repository"
)

// GormBoxRepository is the GORM implementation of repository.BoxRepository.
type GormBoxRepository struct {
	db *gorm.DB
}

// NewGormBoxRepository creates a GormBoxRepository.
func NewGormBoxRepository(db *gorm.DB) *GormBoxRepository {
	if db == nil {
		panic("database connection cannot be nil for GormBoxRepository")
	}
	return &GormBoxRepository{db: db}
}

func (r *GormBoxRepository) FindByID(ctx context.Context, id string) (*domain.Box, error) {
	var box domain.Box
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&box).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBoxNotFound
		}
		return nil, fmt.Errorf("gorm: find box by id %q: %w", id, err)
	}
	return &box, nil
}

// FindByRoom returns the room's boxes ordered by ascending id: a stable,
// deterministic order for the initial sync.
func (r *GormBoxRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.Box, error) {
	var boxes []domain.Box
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("id ASC").Find(&boxes).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find boxes for room %d: %w", roomID, err)
	}
	return boxes, nil
}

func (r *GormBoxRepository) Create(ctx context.Context, box *domain.Box) error {
	err := r.db.WithContext(ctx).Create(box).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create box %q in room %d: %w", box.ID, box.RoomID, err)
	}
	return nil
}

func (r *GormBoxRepository) Save(ctx context.Context, box *domain.Box) error {
	err := r.db.WithContext(ctx).Save(box).Error
	if err != nil {
		return fmt.Errorf("gorm: save box %q: %w", box.ID, err)
	}
	return nil
}

func (r *GormBoxRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Box{}).Error
	if err != nil {
		return fmt.Errorf("gorm: delete box %q: %w", id, err)
	}
	return nil
}
