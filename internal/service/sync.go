package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"collaborative-whiteboard/internal/domain"
	"collaborative-whiteboard/internal/dto"
	"collaborative-whiteboard/internal/repository"
)

// Position defaults applied when a createBox payload omits coordinates.
const (
	defaultTop  = 100
	defaultLeft = 100
)

// SyncService is the box synchronization engine. Every mutation follows the
// same shape: the caller's room binding scopes the operation, the payload is
// normalized, a single row is written, and only a successful write yields a
// payload for the room broadcast. A write failure drops the operation; there
// is no retry and no error channel back to the client.
type SyncService struct {
	boxRepo repository.BoxRepository
}

// NewSyncService creates a SyncService.
func NewSyncService(boxRepo repository.BoxRepository) *SyncService {
	if boxRepo == nil {
		panic("BoxRepository cannot be nil for SyncService")
	}
	return &SyncService{boxRepo: boxRepo}
}

// LoadBoxes returns the room's boxes in ascending id order for the initial
// sync of a new connection.
func (s *SyncService) LoadBoxes(ctx context.Context, roomID uint) ([]domain.Box, error) {
	boxes, err := s.boxRepo.FindByRoom(ctx, roomID)
	if err != nil {
		logrus.WithField("room_id", roomID).WithError(err).Error("Failed to load boxes for initial sync")
		return nil, ErrInternalServer
	}
	return boxes, nil
}

// CreateBox normalizes the payload (generated id, coordinate defaults, legacy
// x/y aliases) and inserts the box into the caller's room.
func (s *SyncService) CreateBox(ctx context.Context, roomID uint, ev dto.Event) (*domain.Box, error) {
	logCtx := logrus.WithField("room_id", roomID)

	box := &domain.Box{
		ID:     ev.ID,
		Top:    coordinate(ev.Top, ev.Y, defaultTop),
		Left:   coordinate(ev.Left, ev.X, defaultLeft),
		RoomID: roomID,
	}
	if box.ID == "" {
		box.ID = uuid.NewString()
	}
	if ev.Text != nil {
		box.Text = *ev.Text
	}

	if err := s.boxRepo.Create(ctx, box); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// A client-supplied id collided with an existing box,
			// possibly in another room. Drop the create.
			logCtx.WithField("box_id", box.ID).Warn("Box id collision, create dropped")
			return nil, ErrBoxNotOwned
		}
		logCtx.WithError(err).Error("Failed to persist new box")
		return nil, ErrInternalServer
	}

	logCtx.WithField("box_id", box.ID).Debug("Box created")
	return box, nil
}

// DeleteBox removes the box only when it exists and belongs to the caller's
// room. Anything else is a silent no-op surfaced as ErrBoxNotOwned.
func (s *SyncService) DeleteBox(ctx context.Context, roomID uint, id string) error {
	box, err := s.ownedBox(ctx, roomID, id)
	if err != nil {
		return err
	}
	if err := s.boxRepo.Delete(ctx, box.ID); err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "box_id": id}).WithError(err).Error("Failed to delete box")
		return ErrInternalServer
	}
	return nil
}

// UpdateBoxText overwrites the text of a box owned by the caller's room.
func (s *SyncService) UpdateBoxText(ctx context.Context, roomID uint, id, text string) (*domain.Box, error) {
	box, err := s.ownedBox(ctx, roomID, id)
	if err != nil {
		return nil, err
	}
	box.Text = text
	if err := s.boxRepo.Save(ctx, box); err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "box_id": id}).WithError(err).Error("Failed to update box text")
		return nil, ErrInternalServer
	}
	return box, nil
}

// MoveBox overwrites the position of a box owned by the caller's room.
// Concurrent moves race and the last write to reach the store wins.
func (s *SyncService) MoveBox(ctx context.Context, roomID uint, id string, top, left int) (*domain.Box, error) {
	box, err := s.ownedBox(ctx, roomID, id)
	if err != nil {
		return nil, err
	}
	box.Top = top
	box.Left = left
	if err := s.boxRepo.Save(ctx, box); err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "box_id": id}).WithError(err).Error("Failed to move box")
		return nil, ErrInternalServer
	}
	return box, nil
}

// ownedBox enforces the room-scoped isolation invariant: a mutation may only
// touch a box whose stored room_id matches the caller's binding.
func (s *SyncService) ownedBox(ctx context.Context, roomID uint, id string) (*domain.Box, error) {
	if id == "" {
		return nil, ErrInvalidEvent
	}
	box, err := s.boxRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBoxNotFound) {
			return nil, ErrBoxNotOwned
		}
		logrus.WithFields(logrus.Fields{"room_id": roomID, "box_id": id}).WithError(err).Error("Failed to look up box")
		return nil, ErrInternalServer
	}
	if box.RoomID != roomID {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "box_id": id, "owner_room_id": box.RoomID}).
			Warn("Cross-room mutation blocked")
		return nil, ErrBoxNotOwned
	}
	return box, nil
}

// coordinate picks the first present value among the canonical field, its
// legacy alias, and the default.
func coordinate(canonical, alias *int, fallback int) int {
	if canonical != nil {
		return *canonical
	}
	if alias != nil {
		return *alias
	}
	return fallback
}
