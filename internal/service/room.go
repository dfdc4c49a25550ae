package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"collaborative-whiteboard/internal/domain"
	"collaborative-whiteboard/internal/repository"
)

// RoomService is the room session resolver: it creates and joins rooms and
// issues the signed room token that binds a later WebSocket connection to
// exactly one room. The token is the system's only authorization boundary.
type RoomService struct {
	roomRepo    repository.RoomRepository
	tokenSecret []byte
	tokenExpiry time.Duration
}

// NewRoomService creates a RoomService. tokenSecret signs the room tokens
// and must not be empty; tokenExpiryHours falls back to 24.
func NewRoomService(roomRepo repository.RoomRepository, tokenSecret string, tokenExpiryHours int) (*RoomService, error) {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	if tokenSecret == "" {
		return nil, fmt.Errorf("session token secret cannot be empty")
	}
	if tokenExpiryHours <= 0 {
		tokenExpiryHours = 24
	}
	return &RoomService{
		roomRepo:    roomRepo,
		tokenSecret: []byte(tokenSecret),
		tokenExpiry: time.Duration(tokenExpiryHours) * time.Hour,
	}, nil
}

// CreateRoom creates a room with a globally unique name and binds the caller
// to it by returning a room token. A duplicate name yields ErrRoomNameTaken
// and no second row.
func (s *RoomService) CreateRoom(ctx context.Context, name, password string) (*domain.Room, string, error) {
	logCtx := logrus.WithField("room_name", name)

	if name == "" || password == "" {
		return nil, "", fmt.Errorf("%w: room name and password are required", ErrInvalidEvent)
	}

	room := &domain.Room{Name: name, Password: password}
	// Uniqueness is enforced by the store's constraint, not a prior read,
	// so two concurrent creates cannot both succeed.
	if err := s.roomRepo.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Room creation failed: name already taken")
			return nil, "", ErrRoomNameTaken
		}
		logCtx.WithError(err).Error("Failed to save new room")
		return nil, "", ErrInternalServer
	}
	logCtx = logCtx.WithField("room_id", room.ID)

	token, err := s.issueRoomToken(room.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to issue room token after create")
		return nil, "", ErrInternalServer
	}

	logCtx.Info("Room created")
	return room, token, nil
}

// JoinRoom resolves a room by name, checks the shared password and binds the
// caller by returning a room token.
func (s *RoomService) JoinRoom(ctx context.Context, name, password string) (*domain.Room, string, error) {
	logCtx := logrus.WithField("room_name", name)

	room, err := s.roomRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("Join failed: room not found")
			return nil, "", ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to look up room by name")
		return nil, "", ErrInternalServer
	}
	if room == nil {
		logCtx.Warn("Join failed: repository returned nil room without error")
		return nil, "", ErrRoomNotFound
	}
	logCtx = logCtx.WithField("room_id", room.ID)

	// Plain equality against the stored plain-text password, as the legacy
	// system did. Constant-time to avoid leaking a prefix match.
	if subtle.ConstantTimeCompare([]byte(room.Password), []byte(password)) != 1 {
		logCtx.Warn("Join failed: wrong password")
		return nil, "", ErrWrongPassword
	}

	token, err := s.issueRoomToken(room.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to issue room token after join")
		return nil, "", ErrInternalServer
	}

	logCtx.Info("Room joined")
	return room, token, nil
}

// FindRoomByID looks a room up for connection-time validation.
func (s *RoomService) FindRoomByID(ctx context.Context, roomID uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithField("room_id", roomID).WithError(err).Error("Failed to find room by id")
		return nil, ErrInternalServer
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// issueRoomToken signs a capability token carrying the room binding.
func (s *RoomService) issueRoomToken(roomID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"room_id": roomID,
		"exp":     time.Now().Add(s.tokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString(s.tokenSecret)
	if err != nil {
		return "", fmt.Errorf("sign room token: %w", err)
	}
	return signed, nil
}
