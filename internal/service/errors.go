package service

import "errors"

// Business errors surfaced by the services. Realtime mutation failures
// (ErrBoxNotOwned, ErrInvalidEvent) are never sent to the client; the hub
// drops the operation and the only observable effect is the absence of the
// expected broadcast.
var (
	ErrRoomNameTaken = errors.New("room name already taken")
	ErrRoomNotFound  = errors.New("room not found")
	ErrWrongPassword = errors.New("wrong room password")
	// ErrBoxNotOwned covers both a missing box and a box owned by another
	// room. The two cases are indistinguishable on purpose: cross-room
	// probing must not reveal whether an id exists.
	ErrBoxNotOwned    = errors.New("box does not belong to this room")
	ErrInvalidEvent   = errors.New("invalid event payload")
	ErrInternalServer = errors.New("internal server error")
)
