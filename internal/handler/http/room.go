// Package http contains the gin handlers of the room session surface.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"collaborative-whiteboard/internal/service"
)

// RoomHandler serves room creation and join requests. Both establish the
// session binding consumed by the realtime layer: the response carries the
// signed room token the client presents on the WebSocket upgrade.
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler creates a RoomHandler.
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	if roomService == nil {
		panic("RoomService cannot be nil for RoomHandler")
	}
	return &RoomHandler{roomService: roomService}
}

// RoomRequest is the body of both createRoom and joinRoom.
type RoomRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=80"`
	Password string `json:"password" binding:"required,min=1,max=80"`
}

// RoomResponse carries the room binding back to the client.
type RoomResponse struct {
	Message string `json:"message"`
	RoomID  uint   `json:"room_id"`
	Token   string `json:"token"`
}

// CreateRoom handles POST /api/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateRoom: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name and password are required")
		return
	}
	logCtx := logrus.WithField("room_name", req.Name)

	room, token, err := h.roomService.CreateRoom(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.CreateRoom: create failed")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("room_id", room.ID).Info("Handler.CreateRoom: room created")
	SuccessResponse(c, http.StatusOK, RoomResponse{
		Message: "Room created successfully",
		RoomID:  room.ID,
		Token:   token,
	})
}

// JoinRoom handles POST /api/rooms/join.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.JoinRoom: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name and password are required")
		return
	}
	logCtx := logrus.WithField("room_name", req.Name)

	room, token, err := h.roomService.JoinRoom(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.JoinRoom: join failed")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("room_id", room.ID).Info("Handler.JoinRoom: room joined")
	SuccessResponse(c, http.StatusOK, RoomResponse{
		Message: "Joined room successfully",
		RoomID:  room.ID,
		Token:   token,
	})
}
