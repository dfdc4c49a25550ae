// Package websocket upgrades authorized connections and hands them to the hub.
package websocket

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"collaborative-whiteboard/internal/hub"
	"collaborative-whiteboard/internal/middleware"
	"collaborative-whiteboard/internal/service"
)

// WebSocketHandler handles the upgrade request for /ws/room/:roomId.
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	hub         *hub.Hub
	roomService *service.RoomService
}

// NewWebSocketHandler creates a WebSocketHandler.
func NewWebSocketHandler(h *hub.Hub, roomService *service.RoomService) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if roomService == nil {
		panic("RoomService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// TODO: restrict to the deployed frontend origin.
			return true
		},
	}

	return &WebSocketHandler{
		upgrader:    upgrader,
		hub:         h,
		roomService: roomService,
	}
}

// HandleConnection validates the caller's room binding against the requested
// room, upgrades the connection and registers the client with the hub. The
// hub pushes the initial boxesLoaded sync as part of registration.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	boundRoomAny, exists := c.Get(middleware.ContextRoomID)
	if !exists {
		logrus.Warn("WS handler: room binding not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Room binding required"})
		return
	}
	boundRoomID, ok := boundRoomAny.(uint)
	if !ok {
		logrus.Error("WS handler: room binding in context is not uint")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	logCtx := logrus.WithField("room_id", boundRoomID)

	roomIDStr := c.Param("roomId")
	requestedID, err := strconv.ParseUint(roomIDStr, 10, 32)
	if err != nil {
		logCtx.Warnf("WS handler: invalid room id format: %s", roomIDStr)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}
	// The capability token binds the session to exactly one room; the URL
	// must agree with it.
	if uint(requestedID) != boundRoomID {
		logCtx.Warnf("WS handler: token bound to room %d but room %d requested", boundRoomID, requestedID)
		c.JSON(http.StatusForbidden, gin.H{"error": "Token not valid for this room"})
		return
	}

	if _, err := h.roomService.FindRoomByID(c.Request.Context(), boundRoomID); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			logCtx.Warn("WS handler: room not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			logCtx.WithError(err).Error("WS handler: failed to validate room")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate room"})
		}
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("WS handler: failed to upgrade connection")
		return
	}

	client := hub.NewClient(h.hub, conn, uuid.NewString(), boundRoomID)
	registerMsg := hub.HubMessage{
		Type:   hub.MsgRegister,
		RoomID: client.RoomID(),
		Client: client,
	}
	if !h.hub.QueueMessage(registerMsg) {
		logCtx.Error("WS handler: hub queue full, rejecting connection")
		client.CloseConn()
		return
	}

	client.Run()
	logCtx.WithField("conn_id", client.ID()).Info("WS handler: client connected")
}
