// Package hub maintains the live connection groups and runs the realtime
// event loop of the whiteboard.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"collaborative-whiteboard/internal/domain"
	"collaborative-whiteboard/internal/dto"
	"collaborative-whiteboard/internal/service"
)

// WebSocket timing constants shared by hub and client.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Message types carried on the hub channel.
const (
	MsgRegister   = "register"
	MsgUnregister = "unregister"
	MsgEvent      = "event"
)

// HubMessage is the envelope passed from clients to the hub loop.
type HubMessage struct {
	Type    string
	RoomID  uint
	Client  *Client
	RawData []byte
}

// Hub owns the broadcast groups: one connection set per room id. All
// membership changes and box events flow through a single channel and are
// processed to completion, one at a time, so broadcasts within a room are
// observed in issuance order.
type Hub struct {
	messageChan chan HubMessage

	// quit signals shutdown. messageChan itself is never closed: producers
	// (client pumps, the upgrade handler) may still be running when the hub
	// stops, and a send raced against close would panic.
	quit chan struct{}

	// rooms maps a room id to its current broadcast group.
	rooms   map[uint]map[*Client]bool
	roomsMu sync.RWMutex

	syncService *service.SyncService
}

// NewHub creates a Hub backed by the given sync engine.
func NewHub(syncService *service.SyncService) *Hub {
	if syncService == nil {
		panic("SyncService cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		quit:        make(chan struct{}),
		rooms:       make(map[uint]map[*Client]bool),
		syncService: syncService,
	}
}

// Run processes hub messages until Stop is called. It should run in its own
// goroutine.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running")

	for {
		select {
		case msg := <-h.messageChan:
			switch msg.Type {
			case MsgRegister:
				h.registerClient(msg.Client)
			case MsgUnregister:
				h.unregisterClient(msg.Client)
			case MsgEvent:
				// Handled inline, not in a goroutine: per-room broadcast
				// order must match issuance order.
				h.handleEvent(msg)
			default:
				log.Warnf("Received unknown hub message type %q for room %d", msg.Type, msg.RoomID)
			}
		case <-h.quit:
			log.Info("Hub stopped")
			return
		}
	}
}

// Stop signals shutdown, ending Run. Messages enqueued after Stop are
// dropped.
func (h *Hub) Stop() {
	close(h.quit)
}

// QueueMessage enqueues a message for the hub loop without blocking. It
// returns false when the message was dropped because the queue is full or
// the hub has stopped.
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case <-h.quit:
		logrus.WithFields(logrus.Fields{
			"message_type": msg.Type,
			"room_id":      msg.RoomID,
		}).Debug("Hub stopped, dropping message")
		return false
	default:
	}
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"message_type": msg.Type,
			"room_id":      msg.RoomID,
		}).Warn("Hub message channel full, dropping message")
		return false
	}
}

// registerClient adds the connection to its room's broadcast group and sends
// the initial boxesLoaded sync to that connection only.
func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "conn_id": client.ID()})

	h.roomsMu.Lock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	h.roomsMu.Unlock()
	logCtx.Info("Client registered to room group")

	h.sendInitialBoxes(client)
}

// unregisterClient removes the connection from its group and closes its send
// channel, which ends the write pump.
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to unregister a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "conn_id": client.ID()})

	h.roomsMu.Lock()
	if group, ok := h.rooms[roomID]; ok {
		if _, exists := group[client]; exists {
			delete(group, client)
			close(client.send)
			if len(group) == 0 {
				delete(h.rooms, roomID)
				logCtx.Debug("Room group empty, removed")
			}
		}
	}
	h.roomsMu.Unlock()
	logCtx.Info("Client unregistered from room group")
}

// sendInitialBoxes loads the room's boxes and pushes them to the new
// connection only. The store read blocks the hub loop, matching the
// one-event-at-a-time processing model.
func (h *Hub) sendInitialBoxes(client *Client) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": client.RoomID(), "conn_id": client.ID()})

	boxes, err := h.syncService.LoadBoxes(context.Background(), client.RoomID())
	if err != nil {
		logCtx.WithError(err).Error("Failed to load initial boxes, connection gets no sync")
		return
	}

	payload, err := json.Marshal(dto.NewBoxesLoaded(boxes))
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal boxesLoaded payload")
		return
	}

	select {
	case client.send <- payload:
		logCtx.WithField("box_count", len(boxes)).Debug("Initial boxes sent")
	default:
		logCtx.Warn("Client send channel full, initial sync dropped")
	}
}

// handleEvent decodes one client event, applies it through the sync engine
// and, on success only, broadcasts the canonical payload to the room. An
// unauthorized or failed mutation is dropped silently: the only observable
// effect is the absence of the broadcast.
func (h *Hub) handleEvent(msg HubMessage) {
	ctx := context.Background()
	logCtx := logrus.WithFields(logrus.Fields{"room_id": msg.RoomID})

	var ev dto.Event
	if err := json.Unmarshal(msg.RawData, &ev); err != nil {
		logCtx.WithError(err).Warn("Malformed event payload, dropped")
		return
	}
	logCtx = logCtx.WithFields(logrus.Fields{"event_type": ev.Type, "box_id": ev.ID})

	var out interface{}
	var err error
	switch ev.Type {
	case dto.EventCreateBox:
		var box *domain.Box
		if box, err = h.syncService.CreateBox(ctx, msg.RoomID, ev); err == nil {
			out = dto.NewBoxCreated(box)
		}
	case dto.EventDeleteBox:
		if err = h.syncService.DeleteBox(ctx, msg.RoomID, ev.ID); err == nil {
			out = dto.BoxRemovedPayload{Type: dto.EventBoxRemoved, ID: ev.ID}
		}
	case dto.EventUpdateText:
		if ev.Text == nil {
			err = service.ErrInvalidEvent
			break
		}
		var box *domain.Box
		if box, err = h.syncService.UpdateBoxText(ctx, msg.RoomID, ev.ID, *ev.Text); err == nil {
			out = dto.BoxTextPayload{Type: dto.EventBoxTextUpdated, ID: box.ID, Text: box.Text}
		}
	case dto.EventMoveBox:
		if ev.Top == nil || ev.Left == nil {
			err = service.ErrInvalidEvent
			break
		}
		var box *domain.Box
		if box, err = h.syncService.MoveBox(ctx, msg.RoomID, ev.ID, *ev.Top, *ev.Left); err == nil {
			out = dto.BoxMovedPayload{Type: dto.EventBoxMoved, ID: box.ID, Top: box.Top, Left: box.Left}
		}
	default:
		logCtx.Warn("Unknown event type, dropped")
		return
	}

	if err != nil {
		if errors.Is(err, service.ErrBoxNotOwned) || errors.Is(err, service.ErrInvalidEvent) {
			logCtx.WithError(err).Debug("Event rejected, no broadcast")
		} else {
			logCtx.WithError(err).Error("Event processing failed, no broadcast")
		}
		return
	}

	data, err := json.Marshal(out)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal broadcast payload")
		return
	}
	h.broadcast(msg.RoomID, data)
}

// broadcast fans a message out to every connection in the room's group,
// including the sender. A slow client's full queue skips that client rather
// than blocking the loop.
func (h *Hub) broadcast(roomID uint, message []byte) {
	h.roomsMu.RLock()
	group, ok := h.rooms[roomID]
	recipients := make([]*Client, 0, len(group))
	if ok {
		for client := range group {
			recipients = append(recipients, client)
		}
	}
	h.roomsMu.RUnlock()

	if len(recipients) == 0 {
		return
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":         roomID,
		"message_size":    len(message),
		"recipient_count": len(recipients),
	})
	logCtx.Debug("Broadcasting to room group")

	for _, client := range recipients {
		select {
		case client.send <- message:
		default:
			logCtx.WithField("conn_id", client.ID()).Warn("Client send channel full during broadcast, skipped")
		}
	}
}
