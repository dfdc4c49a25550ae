package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is one WebSocket connection bound to a single room for its whole
// lifetime. There is no leave operation; the binding ends when the
// connection closes.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	id     string
	roomID uint
	send   chan []byte
}

// NewClient creates a Client for a connection already bound to roomID.
// id identifies the connection in logs.
func NewClient(h *Hub, conn *websocket.Conn, id string, roomID uint) *Client {
	return &Client{
		hub:    h,
		conn:   conn,
		id:     id,
		roomID: roomID,
		send:   make(chan []byte, 256),
	}
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// ID returns the connection identifier.
func (c *Client) ID() string { return c.id }

// RoomID returns the room this connection is bound to.
func (c *Client) RoomID() uint { return c.roomID }

// CloseConn closes the underlying WebSocket connection.
func (c *Client) CloseConn() { c.conn.Close() }

// requestUnregister hands the connection back to the hub for group removal.
// The send blocks until the hub loop takes it or the hub stops; group
// membership must never outlive the connection, so this send cannot be
// allowed to time out and leave a stale entry behind.
func (c *Client) requestUnregister() {
	unregister := HubMessage{Type: MsgUnregister, RoomID: c.roomID, Client: c}
	select {
	case c.hub.messageChan <- unregister:
	case <-c.hub.quit:
		logrus.WithFields(logrus.Fields{"conn_id": c.id, "room_id": c.roomID}).
			Debug("Hub stopped, skipping unregister")
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub channel.
// It runs in its own goroutine and requests unregistration on exit.
func (c *Client) ReadPump() {
	logCtx := logrus.WithFields(logrus.Fields{"conn_id": c.id, "room_id": c.roomID})
	defer func() {
		c.requestUnregister()
		c.conn.Close()
		logCtx.Info("Read pump exited")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error")
			} else {
				logCtx.Debug("WebSocket connection closed")
			}
			break
		}
		if messageType != websocket.TextMessage {
			logCtx.Debugf("Ignoring non-text message type %d", messageType)
			continue
		}

		event := HubMessage{
			Type:    MsgEvent,
			RoomID:  c.roomID,
			Client:  c,
			RawData: message,
		}
		select {
		case c.hub.messageChan <- event:
		default:
			logCtx.Warn("Hub message channel full, dropping client event")
		}
	}
}

// WritePump pumps messages from the send channel to the WebSocket connection
// and keeps the connection alive with periodic pings.
func (c *Client) WritePump() {
	logCtx := logrus.WithFields(logrus.Fields{"conn_id": c.id, "room_id": c.roomID})
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logCtx.Info("Write pump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel during unregister.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logCtx.WithError(err).Warn("Failed to write message to websocket")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logCtx.WithError(err).Warn("Failed to send ping")
				return
			}
		}
	}
}
