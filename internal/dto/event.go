// Package dto defines the JSON wire format of the realtime protocol.
package dto

import "collaborative-whiteboard/internal/domain"

// Client -> server event types.
const (
	EventCreateBox  = "createBox"
	EventDeleteBox  = "deleteBox"
	EventUpdateText = "updateBoxText"
	EventMoveBox    = "moveBox"
)

// Server -> client event types.
const (
	EventBoxesLoaded    = "boxesLoaded"
	EventBoxCreated     = "boxCreated"
	EventBoxRemoved     = "boxRemoved"
	EventBoxTextUpdated = "boxTextUpdated"
	EventBoxMoved       = "boxMoved"
)

// Event is the inbound envelope for every client mutation. Optional fields
// are pointers so that absence can be told apart from a zero value; X/Y are
// legacy aliases for Left/Top kept for older clients.
type Event struct {
	Type string  `json:"type"`
	ID   string  `json:"id,omitempty"`
	Top  *int    `json:"top,omitempty"`
	Left *int    `json:"left,omitempty"`
	X    *int    `json:"x,omitempty"`
	Y    *int    `json:"y,omitempty"`
	Text *string `json:"text,omitempty"`
}

// BoxPayload is the canonical box representation broadcast to a room.
type BoxPayload struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Top  int    `json:"top"`
	Left int    `json:"left"`
	Text string `json:"text"`
}

// BoxRemovedPayload announces a deletion.
type BoxRemovedPayload struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// BoxTextPayload announces a text overwrite.
type BoxTextPayload struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

// BoxMovedPayload announces a position overwrite.
type BoxMovedPayload struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Top  int    `json:"top"`
	Left int    `json:"left"`
}

// BoxesLoadedPayload is the initial sync sent to a single new connection.
type BoxesLoadedPayload struct {
	Type  string    `json:"type"`
	Boxes []BoxItem `json:"boxes"`
}

// BoxItem is one entry of a boxesLoaded list.
type BoxItem struct {
	ID   string `json:"id"`
	Top  int    `json:"top"`
	Left int    `json:"left"`
	Text string `json:"text"`
}

// NewBoxCreated builds the broadcast payload for a stored box.
func NewBoxCreated(box *domain.Box) BoxPayload {
	return BoxPayload{Type: EventBoxCreated, ID: box.ID, Top: box.Top, Left: box.Left, Text: box.Text}
}

// NewBoxesLoaded builds the initial sync payload from the room's boxes.
func NewBoxesLoaded(boxes []domain.Box) BoxesLoadedPayload {
	items := make([]BoxItem, 0, len(boxes))
	for _, b := range boxes {
		items = append(items, BoxItem{ID: b.ID, Top: b.Top, Left: b.Left, Text: b.Text})
	}
	return BoxesLoadedPayload{Type: EventBoxesLoaded, Boxes: items}
}
