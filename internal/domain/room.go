// Package domain defines the persisted data structures of the service.
package domain

import "time"

// Room is a named, password-protected collaboration scope owning a set of
// Boxes. A room is immutable after creation except for its box collection,
// and rooms are never deleted.
type Room struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(80);uniqueIndex:idx_room_name;not null" json:"name"`
	// Stored and compared in plain text, matching the legacy system this
	// service replaces.
	Password  string    `gorm:"type:varchar(80);not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}
