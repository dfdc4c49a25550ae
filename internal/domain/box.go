package domain

// Box is a positioned, editable text element belonging to exactly one Room.
// Box ids are strings: either supplied by the client or generated server-side
// as UUIDs, and unique across the whole store via the primary key.
type Box struct {
	ID   string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Top  int    `gorm:"not null" json:"top"`
	Left int    `gorm:"not null" json:"left"`
	Text string `gorm:"type:text" json:"text"`
	// Reserved column: migrated with the schema but never read or written
	// by any handler.
	Color  string `gorm:"type:varchar(20)" json:"-"`
	RoomID uint   `gorm:"index:idx_box_room;not null" json:"-"`
}
