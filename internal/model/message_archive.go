package model

import "time"

// MessageArchive is the copy of a message written by the archive worker from
// broker events, independent of the live messages table. MessageID is the id
// assigned by the live store, so the archive keeps the original ordering and
// redeliveries collapse onto one row.
type MessageArchive struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex" json:"message_id"`
	Username  string    `gorm:"size:50;not null" json:"username"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}
