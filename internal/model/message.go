package model

import "time"

// Message is one entry of the append-only chat log. ID and Timestamp are
// assigned by the store at append time, never by the client.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;index" json:"username"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
