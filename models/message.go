// File: /models/message.go
package models

import "time"

type Message struct {
	ID           string    `json:"id" gorm:"primaryKey;size:191"`
	ConnectionID string    `json:"connection_id" gorm:"not null;index;size:191"`
	SenderID     string    `json:"sender_id" gorm:"not null;size:191"`
	RecipientID  string    `json:"recipient_id" gorm:"not null;index;size:191"`
	Content      string    `json:"content" gorm:"not null;type:text"`
	IsRead       bool      `json:"is_read" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`

	Sender    User `json:"-" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// UnreadMessageCount is the badge aggregate consumed by the UI
type UnreadMessageCount struct {
	Count int64 `json:"count"`
}
