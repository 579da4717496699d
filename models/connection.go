// File: /models/connection.go
package models

import (
	"fmt"
	"time"
)

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusDeclined ConnectionStatus = "declined"
)

type Connection struct {
	ID          string           `json:"id" gorm:"primaryKey;size:191"`
	RequesterID string           `json:"requester_id" gorm:"not null;size:191"`
	RecipientID string           `json:"recipient_id" gorm:"not null;size:191"`
	Status      ConnectionStatus `json:"status" gorm:"not null;default:'pending';size:20"`

	// Canonically ordered pair, backs the one-row-per-pair unique constraint
	PairKey string `json:"-" gorm:"uniqueIndex;not null;size:400"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Requester User `json:"requester" gorm:"foreignKey:RequesterID"`
	Recipient User `json:"recipient" gorm:"foreignKey:RecipientID"`
}

// ConnectionPairKey orders the two user ids so that A->B and B->A collide
func ConnectionPairKey(user1ID, user2ID string) string {
	if user1ID > user2ID {
		user1ID, user2ID = user2ID, user1ID
	}
	return user1ID + ":" + user2ID
}

// Validate rejects unknown statuses at the persistence boundary
func (c *Connection) Validate() error {
	switch c.Status {
	case ConnectionStatusPending, ConnectionStatusAccepted, ConnectionStatusDeclined:
		return nil
	default:
		return fmt.Errorf("invalid connection status: %q", c.Status)
	}
}

// OtherParty returns the counterpart of the given user in this connection
func (c *Connection) OtherParty(userID string) string {
	if c.RequesterID == userID {
		return c.RecipientID
	}
	return c.RequesterID
}

// Involves reports whether the user is one of the two named parties
func (c *Connection) Involves(userID string) bool {
	return c.RequesterID == userID || c.RecipientID == userID
}
