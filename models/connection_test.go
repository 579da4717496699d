// File: /models/connection_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionPairKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, ConnectionPairKey("user-a", "user-b"), ConnectionPairKey("user-b", "user-a"))
	assert.Equal(t, "user-a:user-b", ConnectionPairKey("user-b", "user-a"))
}

func TestConnectionValidate(t *testing.T) {
	connection := Connection{Status: ConnectionStatusPending}
	assert.NoError(t, connection.Validate())

	connection.Status = "blocked"
	assert.Error(t, connection.Validate())
}

func TestConnectionOtherParty(t *testing.T) {
	connection := Connection{RequesterID: "user-a", RecipientID: "user-b"}
	assert.Equal(t, "user-b", connection.OtherParty("user-a"))
	assert.Equal(t, "user-a", connection.OtherParty("user-b"))
	assert.True(t, connection.Involves("user-a"))
	assert.False(t, connection.Involves("user-c"))
}
