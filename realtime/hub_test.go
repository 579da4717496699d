// File: /realtime/hub_test.go
package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestClient(t *testing.T, hub *Hub, userID string) *Client {
	t.Helper()

	client := &Client{
		Hub:    hub,
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
	hub.register <- client

	// Wait until the registration is visible
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[userID]) > 0
	}, time.Second, 5*time.Millisecond)

	return client
}

func TestHubRoutesEventsToNamedUsers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := registerTestClient(t, hub, "alice")
	bob := registerTestClient(t, hub, "bob")
	carol := registerTestClient(t, hub, "carol")

	event := ChangeEvent{Table: TableConnections, Action: ActionInsert, RecordID: "conn-1"}
	hub.NotifyChange(event, "alice", "bob")

	for _, client := range []*Client{alice, bob} {
		select {
		case data := <-client.Send:
			var envelope struct {
				Type string      `json:"type"`
				Data ChangeEvent `json:"data"`
			}
			require.NoError(t, json.Unmarshal(data, &envelope))
			assert.Equal(t, "change", envelope.Type)
			assert.Equal(t, event, envelope.Data)
		case <-time.After(time.Second):
			t.Fatalf("client %s never received the event", client.UserID)
		}
	}

	// Carol was not named and gets nothing
	select {
	case data := <-carol.Send:
		t.Fatalf("unexpected delivery to carol: %s", data)
	default:
	}
}

func TestHubMultiTabDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tab1 := registerTestClient(t, hub, "alice")
	tab2 := registerTestClient(t, hub, "alice")
	assert.Equal(t, 1, hub.ConnectedUsers())

	hub.NotifyChange(ChangeEvent{Table: TableNotifications, Action: ActionInsert, RecordID: "n-1"}, "alice")

	for _, client := range []*Client{tab1, tab2} {
		select {
		case <-client.Send:
		case <-time.After(time.Second):
			t.Fatal("tab never received the event")
		}
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := registerTestClient(t, hub, "alice")
	hub.unregister <- client

	require.Eventually(t, func() bool {
		return hub.ConnectedUsers() == 0
	}, time.Second, 5*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)

	// Notifying a departed user is a no-op
	hub.NotifyChange(ChangeEvent{Table: TableSessions, Action: ActionUpdate, RecordID: "s-1"}, "alice")
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := registerTestClient(t, hub, "alice")

	// Fill the buffer without draining
	for i := 0; i <= sendBufferSize; i++ {
		hub.NotifyChange(ChangeEvent{Table: TableMessages, Action: ActionInsert, RecordID: "m"}, "alice")
	}

	require.Eventually(t, func() bool {
		return hub.ConnectedUsers() == 0
	}, time.Second, 5*time.Millisecond)

	// The channel is closed after drain
	for range client.Send {
	}
}
