// File: /realtime/handler_test.go
package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "ws-test-secret"

func signToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestServeWSDeliversChangeEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	go hub.Run()

	router := gin.New()
	router.GET("/ws", ServeWS(hub, testSecret))
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := strings.Replace(server.URL, "http", "ws", 1) + "/ws?token=" + signToken(t, "alice")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.ConnectedUsers() == 1
	}, time.Second, 5*time.Millisecond)

	hub.NotifyChange(ChangeEvent{Table: TableSessions, Action: ActionUpdate, RecordID: "s-1"}, "alice")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"table":"sessions"`)
	assert.Contains(t, string(data), `"record_id":"s-1"`)
}

func TestServeWSRejectsBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	go hub.Run()

	router := gin.New()
	router.GET("/ws", ServeWS(hub, testSecret))
	server := httptest.NewServer(router)
	defer server.Close()

	base := strings.Replace(server.URL, "http", "ws", 1) + "/ws"

	_, _, err := websocket.DefaultDialer.Dial(base, nil)
	assert.Error(t, err)

	_, _, err = websocket.DefaultDialer.Dial(base+"?token=garbage", nil)
	assert.Error(t, err)

	// A token signed with a different secret is refused
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "alice",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	_, _, err = websocket.DefaultDialer.Dial(base+"?token="+other, nil)
	assert.Error(t, err)

	assert.Equal(t, 0, hub.ConnectedUsers())
}
