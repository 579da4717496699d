// File: /controllers/notification_controller_test.go
package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillsync-api/controllers"
	"skillsync-api/models"
	"skillsync-api/realtime"
)

func TestCreateNotificationMissingUserIsNoop(t *testing.T) {
	db := setupTestDB(t)
	hub := realtime.NewHub()
	go hub.Run()
	nc := controllers.NewNotificationController(db, hub)

	err := nc.CreateNotification(models.CreateNotificationParams{
		UserID: "vanished-user",
		Type:   models.NotificationTypeConnectionRequest,
		Title:  "New Connection Request",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateNotificationPersistsUnread(t *testing.T) {
	db := setupTestDB(t)
	hub := realtime.NewHub()
	go hub.Run()
	nc := controllers.NewNotificationController(db, hub)
	alice := createTestUser(t, db, "Alice")

	description := "Bob wants to connect with you"
	err := nc.CreateNotification(models.CreateNotificationParams{
		UserID:      alice.ID,
		Type:        models.NotificationTypeConnectionRequest,
		Title:       "New Connection Request",
		Description: &description,
	})
	require.NoError(t, err)

	// Repeated triggers create repeated rows, never deduplicated
	require.NoError(t, nc.CreateNotification(models.CreateNotificationParams{
		UserID: alice.ID,
		Type:   models.NotificationTypeConnectionRequest,
		Title:  "New Connection Request",
	}))

	notifications := notificationsFor(t, db, alice.ID, "New Connection Request")
	require.Len(t, notifications, 2)
	for _, n := range notifications {
		assert.False(t, n.IsRead)
	}
}

func TestGetNotificationsPaginated(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, "")
	hub := realtime.NewHub()
	go hub.Run()
	nc := controllers.NewNotificationController(db, hub)
	alice := createTestUser(t, db, "Alice")

	for i := 0; i < 25; i++ {
		require.NoError(t, nc.CreateNotification(models.CreateNotificationParams{
			UserID: alice.ID,
			Type:   models.NotificationTypeSession,
			Title:  "New Session Request",
		}))
	}

	w := doRequest(t, router, http.MethodGet, "/api/notifications?limit=10", authToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":25`)
	assert.Contains(t, w.Body.String(), `"has_more":true`)

	// Stats reflect the unread backlog
	w = doRequest(t, router, http.MethodGet, "/api/notifications/stats", authToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread_count":25`)
}

func TestMarkNotificationRead(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, "")
	hub := realtime.NewHub()
	go hub.Run()
	nc := controllers.NewNotificationController(db, hub)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	require.NoError(t, nc.CreateNotification(models.CreateNotificationParams{
		UserID: alice.ID,
		Type:   models.NotificationTypeSession,
		Title:  "New Session Request",
	}))

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", alice.ID).First(&notification).Error)

	// Users cannot mark each other's notifications
	w := doRequest(t, router, http.MethodPatch, "/api/notifications/"+notification.ID+"/read",
		authToken(t, bob), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPatch, "/api/notifications/"+notification.ID+"/read",
		authToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&notification, "id = ?", notification.ID).Error)
	assert.True(t, notification.IsRead)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, "")
	hub := realtime.NewHub()
	go hub.Run()
	nc := controllers.NewNotificationController(db, hub)
	alice := createTestUser(t, db, "Alice")

	for i := 0; i < 3; i++ {
		require.NoError(t, nc.CreateNotification(models.CreateNotificationParams{
			UserID: alice.ID,
			Type:   models.NotificationTypeSession,
			Title:  "New Session Request",
		}))
	}

	w := doRequest(t, router, http.MethodPatch, "/api/notifications/read-all", authToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var unread int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", alice.ID, false).Count(&unread).Error)
	assert.Equal(t, int64(0), unread)
}

func TestDeleteNotification(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, "")
	hub := realtime.NewHub()
	go hub.Run()
	nc := controllers.NewNotificationController(db, hub)
	alice := createTestUser(t, db, "Alice")

	require.NoError(t, nc.CreateNotification(models.CreateNotificationParams{
		UserID: alice.ID,
		Type:   models.NotificationTypeSession,
		Title:  "New Session Request",
	}))

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", alice.ID).First(&notification).Error)

	w := doRequest(t, router, http.MethodDelete, "/api/notifications/"+notification.ID,
		authToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
