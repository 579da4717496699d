// File: /controllers/helpers_test.go
package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillsync-api/config"
	"skillsync-api/models"
	"skillsync-api/realtime"
	"skillsync-api/routes"
)

const testJWTSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.Session{},
		&models.Notification{},
		&models.Message{},
	))

	return db
}

// setupRouter builds a full router against the given database. meetingURL
// points at a stub meeting service; tests that never accept a session can
// pass an empty string.
func setupRouter(t *testing.T, db *gorm.DB, meetingURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := realtime.NewHub()
	go hub.Run()

	cfg := &config.Config{
		JWTSecret:     testJWTSecret,
		MeetingAPIURL: meetingURL,
	}

	router := gin.New()
	routes.SetupRoutes(router, db, cfg, hub)
	return router
}

func createTestUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()

	suffix := uuid.New().String()[:8]
	user := models.User{
		ID:            uuid.New().String(),
		Name:          name,
		Handle:        models.GenerateHandleFromName(name) + "_" + suffix,
		Email:         suffix + "@example.com",
		Password:      "$2a$10$dummy",
		EmailVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func authToken(t *testing.T, user models.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// meetingStub returns an httptest server answering the meeting-link API
func meetingStub(t *testing.T, link string, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status >= 400 {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"meetLink": link})
	}))
	t.Cleanup(server.Close)
	return server
}

func notificationsFor(t *testing.T, db *gorm.DB, userID, title string) []models.Notification {
	t.Helper()

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ? AND title = ?", userID, title).
		Find(&notifications).Error)
	return notifications
}
