// File: /controllers/session_controller_test.go
package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"skillsync-api/models"
)

func createPendingSession(t *testing.T, db *gorm.DB, teacher, student models.User) models.Session {
	t.Helper()

	session := models.Session{
		ID:        "session-" + teacher.ID[:8] + student.ID[:8],
		TeacherID: teacher.ID,
		StudentID: student.ID,
		Skill:     "Guitar",
		Day:       "2026-09-15",
		TimeSlot:  "5:00 PM - 6:00 PM",
		Status:    models.SessionStatusPending,
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

func TestRequestSessionNotifiesOtherParty(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, "")
	teacher := createTestUser(t, db, "Teacher Tia")
	student := createTestUser(t, db, "Student Sam")

	body := map[string]string{
		"teacher_id": teacher.ID,
		"student_id": student.ID,
		"skill":      "Guitar",
		"day":        "2026-09-15",
		"time_slot":  "5:00 PM - 6:00 PM",
	}
	w := doRequest(t, router, http.MethodPost, "/api/sessions", authToken(t, student), body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var session models.Session
	require.NoError(t, db.Where("teacher_id = ?", teacher.ID).First(&session).Error)
	assert.Equal(t, models.SessionStatusPending, session.Status)
	assert.Nil(t, session.MeetingLink)

	// The student initiated, so the teacher is notified
	notifications := notificationsFor(t, db, teacher.ID, "New Session Request")
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].IsRead)
	require.NotNil(t, notifications[0].ActionURL)
	assert.Equal(t, "/sessions/"+session.ID, *notifications[0].ActionURL)

	assert.Empty(t, notificationsFor(t, db, student.ID, "New Session Request"))
}

func TestRequestSessionInvalidTimeSlot(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, "")
	teacher := createTestUser(t, db, "Teacher Tia")
	student := createTestUser(t, db, "Student Sam")

	body := map[string]string{
		"teacher_id": teacher.ID,
		"student_id": student.ID,
		"skill":      "Guitar",
		"day":        "2026-09-15",
		"time_slot":  "5:30 PM - 6:30 PM",
	}
	w := doRequest(t, router, http.MethodPost, "/api/sessions", authToken(t, student), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRequestSessionOutsiderForbidden(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, "")
	teacher := createTestUser(t, db, "Teacher Tia")
	student := createTestUser(t, db, "Student Sam")
	outsider := createTestUser(t, db, "Outsider Olaf")

	body := map[string]string{
		"teacher_id": teacher.ID,
		"student_id": student.ID,
		"skill":      "Guitar",
		"day":        "2026-09-15",
		"time_slot":  "5:00 PM - 6:00 PM",
	}
	w := doRequest(t, router, http.MethodPost, "/api/sessions", authToken(t, outsider), body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAcceptSessionCreatesMeetingLink(t *testing.T) {
	db := setupTestDB(t)
	stub := meetingStub(t, "https://meet.example/abc-defg-hij", http.StatusOK)
	router := setupRouter(t, db, stub.URL)
	teacher := createTestUser(t, db, "Teacher Tia")
	student := createTestUser(t, db, "Student Sam")
	session := createPendingSession(t, db, teacher, student)

	w := doRequest(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/accept",
		authToken(t, teacher), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Session
	require.NoError(t, db.First(&stored, "id = ?", session.ID).Error)
	assert.Equal(t, models.SessionStatusAccepted, stored.Status)
	require.NotNil(t, stored.MeetingLink)
	assert.Equal(t, "https://meet.example/abc-defg-hij", *stored.MeetingLink)

	// Exactly one unread acceptance notification for the student
	notifications := notificationsFor(t, db, student.ID, "Session Request Accepted")
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].IsRead)
	require.NotNil(t, notifications[0].ActionURL)
	assert.Equal(t, "/sessions/"+session.ID, *notifications[0].ActionURL)
}

func TestAcceptSessionMeetingFailureLeavesPending(t *testing.T) {
	db := setupTestDB(t)
	stub := meetingStub(t, "", http.StatusInternalServerError)
	router := setupRouter(t, db, stub.URL)
	teacher := createTestUser(t, db, "Teacher Tia")
	student := createTestUser(t, db, "Student Sam")
	session := createPendingSession(t, db, teacher, student)

	w := doRequest(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/accept",
		authToken(t, teacher), nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// The session is untouched: still pending, no link, no notification
	var stored models.Session
	require.NoError(t, db.First(&stored, "id = ?", session.ID).Error)
	assert.Equal(t, models.SessionStatusPending, stored.Status)
	assert.Nil(t, stored.MeetingLink)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", student.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAcceptSessionOnlyTeacher(t *testing.T) {
	db := setupTestDB(t)
	stub := meetingStub(t, "https://meet.example/abc", http.StatusOK)
	router := setupRouter(t, db, stub.URL)
	teacher := createTestUser(t, db, "Teacher Tia")
	student := createTestUser(t, db, "Student Sam")
	session := createPendingSession(t, db, teacher, student)

	w := doRequest(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/accept",
		authToken(t, student), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Session
	require.NoError(t, db.First(&stored, "id = ?", session.ID).Error)
	assert.Equal(t, models.SessionStatusPending, stored.Status)
}

func TestAcceptSessionAlreadyAccepted(t *testing.T) {
	db := setupTestDB(t)
	stub := meetingStub(t, "https://meet.example/abc", http.StatusOK)
	router := setupRouter(t, db, stub.URL)
	teacher := createTestUser(t, db, "Teacher Tia")
	student := createTestUser(t, db, "Student Sam")
	session := createPendingSession(t, db, teacher, student)

	w := doRequest(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/accept",
		authToken(t, teacher), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Accepting again is a no-op success and does not notify twice
	w = doRequest(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/accept",
		authToken(t, teacher), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, notificationsFor(t, db, student.ID, "Session Request Accepted"), 1)
}

func TestDeclineSessionNotifiesStudent(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, "")
	teacher := createTestUser(t, db, "Teacher Tia")
	student := createTestUser(t, db, "Student Sam")
	session := createPendingSession(t, db, teacher, student)

	// Students cannot decline for the teacher
	w := doRequest(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/decline",
		authToken(t, student), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/decline",
		authToken(t, teacher), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Session
	require.NoError(t, db.First(&stored, "id = ?", session.ID).Error)
	assert.Equal(t, models.SessionStatusDeclined, stored.Status)
	assert.Nil(t, stored.MeetingLink)

	require.Len(t, notificationsFor(t, db, student.ID, "Session Request Declined"), 1)

	// A declined session cannot be accepted afterwards
	w = doRequest(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/accept",
		authToken(t, teacher), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetSessionsFilters(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db, "")
	teacher := createTestUser(t, db, "Teacher Tia")
	student := createTestUser(t, db, "Student Sam")
	other := createTestUser(t, db, "Other Omar")
	session := createPendingSession(t, db, teacher, student)
	createPendingSession(t, db, other, teacher)

	w := doRequest(t, router, http.MethodGet, "/api/sessions?role=teacher", authToken(t, teacher), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), session.ID)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = doRequest(t, router, http.MethodGet, "/api/sessions", authToken(t, teacher), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	// Non-participants cannot read a session
	w = doRequest(t, router, http.MethodGet, "/api/sessions/"+session.ID, authToken(t, other), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
