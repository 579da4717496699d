// File: /controllers/session_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillsync-api/models"
	"skillsync-api/realtime"
	"skillsync-api/services"
)

type SessionController struct {
	db                     *gorm.DB
	notificationController *NotificationController
	meetingService         *services.MeetingService
	hub                    *realtime.Hub
}

func NewSessionController(db *gorm.DB, notificationController *NotificationController, meetingService *services.MeetingService, hub *realtime.Hub) *SessionController {
	return &SessionController{
		db:                     db,
		notificationController: notificationController,
		meetingService:         meetingService,
		hub:                    hub,
	}
}

type RequestSessionRequest struct {
	TeacherID string `json:"teacher_id"`
	StudentID string `json:"student_id"`
	Skill     string `json:"skill" binding:"required"`
	Day       string `json:"day" binding:"required"`
	TimeSlot  string `json:"time_slot" binding:"required"`
}

// RequestSession creates a pending session request. The actor must be one of
// the two parties; the other party is notified.
func (sc *SessionController) RequestSession(c *gin.Context) {
	actorID := c.GetString("user_id")

	var req RequestSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.StudentID == "" {
		req.StudentID = actorID
	}
	if req.TeacherID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Teacher is required"})
		return
	}
	if req.TeacherID == req.StudentID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Teacher and student must be different users"})
		return
	}
	if actorID != req.TeacherID && actorID != req.StudentID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You must be a participant of the session"})
		return
	}

	session := models.Session{
		ID:        uuid.New().String(),
		TeacherID: req.TeacherID,
		StudentID: req.StudentID,
		Skill:     req.Skill,
		Day:       req.Day,
		TimeSlot:  req.TimeSlot,
		Status:    models.SessionStatusPending,
	}
	if err := session.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Both parties must exist
	var teacher, student models.User
	if err := sc.db.Where("id = ?", req.TeacherID).First(&teacher).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
		return
	}
	if err := sc.db.Where("id = ?", req.StudentID).First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	if err := sc.db.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session request"})
		return
	}

	// Notify the party that did not initiate the request
	if actorID == session.StudentID {
		sc.notificationController.NotifySessionRequest(session.TeacherID, student.Name, session.Skill, session.ID)
	} else {
		sc.notificationController.NotifySessionRequest(session.StudentID, teacher.Name, session.Skill, session.ID)
	}

	sc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableSessions,
		Action:   realtime.ActionInsert,
		RecordID: session.ID,
	}, session.TeacherID, session.StudentID)

	session.Teacher = teacher
	session.Student = student
	c.JSON(http.StatusCreated, gin.H{
		"message": "Session request sent",
		"session": session,
	})
}

// AcceptSession lets the teacher accept a pending session request. The
// external meeting link is obtained first; only if that succeeds are the
// status and link committed together. On meeting failure the session stays
// pending, no notification goes out, and the caller gets a 502.
func (sc *SessionController) AcceptSession(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	var session models.Session
	if err := sc.db.Preload("Teacher").Preload("Student").
		Where("id = ?", sessionID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if session.TeacherID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the teacher can accept this session"})
		return
	}

	if session.Status == models.SessionStatusAccepted {
		c.JSON(http.StatusOK, gin.H{
			"message": "Session already accepted",
			"session": session,
		})
		return
	}
	if session.Status != models.SessionStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Session is no longer pending"})
		return
	}

	start, err := session.StartTime()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session has an invalid schedule"})
		return
	}

	summary := fmt.Sprintf("SkillSync: %s session", session.Skill)
	description := fmt.Sprintf("%s teaching %s to %s (%s, %s)",
		session.Teacher.Name, session.Skill, session.Student.Name, session.Day, session.TimeSlot)

	meetingLink, err := sc.meetingService.CreateMeeting(summary, description, start, session.Student.Email)
	if err != nil {
		if errors.Is(err, services.ErrMeetingCreation) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create meeting link, please try again"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept session"})
		return
	}

	// Status and link move together or not at all
	err = sc.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Session{}).
			Where("id = ? AND status = ?", sessionID, models.SessionStatusPending).
			Updates(map[string]interface{}{
				"status":       models.SessionStatusAccepted,
				"meeting_link": meetingLink,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusConflict, gin.H{"error": "Session is no longer pending"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept session"})
		return
	}

	session.Status = models.SessionStatusAccepted
	session.MeetingLink = &meetingLink

	sc.notificationController.NotifySessionAccepted(session.StudentID, session.Teacher.Name, session.Skill, session.ID)

	sc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableSessions,
		Action:   realtime.ActionUpdate,
		RecordID: session.ID,
	}, session.TeacherID, session.StudentID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Session accepted",
		"session": session,
	})
}

// DeclineSession lets the teacher decline a pending session request
func (sc *SessionController) DeclineSession(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	var session models.Session
	if err := sc.db.Preload("Teacher").Preload("Student").
		Where("id = ?", sessionID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if session.TeacherID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the teacher can decline this session"})
		return
	}

	if session.Status == models.SessionStatusDeclined {
		c.JSON(http.StatusOK, gin.H{
			"message": "Session already declined",
			"session": session,
		})
		return
	}
	if session.Status != models.SessionStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Session is no longer pending"})
		return
	}

	result := sc.db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionStatusPending).
		Update("status", models.SessionStatusDeclined)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline session"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Session is no longer pending"})
		return
	}

	session.Status = models.SessionStatusDeclined

	sc.notificationController.NotifySessionDeclined(session.StudentID, session.Teacher.Name, session.Skill)

	sc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableSessions,
		Action:   realtime.ActionUpdate,
		RecordID: session.ID,
	}, session.TeacherID, session.StudentID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Session declined",
		"session": session,
	})
}

// GetSessions returns the authenticated user's sessions, optionally filtered
// by status and by role (teacher or student)
func (sc *SessionController) GetSessions(c *gin.Context) {
	userID := c.GetString("user_id")

	query := sc.db.Model(&models.Session{}).Preload("Teacher").Preload("Student")

	switch c.Query("role") {
	case "teacher":
		query = query.Where("teacher_id = ?", userID)
	case "student":
		query = query.Where("student_id = ?", userID)
	default:
		query = query.Where("teacher_id = ? OR student_id = ?", userID, userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var sessions []models.Session
	if err := query.Order("day ASC, time_slot ASC").Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

// GetSession returns a single session if the actor is a participant
func (sc *SessionController) GetSession(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	var session models.Session
	if err := sc.db.Preload("Teacher").Preload("Student").
		Where("id = ?", sessionID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if !session.Involves(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}
