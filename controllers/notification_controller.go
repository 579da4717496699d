// File: /controllers/notification_controller.go
package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillsync-api/models"
	"skillsync-api/realtime"
)

type NotificationController struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewNotificationController(db *gorm.DB, hub *realtime.Hub) *NotificationController {
	return &NotificationController{db: db, hub: hub}
}

// GetNotifications returns paginated notifications for the authenticated user
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")

	// Parse pagination parameters
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	// Optional filters
	notificationType := c.Query("type")
	unreadOnly := c.Query("unread_only") == "true"

	query := nc.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if notificationType != "" {
		query = query.Where("type = ?", notificationType)
	}
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	responses := make([]models.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = n.ToResponse()
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, models.PaginatedNotifications{
		Notifications: responses,
		Page:          page,
		Limit:         limit,
		Total:         total,
		HasMore:       page < totalPages,
		TotalPages:    totalPages,
	})
}

// GetNotificationStats returns unread and total counts for the badge
func (nc *NotificationController) GetNotificationStats(c *gin.Context) {
	userID := c.GetString("user_id")

	var unreadCount, totalCount int64
	if err := nc.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unreadCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}
	if err := nc.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, models.NotificationStats{
		UnreadCount: int(unreadCount),
		TotalCount:  int(totalCount),
	})
}

// MarkAsRead marks a single notification as read
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	result := nc.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	nc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableNotifications,
		Action:   realtime.ActionUpdate,
		RecordID: notificationID,
	}, userID)

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllAsRead marks every notification of the authenticated user as read
func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID := c.GetString("user_id")

	result := nc.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	if result.RowsAffected > 0 {
		nc.hub.NotifyChange(realtime.ChangeEvent{
			Table:  realtime.TableNotifications,
			Action: realtime.ActionUpdate,
		}, userID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "All notifications marked as read",
		"updated_count": result.RowsAffected,
	})
}

// DeleteNotification removes a notification owned by the authenticated user
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	result := nc.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	nc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableNotifications,
		Action:   realtime.ActionDelete,
		RecordID: notificationID,
	}, userID)

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// CreateNotification persists a notification and pushes a change event to the
// target user. Failures are logged and swallowed so a broken notification
// write can never fail the request or session mutation that triggered it.
// Delivery is at-least-once: retried triggers produce duplicate rows rather
// than silently losing one.
func (nc *NotificationController) CreateNotification(params models.CreateNotificationParams) error {
	// A vanished target user is a no-op, not an error
	var user models.User
	if err := nc.db.Select("id").Where("id = ?", params.UserID).First(&user).Error; err != nil {
		log.Printf("Skipping notification for missing user %s", params.UserID)
		return nil
	}

	notification := models.Notification{
		ID:          uuid.New().String(),
		UserID:      params.UserID,
		Type:        params.Type,
		Title:       params.Title,
		Description: params.Description,
		ActionURL:   params.ActionURL,
		IsRead:      false,
	}

	if err := nc.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	nc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableNotifications,
		Action:   realtime.ActionInsert,
		RecordID: notification.ID,
	}, params.UserID)

	return nil
}

// notify runs CreateNotification on the fan-out contract: log and move on
func (nc *NotificationController) notify(params models.CreateNotificationParams) {
	if err := nc.CreateNotification(params); err != nil {
		log.Printf("❌ Notification fan-out failed for user %s: %v", params.UserID, err)
	}
}

// NotifyConnectionRequest tells the recipient a new connection request arrived
func (nc *NotificationController) NotifyConnectionRequest(recipientID, requesterName string) {
	description := fmt.Sprintf("%s wants to connect with you", requesterName)
	actionURL := "/connections"
	nc.notify(models.CreateNotificationParams{
		UserID:      recipientID,
		Type:        models.NotificationTypeConnectionRequest,
		Title:       "New Connection Request",
		Description: &description,
		ActionURL:   &actionURL,
	})
}

// NotifyConnectionAccepted tells the requester their request was accepted
func (nc *NotificationController) NotifyConnectionAccepted(requesterID, recipientName string) {
	description := fmt.Sprintf("%s accepted your connection request", recipientName)
	actionURL := "/connections"
	nc.notify(models.CreateNotificationParams{
		UserID:      requesterID,
		Type:        models.NotificationTypeConnectionAccepted,
		Title:       "Connection Request Accepted",
		Description: &description,
		ActionURL:   &actionURL,
	})
}

// NotifyConnectionDeclined tells the requester their request was declined
func (nc *NotificationController) NotifyConnectionDeclined(requesterID, recipientName string) {
	description := fmt.Sprintf("%s declined your connection request", recipientName)
	nc.notify(models.CreateNotificationParams{
		UserID:      requesterID,
		Type:        models.NotificationTypeConnectionDeclined,
		Title:       "Connection Request Declined",
		Description: &description,
	})
}

// NotifySessionRequest tells the other party a session was requested
func (nc *NotificationController) NotifySessionRequest(targetUserID, actorName, skill, sessionID string) {
	description := fmt.Sprintf("%s requested a %s session with you", actorName, skill)
	actionURL := fmt.Sprintf("/sessions/%s", sessionID)
	nc.notify(models.CreateNotificationParams{
		UserID:      targetUserID,
		Type:        models.NotificationTypeSession,
		Title:       "New Session Request",
		Description: &description,
		ActionURL:   &actionURL,
	})
}

// NotifySessionAccepted tells the student their session was accepted
func (nc *NotificationController) NotifySessionAccepted(studentID, teacherName, skill, sessionID string) {
	description := fmt.Sprintf("%s accepted your %s session request", teacherName, skill)
	actionURL := fmt.Sprintf("/sessions/%s", sessionID)
	nc.notify(models.CreateNotificationParams{
		UserID:      studentID,
		Type:        models.NotificationTypeSession,
		Title:       "Session Request Accepted",
		Description: &description,
		ActionURL:   &actionURL,
	})
}

// NotifySessionDeclined tells the student their session was declined
func (nc *NotificationController) NotifySessionDeclined(studentID, teacherName, skill string) {
	description := fmt.Sprintf("%s declined your %s session request", teacherName, skill)
	nc.notify(models.CreateNotificationParams{
		UserID:      studentID,
		Type:        models.NotificationTypeSession,
		Title:       "Session Request Declined",
		Description: &description,
	})
}
