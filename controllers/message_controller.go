// File: /controllers/message_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillsync-api/models"
	"skillsync-api/realtime"
	"skillsync-api/utils"
)

type MessageController struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewMessageController(db *gorm.DB, hub *realtime.Hub) *MessageController {
	return &MessageController{db: db, hub: hub}
}

type SendMessageRequest struct {
	ConnectionID string `json:"connection_id" binding:"required"`
	Content      string `json:"content" binding:"required,max=2000"`
}

// SendMessage posts a message on an accepted connection the actor belongs to
func (mc *MessageController) SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var connection models.Connection
	if err := mc.db.Where("id = ?", req.ConnectionID).First(&connection).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Connection not found")
		return
	}

	if !connection.Involves(userID) {
		utils.SendError(c, http.StatusForbidden, "Not a member of this connection")
		return
	}
	if connection.Status != models.ConnectionStatusAccepted {
		utils.SendError(c, http.StatusForbidden, "Messaging requires an accepted connection")
		return
	}

	message := models.Message{
		ID:           uuid.New().String(),
		ConnectionID: connection.ID,
		SenderID:     userID,
		RecipientID:  connection.OtherParty(userID),
		Content:      req.Content,
		IsRead:       false,
	}

	if err := mc.db.Create(&message).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}

	mc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableMessages,
		Action:   realtime.ActionInsert,
		RecordID: message.ID,
	}, message.SenderID, message.RecipientID)

	utils.SendCreated(c, "Message sent", message)
}

// GetConversation returns the messages of a connection, newest page first,
// and marks the actor's incoming messages as read
func (mc *MessageController) GetConversation(c *gin.Context) {
	userID := c.GetString("user_id")
	connectionID := c.Param("connection_id")

	var connection models.Connection
	if err := mc.db.Where("id = ?", connectionID).First(&connection).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Connection not found")
		return
	}
	if !connection.Involves(userID) {
		utils.SendError(c, http.StatusForbidden, "Not a member of this connection")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var total int64
	if err := mc.db.Model(&models.Message{}).Where("connection_id = ?", connectionID).
		Count(&total).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to count messages")
		return
	}

	var messages []models.Message
	if err := mc.db.Where("connection_id = ?", connectionID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&messages).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	// Fetching the conversation marks incoming messages as read
	result := mc.db.Model(&models.Message{}).
		Where("connection_id = ? AND recipient_id = ? AND is_read = ?", connectionID, userID, false).
		Update("is_read", true)
	if result.Error == nil && result.RowsAffected > 0 {
		mc.hub.NotifyChange(realtime.ChangeEvent{
			Table:    realtime.TableMessages,
			Action:   realtime.ActionUpdate,
			RecordID: connectionID,
		}, connection.RequesterID, connection.RecipientID)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gin.H{
		"messages":    messages,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": totalPages,
	})
}

// GetUnreadCount returns how many unread messages await the actor
func (mc *MessageController) GetUnreadCount(c *gin.Context) {
	userID := c.GetString("user_id")

	var count int64
	if err := mc.db.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to count messages")
		return
	}

	c.JSON(http.StatusOK, models.UnreadMessageCount{Count: count})
}
