// File: /controllers/connection_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillsync-api/models"
	"skillsync-api/realtime"
	"skillsync-api/utils"
)

// removeRetryDelay is the pause before the single retry of a failed
// connection delete
const removeRetryDelay = 250 * time.Millisecond

type ConnectionController struct {
	db                     *gorm.DB
	notificationController *NotificationController
	hub                    *realtime.Hub
}

func NewConnectionController(db *gorm.DB, notificationController *NotificationController, hub *realtime.Hub) *ConnectionController {
	return &ConnectionController{
		db:                     db,
		notificationController: notificationController,
		hub:                    hub,
	}
}

// SendRequest creates a pending connection request to the target user.
// At most one connection row exists per user pair, regardless of direction.
func (cc *ConnectionController) SendRequest(c *gin.Context) {
	requesterID := c.GetString("user_id")
	recipientID := c.Param("user_id")

	if requesterID == recipientID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send connection request to yourself"})
		return
	}

	// Check if recipient exists
	var recipient models.User
	if err := cc.db.Where("id = ?", recipientID).First(&recipient).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Check for an existing connection in either direction
	pairKey := models.ConnectionPairKey(requesterID, recipientID)
	var existing models.Connection
	if err := cc.db.Where("pair_key = ?", pairKey).First(&existing).Error; err == nil {
		switch existing.Status {
		case models.ConnectionStatusAccepted:
			c.JSON(http.StatusConflict, gin.H{"error": "Already connected with this user"})
		case models.ConnectionStatusPending:
			c.JSON(http.StatusConflict, gin.H{"error": "Connection request already pending"})
		default:
			c.JSON(http.StatusConflict, gin.H{"error": "Connection request was previously declined"})
		}
		return
	}

	var requester models.User
	if err := cc.db.Where("id = ?", requesterID).First(&requester).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	connection := models.Connection{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.ConnectionStatusPending,
		PairKey:     pairKey,
	}

	if err := cc.db.Create(&connection).Error; err != nil {
		// Concurrent duplicate loses on the pair_key unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Connection request already pending"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create connection request"})
		return
	}

	// Best-effort fan-out; the request already succeeded
	cc.notificationController.NotifyConnectionRequest(recipientID, requester.Name)

	cc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableConnections,
		Action:   realtime.ActionInsert,
		RecordID: connection.ID,
	}, requesterID, recipientID)

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Connection request sent",
		"connection": connection,
	})
}

type RespondRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// RespondToRequest lets the recipient accept or decline a pending request.
// A declined request keeps its row so the decision stays auditable.
func (cc *ConnectionController) RespondToRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	connectionID := c.Param("id")

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be 'accept' or 'decline'"})
		return
	}

	var connection models.Connection
	if err := cc.db.Preload("Requester").Preload("Recipient").
		Where("id = ?", connectionID).First(&connection).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Connection request not found"})
		return
	}

	// Only the recipient may respond; the requester cannot accept their own request
	if connection.RecipientID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the recipient can respond to this request"})
		return
	}

	targetStatus := models.ConnectionStatusAccepted
	if req.Action == "decline" {
		targetStatus = models.ConnectionStatusDeclined
	}

	// Repeating a decision is a no-op success
	if connection.Status == targetStatus {
		c.JSON(http.StatusOK, gin.H{
			"message":    "Connection request already " + string(targetStatus),
			"connection": connection,
		})
		return
	}

	// Guarded update: only a pending request can change state, so a
	// concurrent second responder loses on RowsAffected
	result := cc.db.Model(&models.Connection{}).
		Where("id = ? AND status = ?", connectionID, models.ConnectionStatusPending).
		Update("status", targetStatus)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update connection request"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Connection request is no longer pending"})
		return
	}

	connection.Status = targetStatus

	if targetStatus == models.ConnectionStatusAccepted {
		cc.notificationController.NotifyConnectionAccepted(connection.RequesterID, connection.Recipient.Name)
	} else {
		cc.notificationController.NotifyConnectionDeclined(connection.RequesterID, connection.Recipient.Name)
	}

	cc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableConnections,
		Action:   realtime.ActionUpdate,
		RecordID: connection.ID,
	}, connection.RequesterID, connection.RecipientID)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Connection request " + string(targetStatus),
		"connection": connection,
	})
}

// CancelRequest lets the requester withdraw their own pending request.
// Cancelling produces no notification and is idempotent.
func (cc *ConnectionController) CancelRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	connectionID := c.Param("id")

	var connection models.Connection
	if err := cc.db.Where("id = ?", connectionID).First(&connection).Error; err != nil {
		// Already gone; the desired end state holds
		utils.SendSuccess(c, "Connection request cancelled", nil)
		return
	}

	if connection.RequesterID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the requester can cancel this request"})
		return
	}

	if connection.Status != models.ConnectionStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Only pending requests can be cancelled"})
		return
	}

	if err := cc.db.Where("id = ? AND status = ?", connectionID, models.ConnectionStatusPending).
		Delete(&models.Connection{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel connection request"})
		return
	}

	cc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableConnections,
		Action:   realtime.ActionDelete,
		RecordID: connectionID,
	}, connection.RequesterID, connection.RecipientID)

	utils.SendSuccess(c, "Connection request cancelled", nil)
}

// RemoveConnection deletes an established connection for either party.
// Removal is idempotent and retries the delete once on a transient failure.
func (cc *ConnectionController) RemoveConnection(c *gin.Context) {
	userID := c.GetString("user_id")
	connectionID := c.Param("id")

	var connection models.Connection
	if err := cc.db.Where("id = ?", connectionID).First(&connection).Error; err != nil {
		utils.SendSuccess(c, "Connection removed", nil)
		return
	}

	if !connection.Involves(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this connection"})
		return
	}

	// Pending requests go through cancel, not remove
	if connection.Status != models.ConnectionStatusAccepted {
		c.JSON(http.StatusConflict, gin.H{"error": "Only accepted connections can be removed"})
		return
	}

	err := cc.db.Where("id = ?", connectionID).Delete(&models.Connection{}).Error
	if err != nil {
		time.Sleep(removeRetryDelay)
		err = cc.db.Where("id = ?", connectionID).Delete(&models.Connection{}).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove connection"})
		return
	}

	cc.hub.NotifyChange(realtime.ChangeEvent{
		Table:    realtime.TableConnections,
		Action:   realtime.ActionDelete,
		RecordID: connectionID,
	}, connection.RequesterID, connection.RecipientID)

	utils.SendSuccess(c, "Connection removed", nil)
}

// GetConnections returns the accepted connections of the authenticated user
func (cc *ConnectionController) GetConnections(c *gin.Context) {
	userID := c.GetString("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := cc.db.Model(&models.Connection{}).
		Where("(requester_id = ? OR recipient_id = ?) AND status = ?",
			userID, userID, models.ConnectionStatusAccepted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count connections"})
		return
	}

	var connections []models.Connection
	if err := query.Preload("Requester").Preload("Recipient").
		Order("updated_at DESC").Offset(offset).Limit(limit).
		Find(&connections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch connections"})
		return
	}

	// Flatten each connection to the counterpart's public profile
	type connectionEntry struct {
		ConnectionID string            `json:"connection_id"`
		User         models.PublicUser `json:"user"`
		ConnectedAt  time.Time         `json:"connected_at"`
	}

	entries := make([]connectionEntry, len(connections))
	for i, conn := range connections {
		other := conn.Requester
		if conn.RequesterID == userID {
			other = conn.Recipient
		}
		entries[i] = connectionEntry{
			ConnectionID: conn.ID,
			User:         other.ToPublic(),
			ConnectedAt:  conn.UpdatedAt,
		}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gin.H{
		"connections": entries,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": totalPages,
	})
}

// GetPendingRequests returns requests waiting on the authenticated user
func (cc *ConnectionController) GetPendingRequests(c *gin.Context) {
	userID := c.GetString("user_id")

	var connections []models.Connection
	if err := cc.db.Preload("Requester").
		Where("recipient_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Order("created_at DESC").
		Find(&connections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending requests"})
		return
	}

	type pendingEntry struct {
		ConnectionID string            `json:"connection_id"`
		Requester    models.PublicUser `json:"requester"`
		RequestedAt  time.Time         `json:"requested_at"`
	}

	entries := make([]pendingEntry, len(connections))
	for i, conn := range connections {
		entries[i] = pendingEntry{
			ConnectionID: conn.ID,
			Requester:    conn.Requester.ToPublic(),
			RequestedAt:  conn.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"requests": entries, "count": len(entries)})
}

// GetSentRequests returns the authenticated user's outgoing pending requests
func (cc *ConnectionController) GetSentRequests(c *gin.Context) {
	userID := c.GetString("user_id")

	var connections []models.Connection
	if err := cc.db.Preload("Recipient").
		Where("requester_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Order("created_at DESC").
		Find(&connections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sent requests"})
		return
	}

	type sentEntry struct {
		ConnectionID string            `json:"connection_id"`
		Recipient    models.PublicUser `json:"recipient"`
		RequestedAt  time.Time         `json:"requested_at"`
	}

	entries := make([]sentEntry, len(connections))
	for i, conn := range connections {
		entries[i] = sentEntry{
			ConnectionID: conn.ID,
			Recipient:    conn.Recipient.ToPublic(),
			RequestedAt:  conn.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"requests": entries, "count": len(entries)})
}

// GetConnectionStatus reports the relationship between the authenticated user
// and another user: none, pending_sent, pending_received, accepted or declined
func (cc *ConnectionController) GetConnectionStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	otherUserID := c.Param("user_id")

	if userID == otherUserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot check connection status with yourself"})
		return
	}

	pairKey := models.ConnectionPairKey(userID, otherUserID)
	var connection models.Connection
	if err := cc.db.Where("pair_key = ?", pairKey).First(&connection).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "none"})
		return
	}

	status := string(connection.Status)
	if connection.Status == models.ConnectionStatusPending {
		if connection.RequesterID == userID {
			status = "pending_sent"
		} else {
			status = "pending_received"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        status,
		"connection_id": connection.ID,
	})
}
