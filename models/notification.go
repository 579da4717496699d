// File: /models/notification.go
package models

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypeConnectionRequest  NotificationType = "connection_request"
	NotificationTypeConnectionAccepted NotificationType = "connection_accepted"
	NotificationTypeConnectionDeclined NotificationType = "connection_declined"
	NotificationTypeSession            NotificationType = "session"
)

type Notification struct {
	ID          string           `json:"id" gorm:"primaryKey;size:191"`
	UserID      string           `json:"user_id" gorm:"not null;index;size:191"` // Who receives the notification
	Type        NotificationType `json:"type" gorm:"not null;size:50"`
	Title       string           `json:"title" gorm:"not null;size:255"`
	Description *string          `json:"description" gorm:"type:text"`
	ActionURL   *string          `json:"action_url" gorm:"size:500"` // App-relative deep link
	IsRead      bool             `json:"is_read" gorm:"default:false"`
	CreatedAt   time.Time        `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// CreateNotificationParams for creating new notifications
type CreateNotificationParams struct {
	UserID      string           `json:"user_id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	ActionURL   *string          `json:"action_url,omitempty"`
}

// NotificationResponse represents the API response for notifications
type NotificationResponse struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	ActionURL   *string          `json:"action_url,omitempty"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
	TimeAgo     string           `json:"time_ago"`
}

// NotificationStats represents notification statistics
type NotificationStats struct {
	UnreadCount int `json:"unread_count"`
	TotalCount  int `json:"total_count"`
}

// PaginatedNotifications represents paginated notification response
type PaginatedNotifications struct {
	Notifications []NotificationResponse `json:"notifications"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	Total         int64                  `json:"total"`
	HasMore       bool                   `json:"has_more"`
	TotalPages    int                    `json:"total_pages"`
}

// GetTimeAgo returns a human-readable time difference
func (n *Notification) GetTimeAgo() string {
	now := time.Now()
	diff := now.Sub(n.CreatedAt)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / (24 * 7))
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		months := int(diff.Hours() / (24 * 30))
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	}
}

// ToResponse converts Notification to NotificationResponse
func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Description: n.Description,
		ActionURL:   n.ActionURL,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
		TimeAgo:     n.GetTimeAgo(),
	}
}
