// File: /repositories/session_repository.go
package repositories

import (
	"gorm.io/gorm"
	"skillsync-api/models"
	"time"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetAcceptedSessionsBefore returns accepted sessions scheduled on a day
// strictly before the given instant
func (r *SessionRepository) GetAcceptedSessionsBefore(cutoff time.Time) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.
		Where("status = ?", models.SessionStatusAccepted).
		Where("day < ?", cutoff.Format("2006-01-02")).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// MarkCompleted flips a session to completed
func (r *SessionRepository) MarkCompleted(sessionID string) error {
	return r.db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionStatusAccepted).
		Updates(map[string]interface{}{
			"status":     models.SessionStatusCompleted,
			"updated_at": time.Now(),
		}).Error
}
