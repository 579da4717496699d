// File: /services/session_service.go
package services

import (
	"fmt"
	"skillsync-api/repositories"
	"time"
)

// SessionService holds the maintenance logic shared by the completion job
type SessionService struct {
	repo *repositories.SessionRepository
}

func NewSessionService(repo *repositories.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// CompletePastSessions marks accepted sessions whose scheduled day has passed
// as completed. Returns the number of sessions transitioned.
func (ss *SessionService) CompletePastSessions() (int, error) {
	sessions, err := ss.repo.GetAcceptedSessionsBefore(time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to fetch past sessions: %w", err)
	}

	completed := 0
	for _, session := range sessions {
		if err := ss.repo.MarkCompleted(session.ID); err != nil {
			fmt.Printf("Warning: Could not complete session %s: %v\n", session.ID, err)
			continue
		}
		completed++
	}

	return completed, nil
}
