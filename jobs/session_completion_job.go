// File: /jobs/session_completion_job.go
package jobs

import (
	"fmt"
	"gorm.io/gorm"
	"skillsync-api/repositories"
	"skillsync-api/services"
	"time"
)

// SessionCompletionJob periodically moves accepted sessions whose scheduled
// day has passed into the completed state
type SessionCompletionJob struct {
	db             *gorm.DB
	sessionService *services.SessionService
	ticker         *time.Ticker
	done           chan bool
}

// NewSessionCompletionJob creates a new session completion job
func NewSessionCompletionJob(db *gorm.DB, interval time.Duration) *SessionCompletionJob {
	sessionRepo := repositories.NewSessionRepository(db)
	sessionService := services.NewSessionService(sessionRepo)

	return &SessionCompletionJob{
		db:             db,
		sessionService: sessionService,
		ticker:         time.NewTicker(interval),
		done:           make(chan bool),
	}
}

// Start begins the completion job
func (j *SessionCompletionJob) Start() {
	fmt.Println("Session completion job started")

	go func() {
		// Run immediately on start
		j.run()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.run()
			case <-j.done:
				fmt.Println("Session completion job stopped")
				return
			}
		}
	}()
}

// Stop stops the completion job
func (j *SessionCompletionJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *SessionCompletionJob) run() {
	completed, err := j.sessionService.CompletePastSessions()
	if err != nil {
		fmt.Printf("Error during session completion: %v\n", err)
		return
	}

	if completed > 0 {
		fmt.Printf("Marked %d past sessions as completed\n", completed)
	}
}
