// File: /models/session.go
package models

import (
	"fmt"
	"time"
)

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusAccepted  SessionStatus = "accepted"
	SessionStatusDeclined  SessionStatus = "declined"
	SessionStatusCompleted SessionStatus = "completed"
)

// AvailabilityTimeSlots is the finite catalog of bookable time labels.
// Sessions and profile availability both pick from this list.
var AvailabilityTimeSlots = []string{
	"8:00 AM - 9:00 AM",
	"9:00 AM - 10:00 AM",
	"10:00 AM - 11:00 AM",
	"11:00 AM - 12:00 PM",
	"12:00 PM - 1:00 PM",
	"1:00 PM - 2:00 PM",
	"2:00 PM - 3:00 PM",
	"3:00 PM - 4:00 PM",
	"4:00 PM - 5:00 PM",
	"5:00 PM - 6:00 PM",
	"6:00 PM - 7:00 PM",
	"7:00 PM - 8:00 PM",
	"8:00 PM - 9:00 PM",
}

// IsValidTimeSlot checks catalog membership
func IsValidTimeSlot(slot string) bool {
	for _, s := range AvailabilityTimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type Session struct {
	ID        string        `json:"id" gorm:"primaryKey;size:191"`
	TeacherID string        `json:"teacher_id" gorm:"not null;size:191"`
	StudentID string        `json:"student_id" gorm:"not null;size:191"`
	Skill     string        `json:"skill" gorm:"not null;size:255"`
	Day       string        `json:"day" gorm:"not null;size:10"` // YYYY-MM-DD
	TimeSlot  string        `json:"time_slot" gorm:"not null;size:50"`
	Status    SessionStatus `json:"status" gorm:"not null;default:'pending';size:20"`

	// Set together with Status=accepted in one transaction, never separately
	MeetingLink *string `json:"meeting_link" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Teacher User `json:"teacher" gorm:"foreignKey:TeacherID"`
	Student User `json:"student" gorm:"foreignKey:StudentID"`
}

// Validate rejects unknown statuses, malformed days, and off-catalog slots
func (s *Session) Validate() error {
	switch s.Status {
	case SessionStatusPending, SessionStatusAccepted, SessionStatusDeclined, SessionStatusCompleted:
	default:
		return fmt.Errorf("invalid session status: %q", s.Status)
	}

	if _, err := time.Parse("2006-01-02", s.Day); err != nil {
		return fmt.Errorf("invalid session day %q: %w", s.Day, err)
	}

	if !IsValidTimeSlot(s.TimeSlot) {
		return fmt.Errorf("invalid time slot: %q", s.TimeSlot)
	}

	return nil
}

// StartTime converts day + time slot into the slot's opening instant (UTC)
func (s *Session) StartTime() (time.Time, error) {
	day, err := time.Parse("2006-01-02", s.Day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid session day %q: %w", s.Day, err)
	}

	// Slot labels look like "5:00 PM - 6:00 PM"; the opening clock time is
	// everything before the first " - "
	var open string
	if n := len(s.TimeSlot); n > 0 {
		for i := 0; i+3 <= n; i++ {
			if s.TimeSlot[i:i+3] == " - " {
				open = s.TimeSlot[:i]
				break
			}
		}
	}
	if open == "" {
		return time.Time{}, fmt.Errorf("invalid time slot: %q", s.TimeSlot)
	}

	clock, err := time.Parse("3:04 PM", open)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time slot %q: %w", s.TimeSlot, err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

// Involves reports whether the user is the teacher or the student
func (s *Session) Involves(userID string) bool {
	return s.TeacherID == userID || s.StudentID == userID
}
