// File: /models/user.go
package models

import (
	"strings"
	"time"
)

type User struct {
	ID            string  `json:"id" gorm:"primaryKey;size:191"`
	Name          string  `json:"name" gorm:"not null;size:255"`
	Handle        string  `json:"handle" gorm:"uniqueIndex;not null;size:50"`
	Email         string  `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password      string  `json:"-" gorm:"not null;size:255"`
	EmailVerified bool    `json:"email_verified" gorm:"default:false"`
	Avatar        *string `json:"avatar" gorm:"size:500"`
	Bio           string  `json:"bio" gorm:"type:text"`

	// Skills the user offers to teach and wants to learn
	SkillsTeaching StringSlice `json:"skills_teaching" gorm:"type:json"`
	SkillsLearning StringSlice `json:"skills_learning" gorm:"type:json"`

	// Advisory availability labels from the time-slot catalog
	AvailabilityTimes StringSlice `json:"availability_times" gorm:"type:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUser is the profile shape exposed to other users
type PublicUser struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Handle            string      `json:"handle"`
	Avatar            *string     `json:"avatar"`
	Bio               string      `json:"bio"`
	SkillsTeaching    StringSlice `json:"skills_teaching"`
	SkillsLearning    StringSlice `json:"skills_learning"`
	AvailabilityTimes StringSlice `json:"availability_times"`
}

// ToPublic strips credentials and private fields
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:                u.ID,
		Name:              u.Name,
		Handle:            u.Handle,
		Avatar:            u.Avatar,
		Bio:               u.Bio,
		SkillsTeaching:    u.SkillsTeaching,
		SkillsLearning:    u.SkillsLearning,
		AvailabilityTimes: u.AvailabilityTimes,
	}
}

// GenerateHandleFromName creates a handle candidate from the user's name
func GenerateHandleFromName(name string) string {
	handle := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	handle = strings.ReplaceAll(handle, ".", "")
	handle = strings.ReplaceAll(handle, "-", "_")
	return handle
}
