// File: /database/database.go
package database

import (
	"fmt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"skillsync-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
		// Map driver duplicate-key errors onto gorm.ErrDuplicatedKey so racing
		// inserts surface as conflicts instead of generic failures
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.Session{},
		&models.Notification{},
		&models.Message{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Connection lookups by either party
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connections_requester ON connections(requester_id, status)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for connections requester: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connections_recipient ON connections(recipient_id, status)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for connections recipient: %v\n", err)
	}

	// Session lists per teacher/student
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_teacher_status ON sessions(teacher_id, status)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for sessions teacher: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_student_status ON sessions(student_id, status)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for sessions student: %v\n", err)
	}

	// Notification feed, newest first
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for notifications: %v\n", err)
	}

	// Unread badge count
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_recipient_read ON messages(recipient_id, is_read)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for messages: %v\n", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// One connection row per unordered user pair; the application checks both
	// directions first, the constraint catches racing inserts
	if err := db.Exec("ALTER TABLE connections ADD CONSTRAINT uk_connections_pair UNIQUE (pair_key)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for connections: %v\n", err)
	}

	// Prevent self-connections
	if err := db.Exec("ALTER TABLE connections ADD CONSTRAINT ck_connections_no_self CHECK (requester_id != recipient_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for connections: %v\n", err)
	}

	// A meeting link exists only on accepted or completed sessions
	if err := db.Exec("ALTER TABLE sessions ADD CONSTRAINT ck_sessions_link_status CHECK (meeting_link IS NULL OR status IN ('accepted', 'completed'))").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for sessions: %v\n", err)
	}

	return nil
}

// SeedData can be used to populate the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	testUsers := []models.User{
		{
			ID:             "user-1",
			Name:           "John Doe",
			Handle:         "john_doe",
			Email:          "john@example.com",
			Password:       "$2a$10$dummy", // This should be properly hashed in real scenarios
			EmailVerified:  true,
			SkillsTeaching: models.StringSlice{"Guitar", "Music Theory"},
			SkillsLearning: models.StringSlice{"Spanish"},
			AvailabilityTimes: models.StringSlice{
				"5:00 PM - 6:00 PM",
				"6:00 PM - 7:00 PM",
			},
		},
		{
			ID:             "user-2",
			Name:           "Jane Smith",
			Handle:         "jane_smith",
			Email:          "jane@example.com",
			Password:       "$2a$10$dummy",
			EmailVerified:  true,
			SkillsTeaching: models.StringSlice{"Spanish", "Photography"},
			SkillsLearning: models.StringSlice{"Guitar"},
			AvailabilityTimes: models.StringSlice{
				"10:00 AM - 11:00 AM",
				"5:00 PM - 6:00 PM",
			},
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Handle, err)
		}
	}

	return nil
}
