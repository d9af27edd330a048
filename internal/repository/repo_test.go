package repository

import (
	"testing"

	"github.com/planhive/planhive/internal/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.Conversation{},
		&entity.ConversationMember{},
		&entity.Message{},
		&entity.MessageRead{},
		&entity.TeamMember{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestRepos builds a Repositories aggregate on the test database.
// Redis is nil; repos that touch it degrade to database-only behavior.
func newTestRepos(t *testing.T) *Repositories {
	t.Helper()

	db := newTestDB(t)
	return &Repositories{
		DB:           db,
		Conversation: NewConversationRepo(db, nil),
		Message:      NewMessageRepo(db, nil),
		Team:         NewTeamRepo(db, nil),
	}
}
