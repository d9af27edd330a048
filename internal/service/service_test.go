package service

import (
	"testing"

	"github.com/planhive/planhive/internal/entity"
	"github.com/planhive/planhive/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepos builds a Repositories aggregate on an in-memory sqlite database
func newTestRepos(t *testing.T) *repository.Repositories {
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

	return &repository.Repositories{
		DB:           db,
		Conversation: repository.NewConversationRepo(db, nil),
		Message:      repository.NewMessageRepo(db, nil),
		Team:         repository.NewTeamRepo(db, nil),
	}
}
