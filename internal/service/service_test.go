package service

import (
	"fmt"
	"testing"
	"time"

	"dentsim_backend/internal/model"
	"dentsim_backend/internal/repository"
	"dentsim_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every session on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, xp int) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hashed",
		Role:     model.Student,
		XP:       xp,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCase(t *testing.T, db *gorm.DB, name string, difficulty model.CaseDifficulty) *model.Case {
	t.Helper()
	c := &model.Case{
		Name:        name,
		Difficulty:  difficulty,
		Script:      "You are a simulated patient presenting " + name + ".",
		OpeningLine: "Hello, doctor.",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func createActiveSession(t *testing.T, db *gorm.DB, userID, caseID uint, startedAt time.Time) *model.Session {
	t.Helper()
	session := &model.Session{
		UserID:    userID,
		CaseID:    caseID,
		StartedAt: startedAt,
		Status:    model.SessionActive,
	}
	require.NoError(t, db.Create(session).Error)
	return session
}

func newTestRepos(db *gorm.DB) (*repository.UserRepository, *repository.CaseRepository, *repository.SessionRepository, *repository.TurnRepository, *repository.BadgeRepository) {
	return repository.NewUserRepository(db),
		repository.NewCaseRepository(db),
		repository.NewSessionRepository(db),
		repository.NewTurnRepository(db),
		repository.NewBadgeRepository(db)
}
