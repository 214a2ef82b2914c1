// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
	reportModel "github.com/planzo/planzo-api/internal/report/model"
	taskModel "github.com/planzo/planzo-api/internal/task/model"
	teamModel "github.com/planzo/planzo-api/internal/team/model"
	userModel "github.com/planzo/planzo-api/internal/user/model"
)

// NewDB opens a fresh in-memory sqlite database with every table migrated.
// A single connection keeps the in-memory database shared across queries.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&userModel.User{},
		&teamModel.Team{},
		&teamModel.Member{},
		&projectModel.Project{},
		&projectModel.Member{},
		&projectModel.ProjectTeam{},
		&taskModel.Task{},
		&activityModel.ActivityLog{},
		&reportModel.Report{},
	)
	require.NoError(t, err)

	return db
}

// Logger returns a no-op sugared logger.
func Logger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// CreateUser inserts a user with the given name; the email is derived from it.
func CreateUser(t *testing.T, db *gorm.DB, name string) *userModel.User {
	t.Helper()

	u := &userModel.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// Recorder collects activity entries in memory.
type Recorder struct {
	mu      sync.Mutex
	Entries []activityModel.Entry
}

// Record appends entry.
func (r *Recorder) Record(_ context.Context, entry activityModel.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, entry)
}

// Actions returns the recorded actions in order.
func (r *Recorder) Actions() []activityModel.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]activityModel.Action, 0, len(r.Entries))
	for _, e := range r.Entries {
		actions = append(actions, e.Action)
	}
	return actions
}
