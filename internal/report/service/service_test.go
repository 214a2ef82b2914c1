package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/access"
	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	activityRepository "github.com/planzo/planzo-api/internal/activity/repository"
	"github.com/planzo/planzo-api/internal/mail"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
	projectRepository "github.com/planzo/planzo-api/internal/project/repository"
	reportModel "github.com/planzo/planzo-api/internal/report/model"
	"github.com/planzo/planzo-api/internal/report/repository"
	taskModel "github.com/planzo/planzo-api/internal/task/model"
	"github.com/planzo/planzo-api/internal/testutil"
	userModel "github.com/planzo/planzo-api/internal/user/model"
	"github.com/planzo/planzo-api/pkg/validation"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	db          *gorm.DB
	svc         *service
	mailer      *fakeMailer
	project     *projectModel.Project
	owner       *userModel.User
	manager     *userModel.User
	contributor *userModel.User
	outsider    *userModel.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	logger := testutil.Logger()
	mailer := &fakeMailer{}

	svc := New(
		repository.New(db, logger),
		projectRepository.New(db, logger),
		activityRepository.New(db, logger),
		mailer,
		logger,
	).(*service)
	svc.now = func() time.Time { return stamp }

	f := &fixture{
		db:          db,
		svc:         svc,
		mailer:      mailer,
		owner:       testutil.CreateUser(t, db, "owner"),
		manager:     testutil.CreateUser(t, db, "manager"),
		contributor: testutil.CreateUser(t, db, "contributor"),
		outsider:    testutil.CreateUser(t, db, "outsider"),
	}

	f.project = &projectModel.Project{Name: "Apollo", CreatorID: f.owner.ID}
	require.NoError(t, db.Create(f.project).Error)
	for user, role := range map[*userModel.User]access.Role{
		f.owner:       access.RoleOwner,
		f.manager:     access.RoleManager,
		f.contributor: access.RoleContributor,
	} {
		require.NoError(t, db.Create(&projectModel.Member{
			ProjectID: f.project.ID, UserID: user.ID, Role: role, JoinedAt: time.Now(),
		}).Error)
	}

	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	for i, status := range []taskModel.Status{taskModel.StatusCompleted, taskModel.StatusOngoing, taskModel.StatusAssigned} {
		require.NoError(t, db.Create(&taskModel.Task{
			Title:      []string{"Spec", "Build", "Test"}[i],
			ProjectID:  f.project.ID,
			AssigneeID: f.contributor.ID,
			CreatorID:  f.owner.ID,
			DueDate:    due,
			Status:     status,
			CreatedAt:  due.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	return f
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	t.Run("burn down persisted", func(t *testing.T) {
		resp, err := f.svc.Generate(ctx, f.contributor.ID, f.project.ID,
			&reportModel.GenerateRequest{Type: "Burn Down"})
		require.NoError(t, err)
		assert.Equal(t, reportModel.TypeBurnDown, resp.Type)
		assert.Equal(t, f.contributor.ID, resp.CreatedBy)

		var data reportModel.BurnDown
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 3, data.TotalTasks)
		assert.Equal(t, 1, data.CompletedTasks)
		assert.Equal(t, "33.33", data.CompletionPercentage)

		stored, err := f.svc.Get(ctx, f.owner.ID, resp.ID)
		require.NoError(t, err)
		assert.JSONEq(t, string(resp.Data), string(stored.Data))
	})

	t.Run("team performance", func(t *testing.T) {
		resp, err := f.svc.Generate(ctx, f.owner.ID, f.project.ID,
			&reportModel.GenerateRequest{Type: "Team Performance"})
		require.NoError(t, err)

		var data reportModel.TeamPerformance
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data.AssigneePerformance, 1)
		assert.Equal(t, "contributor", data.AssigneePerformance[0].Name)
		assert.Equal(t, 3, data.AssigneePerformance[0].TotalTasks)
	})

	t.Run("time tracking reads task activity", func(t *testing.T) {
		projectID := f.project.ID
		require.NoError(t, f.db.Create(&activityModel.ActivityLog{
			UserID:     f.owner.ID,
			EntityType: activityModel.EntityTask,
			EntityID:   "t-missing",
			Action:     activityModel.ActionCreated,
			Details:    "{}",
			ProjectID:  &projectID,
			CreatedAt:  stamp,
		}).Error)

		resp, err := f.svc.Generate(ctx, f.owner.ID, f.project.ID,
			&reportModel.GenerateRequest{Type: "Time Tracking"})
		require.NoError(t, err)

		var data reportModel.TimeTracking
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data.Records, 1)
		assert.Equal(t, "owner", data.Records[0].User)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := f.svc.Generate(ctx, f.owner.ID, f.project.ID, &reportModel.GenerateRequest{Type: "Velocity"})
		assert.ErrorIs(t, err, reportModel.ErrInvalidReportType)
	})

	t.Run("outsider rejected", func(t *testing.T) {
		_, err := f.svc.Generate(ctx, f.outsider.ID, f.project.ID, &reportModel.GenerateRequest{Type: "Burn Down"})
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := f.svc.Generate(ctx, f.owner.ID, "missing", &reportModel.GenerateRequest{Type: "Burn Down"})
		assert.ErrorIs(t, err, projectModel.ErrProjectNotFound)
	})
}

func TestService_ListGetDelete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	first, err := f.svc.Generate(ctx, f.owner.ID, f.project.ID, &reportModel.GenerateRequest{Type: "Burn Down"})
	require.NoError(t, err)
	f.svc.now = func() time.Time { return stamp.Add(time.Hour) }
	second, err := f.svc.Generate(ctx, f.owner.ID, f.project.ID, &reportModel.GenerateRequest{Type: "Task Progress"})
	require.NoError(t, err)

	reports, err := f.svc.List(ctx, f.contributor.ID, f.project.ID)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, "owner", reports[0].CreatedByName)

	_, err = f.svc.List(ctx, f.outsider.ID, f.project.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = f.svc.Get(ctx, f.outsider.ID, first.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = f.svc.Get(ctx, f.owner.ID, "missing")
	assert.ErrorIs(t, err, reportModel.ErrReportNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.contributor.ID, first.ID), access.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, f.manager.ID, first.ID))

	_, err = f.svc.Get(ctx, f.owner.ID, first.ID)
	assert.ErrorIs(t, err, reportModel.ErrReportNotFound)
}

func TestService_EmailSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit recipients", func(t *testing.T) {
		f := setup(t)

		resp, err := f.svc.EmailSummary(ctx, f.manager.ID, f.project.ID, &reportModel.EmailSummaryRequest{
			Recipients: []string{" lead@example.com ", ""},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"lead@example.com"}, resp.Recipients)

		require.Len(t, f.mailer.sent, 1)
		msg := f.mailer.sent[0]
		assert.Equal(t, mail.TemplateSummary, msg.Template)
		assert.Equal(t, "Apollo: progress summary", msg.Subject)
		data := msg.Data.(mail.SummaryData)
		assert.Equal(t, 3, data.TotalTasks)
		assert.Equal(t, "33.33", data.CompletionPercentage)
	})

	t.Run("defaults to members", func(t *testing.T) {
		f := setup(t)

		resp, err := f.svc.EmailSummary(ctx, f.owner.ID, f.project.ID, &reportModel.EmailSummaryRequest{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"owner@example.com", "manager@example.com", "contributor@example.com",
		}, resp.Recipients)
	})

	t.Run("invalid email", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.EmailSummary(ctx, f.owner.ID, f.project.ID, &reportModel.EmailSummaryRequest{
			Recipients: []string{"not-an-email"},
		})
		assert.ErrorIs(t, err, validation.ErrValidation)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("contributor rejected", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.EmailSummary(ctx, f.contributor.ID, f.project.ID, &reportModel.EmailSummaryRequest{})
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("delivery failure", func(t *testing.T) {
		f := setup(t)
		f.mailer.err = errors.New("smtp down")

		_, err := f.svc.EmailSummary(ctx, f.owner.ID, f.project.ID, &reportModel.EmailSummaryRequest{})
		assert.EqualError(t, err, "smtp down")
	})
}
