package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/access"
	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
	projectRepository "github.com/planzo/planzo-api/internal/project/repository"
	taskModel "github.com/planzo/planzo-api/internal/task/model"
	"github.com/planzo/planzo-api/internal/task/repository"
	teamModel "github.com/planzo/planzo-api/internal/team/model"
	teamRepository "github.com/planzo/planzo-api/internal/team/repository"
	"github.com/planzo/planzo-api/internal/testutil"
	userModel "github.com/planzo/planzo-api/internal/user/model"
)

type fixture struct {
	db       *gorm.DB
	svc      *service
	recorder *testutil.Recorder

	owner       *userModel.User
	manager     *userModel.User
	contributor *userModel.User
	teamMember  *userModel.User
	outsider    *userModel.User
	projectID   string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	logger := testutil.Logger()
	recorder := &testutil.Recorder{}
	svc := New(
		repository.New(db, logger),
		projectRepository.New(db, logger),
		teamRepository.New(db, logger),
		recorder,
		db,
		logger,
	).(*service)

	f := &fixture{
		db:          db,
		svc:         svc,
		recorder:    recorder,
		owner:       testutil.CreateUser(t, db, "owner"),
		manager:     testutil.CreateUser(t, db, "manager"),
		contributor: testutil.CreateUser(t, db, "contributor"),
		teamMember:  testutil.CreateUser(t, db, "teammate"),
		outsider:    testutil.CreateUser(t, db, "outsider"),
	}

	now := time.Now()
	project := &projectModel.Project{Name: "Apollo", CreatorID: f.owner.ID}
	require.NoError(t, db.Create(project).Error)
	f.projectID = project.ID
	for _, m := range []projectModel.Member{
		{ProjectID: project.ID, UserID: f.owner.ID, Role: access.RoleOwner, JoinedAt: now},
		{ProjectID: project.ID, UserID: f.manager.ID, Role: access.RoleManager, JoinedAt: now},
		{ProjectID: project.ID, UserID: f.contributor.ID, Role: access.RoleContributor, JoinedAt: now},
	} {
		m := m
		require.NoError(t, db.Create(&m).Error)
	}

	team := &teamModel.Team{Name: "Platform"}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&teamModel.Member{
		TeamID: team.ID, UserID: f.teamMember.ID, Role: access.RoleOwner, JoinedAt: now,
	}).Error)
	require.NoError(t, db.Create(&projectModel.ProjectTeam{
		ProjectID: project.ID, TeamID: team.ID, AttachedAt: now,
	}).Error)

	return f
}

func date(y int, m time.Month, d int) *taskModel.Date {
	return taskModel.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (f *fixture) createTask(t *testing.T, actor, assignee *userModel.User) *taskModel.TaskResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), actor.ID, f.projectID, &taskModel.CreateTaskRequest{
		Title:      "T",
		AssigneeID: assignee.ID,
		DueDate:    date(2024, 1, 1),
	})
	require.NoError(t, err)
	return resp
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		f := setup(t)
		resp := f.createTask(t, f.contributor, f.contributor)

		assert.Equal(t, taskModel.StatusAssigned, resp.KanbanColumn)
		assert.Equal(t, "To Do", resp.Status)
		assert.Equal(t, taskModel.PriorityMedium, resp.Priority)
		assert.Nil(t, resp.CompletedAt)
		assert.Equal(t, f.contributor.ID, resp.CreatorID)
		assert.Equal(t, []activityModel.Action{activityModel.ActionCreated}, f.recorder.Actions())
	})

	t.Run("assignee from attached team", func(t *testing.T) {
		f := setup(t)
		resp := f.createTask(t, f.owner, f.teamMember)
		assert.Equal(t, f.teamMember.ID, resp.AssigneeID)
	})

	t.Run("created as completed is stamped", func(t *testing.T) {
		f := setup(t)
		resp, err := f.svc.Create(ctx, f.owner.ID, f.projectID, &taskModel.CreateTaskRequest{
			Title: "Done already", AssigneeID: f.owner.ID, DueDate: date(2024, 1, 1), Status: "Done",
		})
		require.NoError(t, err)
		assert.Equal(t, taskModel.StatusCompleted, resp.KanbanColumn)
		assert.NotNil(t, resp.CompletedAt)
	})

	tests := []struct {
		name    string
		actor   func(f *fixture) string
		req     func(f *fixture) *taskModel.CreateTaskRequest
		wantErr error
	}{
		{
			name:  "missing title",
			actor: func(f *fixture) string { return f.owner.ID },
			req: func(f *fixture) *taskModel.CreateTaskRequest {
				return &taskModel.CreateTaskRequest{AssigneeID: f.owner.ID, DueDate: date(2024, 1, 1)}
			},
			wantErr: taskModel.ErrTitleRequired,
		},
		{
			name:  "missing due date",
			actor: func(f *fixture) string { return f.owner.ID },
			req: func(f *fixture) *taskModel.CreateTaskRequest {
				return &taskModel.CreateTaskRequest{Title: "T", AssigneeID: f.owner.ID}
			},
			wantErr: taskModel.ErrDueDateRequired,
		},
		{
			name:  "unknown priority",
			actor: func(f *fixture) string { return f.owner.ID },
			req: func(f *fixture) *taskModel.CreateTaskRequest {
				return &taskModel.CreateTaskRequest{
					Title: "T", AssigneeID: f.owner.ID, DueDate: date(2024, 1, 1), Priority: "Urgent",
				}
			},
			wantErr: taskModel.ErrInvalidPriority,
		},
		{
			name:  "start after due",
			actor: func(f *fixture) string { return f.owner.ID },
			req: func(f *fixture) *taskModel.CreateTaskRequest {
				return &taskModel.CreateTaskRequest{
					Title: "T", AssigneeID: f.owner.ID, DueDate: date(2024, 1, 1), StartDate: date(2024, 2, 1),
				}
			},
			wantErr: taskModel.ErrInvalidDateRange,
		},
		{
			name:  "non member actor",
			actor: func(f *fixture) string { return f.outsider.ID },
			req: func(f *fixture) *taskModel.CreateTaskRequest {
				return &taskModel.CreateTaskRequest{Title: "T", AssigneeID: f.owner.ID, DueDate: date(2024, 1, 1)}
			},
			wantErr: access.ErrForbidden,
		},
		{
			name:  "assignee outside project and teams",
			actor: func(f *fixture) string { return f.owner.ID },
			req: func(f *fixture) *taskModel.CreateTaskRequest {
				return &taskModel.CreateTaskRequest{Title: "T", AssigneeID: f.outsider.ID, DueDate: date(2024, 1, 1)}
			},
			wantErr: taskModel.ErrInvalidAssignee,
		},
		{
			name:  "missing assignee",
			actor: func(f *fixture) string { return f.owner.ID },
			req: func(f *fixture) *taskModel.CreateTaskRequest {
				return &taskModel.CreateTaskRequest{Title: "T", DueDate: date(2024, 1, 1)}
			},
			wantErr: taskModel.ErrInvalidAssignee,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			_, err := f.svc.Create(ctx, tt.actor(f), f.projectID, tt.req(f))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.recorder.Actions())
		})
	}

	t.Run("unknown project", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, f.owner.ID, "missing", &taskModel.CreateTaskRequest{
			Title: "T", AssigneeID: f.owner.ID, DueDate: date(2024, 1, 1),
		})
		assert.ErrorIs(t, err, projectModel.ErrProjectNotFound)
	})
}

func TestService_MoveLifecycle(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	stamp := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return stamp }

	task := f.createTask(t, f.owner, f.contributor)
	assert.Equal(t, "To Do", task.Status)

	done, err := f.svc.Move(ctx, f.contributor.ID, task.ID, "Completed")
	require.NoError(t, err)
	assert.Equal(t, taskModel.StatusCompleted, done.KanbanColumn)
	assert.Equal(t, "Done", done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(stamp))

	f.svc.now = func() time.Time { return stamp.Add(time.Hour) }
	again, err := f.svc.Move(ctx, f.contributor.ID, task.ID, "Done")
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, again.CompletedAt.Equal(stamp))

	back, err := f.svc.Move(ctx, f.contributor.ID, task.ID, "In Progress")
	require.NoError(t, err)
	assert.Equal(t, taskModel.StatusOngoing, back.KanbanColumn)
	assert.Equal(t, "In Progress", back.Status)
	assert.Nil(t, back.CompletedAt)

	stored, err := f.svc.Get(ctx, f.owner.ID, f.projectID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CompletedAt)
	assert.Equal(t, taskModel.StatusOngoing, stored.KanbanColumn)

	assert.Equal(t, []activityModel.Action{
		activityModel.ActionCreated,
		activityModel.ActionCompleted,
		activityModel.ActionCompleted,
		activityModel.ActionUpdated,
	}, f.recorder.Actions())
}

func TestService_MovePermissions(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	task := f.createTask(t, f.owner, f.owner)

	_, err := f.svc.Move(ctx, f.contributor.ID, task.ID, "Ongoing")
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = f.svc.Move(ctx, f.outsider.ID, task.ID, "Ongoing")
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = f.svc.Move(ctx, f.manager.ID, task.ID, "Ongoing")
	assert.NoError(t, err)

	_, err = f.svc.Move(ctx, f.owner.ID, task.ID, "Blocked")
	assert.ErrorIs(t, err, taskModel.ErrInvalidStatus)

	_, err = f.svc.Move(ctx, f.owner.ID, "missing", "Ongoing")
	assert.ErrorIs(t, err, taskModel.ErrTaskNotFound)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("assignee edits and completes", func(t *testing.T) {
		f := setup(t)
		task := f.createTask(t, f.owner, f.contributor)

		title := "Renamed"
		status := "Completed"
		resp, err := f.svc.Update(ctx, f.contributor.ID, f.projectID, task.ID, &taskModel.UpdateTaskRequest{
			Title: &title, Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Title)
		assert.NotNil(t, resp.CompletedAt)
		assert.Equal(t, activityModel.ActionCompleted, f.recorder.Actions()[1])
	})

	t.Run("reassign revalidates", func(t *testing.T) {
		f := setup(t)
		task := f.createTask(t, f.owner, f.contributor)

		outsider := f.outsider.ID
		_, err := f.svc.Update(ctx, f.owner.ID, f.projectID, task.ID, &taskModel.UpdateTaskRequest{AssigneeID: &outsider})
		assert.ErrorIs(t, err, taskModel.ErrInvalidAssignee)

		teammate := f.teamMember.ID
		resp, err := f.svc.Update(ctx, f.owner.ID, f.projectID, task.ID, &taskModel.UpdateTaskRequest{AssigneeID: &teammate})
		require.NoError(t, err)
		assert.Equal(t, teammate, resp.AssigneeID)
	})

	t.Run("unrelated contributor denied", func(t *testing.T) {
		f := setup(t)
		task := f.createTask(t, f.owner, f.owner)

		title := "Nope"
		_, err := f.svc.Update(ctx, f.contributor.ID, f.projectID, task.ID, &taskModel.UpdateTaskRequest{Title: &title})
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("task of another project", func(t *testing.T) {
		f := setup(t)
		task := f.createTask(t, f.owner, f.owner)

		other := &projectModel.Project{Name: "Other", CreatorID: f.owner.ID}
		require.NoError(t, f.db.Create(other).Error)
		require.NoError(t, f.db.Create(&projectModel.Member{
			ProjectID: other.ID, UserID: f.owner.ID, Role: access.RoleOwner, JoinedAt: time.Now(),
		}).Error)

		title := "x"
		_, err := f.svc.Update(ctx, f.owner.ID, other.ID, task.ID, &taskModel.UpdateTaskRequest{Title: &title})
		assert.ErrorIs(t, err, taskModel.ErrTaskNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	task := f.createTask(t, f.contributor, f.contributor)

	err := f.svc.Delete(ctx, f.contributor.ID, f.projectID, task.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)

	require.NoError(t, f.svc.Delete(ctx, f.manager.ID, f.projectID, task.ID))

	_, err = f.svc.Get(ctx, f.owner.ID, f.projectID, task.ID)
	assert.ErrorIs(t, err, taskModel.ErrTaskNotFound)
}

func TestService_ListBoardCalendar(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	due := []*taskModel.Date{date(2024, 1, 10), date(2024, 1, 5), date(2024, 2, 1)}
	ids := make([]string, 0, len(due))
	for _, d := range due {
		resp, err := f.svc.Create(ctx, f.owner.ID, f.projectID, &taskModel.CreateTaskRequest{
			Title: "T", AssigneeID: f.owner.ID, DueDate: d,
		})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}
	_, err := f.svc.Move(ctx, f.owner.ID, ids[0], "Ongoing")
	require.NoError(t, err)
	_, err = f.svc.Move(ctx, f.owner.ID, ids[2], "Completed")
	require.NoError(t, err)

	t.Run("list with status filter", func(t *testing.T) {
		tasks, err := f.svc.List(ctx, f.contributor.ID, f.projectID, taskModel.ListFilter{Status: taskModel.StatusOngoing})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, ids[0], tasks[0].ID)
	})

	t.Run("list denied to outsider", func(t *testing.T) {
		_, err := f.svc.List(ctx, f.outsider.ID, f.projectID, taskModel.ListFilter{})
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("board", func(t *testing.T) {
		board, err := f.svc.Board(ctx, f.contributor.ID, f.projectID)
		require.NoError(t, err)
		require.Len(t, board.Columns, 3)
		assert.Equal(t, taskModel.StatusAssigned, board.Columns[0].Column)
		assert.Equal(t, "To Do", board.Columns[0].Label)
		assert.Len(t, board.Columns[0].Tasks, 1)
		assert.Len(t, board.Columns[1].Tasks, 1)
		assert.Len(t, board.Columns[2].Tasks, 1)
		for _, col := range board.Columns {
			for _, task := range col.Tasks {
				assert.Equal(t, col.Column, task.KanbanColumn)
			}
		}
	})

	t.Run("calendar", func(t *testing.T) {
		tasks, err := f.svc.Calendar(ctx, f.owner.ID, f.projectID, date(2024, 1, 1).Time, date(2024, 1, 31).Time)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, ids[1], tasks[0].ID)
		assert.Equal(t, ids[0], tasks[1].ID)

		_, err = f.svc.Calendar(ctx, f.owner.ID, f.projectID, date(2024, 2, 1).Time, date(2024, 1, 1).Time)
		assert.ErrorIs(t, err, taskModel.ErrInvalidDateRange)
	})
}
