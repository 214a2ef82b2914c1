package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportModel "github.com/planzo/planzo-api/internal/report/model"
	taskModel "github.com/planzo/planzo-api/internal/task/model"
	"github.com/planzo/planzo-api/internal/testutil"
)

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := New(db, testutil.Logger())
	author := testutil.CreateUser(t, db, "author")

	report := &reportModel.Report{
		ProjectID:   "p1",
		Type:        reportModel.TypeBurnDown,
		GeneratedAt: time.Now(),
		CreatedBy:   author.ID,
		Data:        `{"total_tasks":0}`,
	}
	require.NoError(t, repo.Create(ctx, report))
	assert.NotEmpty(t, report.ID)

	got, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, reportModel.TypeBurnDown, got.Type)

	list, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "author", list[0].CreatedByName)
	assert.JSONEq(t, `{"total_tasks":0}`, string(list[0].Data))

	require.NoError(t, repo.Delete(ctx, report.ID))
	assert.ErrorIs(t, repo.Delete(ctx, report.ID), reportModel.ErrReportNotFound)

	_, err = repo.GetByID(ctx, report.ID)
	assert.ErrorIs(t, err, reportModel.ErrReportNotFound)
}

func TestRepository_ListTaskRows(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := New(db, testutil.Logger())
	assignee := testutil.CreateUser(t, db, "ada")

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	done := due.Add(-time.Hour)
	require.NoError(t, db.Create(&taskModel.Task{
		Title: "first", ProjectID: "p1", AssigneeID: assignee.ID, CreatorID: assignee.ID,
		DueDate: due, Status: taskModel.StatusCompleted, CompletedAt: &done, CreatedAt: due,
	}).Error)
	require.NoError(t, db.Create(&taskModel.Task{
		Title: "second", ProjectID: "p1", AssigneeID: "deleted-user", CreatorID: assignee.ID,
		DueDate: due, CreatedAt: due.Add(time.Minute),
	}).Error)
	require.NoError(t, db.Create(&taskModel.Task{
		Title: "elsewhere", ProjectID: "p2", AssigneeID: assignee.ID, CreatorID: assignee.ID, DueDate: due,
	}).Error)

	rows, err := repo.ListTaskRows(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "first", rows[0].Title)
	assert.Equal(t, "ada", rows[0].AssigneeName)
	assert.Equal(t, string(taskModel.StatusCompleted), rows[0].Status)
	require.NotNil(t, rows[0].CompletedAt)

	assert.Equal(t, "second", rows[1].Title)
	assert.Empty(t, rows[1].AssigneeName)
	assert.Nil(t, rows[1].CompletedAt)
}
