// Package repository provides data access layer for task module.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	taskModel "github.com/planzo/planzo-api/internal/task/model"
)

// Repository defines the interface for task data access operations.
type Repository interface {
	// Create inserts a new task.
	Create(ctx context.Context, task *taskModel.Task) error

	// GetByID finds task by id.
	GetByID(ctx context.Context, taskID string) (*taskModel.Task, error)

	// Save writes every mutable field of task.
	Save(ctx context.Context, task *taskModel.Task) error

	// Delete removes a task.
	Delete(ctx context.Context, taskID string) error

	// ListByProject returns the project's tasks matching filter, newest first.
	ListByProject(ctx context.Context, projectID string, filter taskModel.ListFilter) ([]taskModel.Task, error)

	// ListDueBetween returns open tasks due in [from, to) with assignee contacts.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]taskModel.DueTask, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new task repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new task.
func (r *repository) Create(ctx context.Context, task *taskModel.Task) error {
	r.logger.Debugw("Create called", "project_id", task.ProjectID, "title", task.Title)

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.logger.Errorw("Create database error", "project_id", task.ProjectID, "error", err)
		return err
	}

	return nil
}

// GetByID finds task by id.
func (r *repository) GetByID(ctx context.Context, taskID string) (*taskModel.Task, error) {
	r.logger.Debugw("GetByID called", "task_id", taskID)

	var task taskModel.Task
	err := r.db.WithContext(ctx).
		Where("id = ?", taskID).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskModel.ErrTaskNotFound
		}
		r.logger.Errorw("GetByID database error", "task_id", taskID, "error", err)
		return nil, err
	}

	return &task, nil
}

// Save writes every mutable field of task, including cleared ones.
func (r *repository) Save(ctx context.Context, task *taskModel.Task) error {
	r.logger.Debugw("Save called", "task_id", task.ID, "status", task.Status)

	result := r.db.WithContext(ctx).
		Model(task).
		Select("title", "description", "assignee_id", "due_date", "start_date",
			"priority", "status", "completed_at", "updated_at").
		Updates(task)

	if result.Error != nil {
		r.logger.Errorw("Save database error", "task_id", task.ID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return taskModel.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task.
func (r *repository) Delete(ctx context.Context, taskID string) error {
	r.logger.Debugw("Delete called", "task_id", taskID)

	result := r.db.WithContext(ctx).
		Where("id = ?", taskID).
		Delete(&taskModel.Task{})

	if result.Error != nil {
		r.logger.Errorw("Delete database error", "task_id", taskID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return taskModel.ErrTaskNotFound
	}

	return nil
}

// ListByProject returns the project's tasks matching filter, newest first.
func (r *repository) ListByProject(
	ctx context.Context,
	projectID string,
	filter taskModel.ListFilter,
) ([]taskModel.Task, error) {
	r.logger.Debugw("ListByProject called", "project_id", projectID)

	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssigneeID != "" {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}

	tasks := []taskModel.Task{}
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		r.logger.Errorw("ListByProject database error", "project_id", projectID, "error", err)
		return nil, err
	}

	return tasks, nil
}

// ListDueBetween returns open tasks due in [from, to) with assignee contacts.
func (r *repository) ListDueBetween(ctx context.Context, from, to time.Time) ([]taskModel.DueTask, error) {
	r.logger.Debugw("ListDueBetween called", "from", from, "to", to)

	var due []taskModel.DueTask

	err := r.db.WithContext(ctx).
		Table("tasks").
		Select("tasks.id AS task_id, tasks.title, tasks.project_id, projects.name AS project_name, "+
			"tasks.due_date, tasks.assignee_id, users.name AS assignee_name, users.email AS assignee_email").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Joins("JOIN users ON users.id = tasks.assignee_id").
		Where("tasks.status <> ?", taskModel.StatusCompleted).
		Where("tasks.due_date >= ? AND tasks.due_date < ?", from, to).
		Order("tasks.due_date ASC").
		Scan(&due).Error

	if err != nil {
		r.logger.Errorw("ListDueBetween database error", "error", err)
		return nil, err
	}

	return due, nil
}
