// Package repository provides data access layer for the activity log.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	activityModel "github.com/planzo/planzo-api/internal/activity/model"
)

// Repository defines the interface for activity log data access operations.
type Repository interface {
	// Create appends an entry.
	Create(ctx context.Context, log *activityModel.ActivityLog) error

	// ListByProject returns a page of a project's entries, newest first, and the total count.
	ListByProject(ctx context.Context, projectID string, offset, limit int) ([]activityModel.LogView, int64, error)

	// ListByUser returns a page of a user's entries, newest first, and the total count.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]activityModel.LogView, int64, error)

	// ListByEntity returns a page of the entries about one entity, newest first, and the total count.
	ListByEntity(
		ctx context.Context,
		entityType activityModel.EntityType,
		entityID string,
		offset, limit int,
	) ([]activityModel.LogView, int64, error)

	// ProjectOf returns the project the newest project-scoped entry about an
	// entity belongs to, or "" when there is none.
	ProjectOf(ctx context.Context, entityType activityModel.EntityType, entityID string) (string, error)

	// Filter returns up to limit entries matching filter, newest first.
	Filter(ctx context.Context, filter activityModel.Filter, limit int) ([]activityModel.LogView, error)

	// ListByEntityType returns every entry of a project about one entity type, oldest first.
	ListByEntityType(
		ctx context.Context,
		projectID string,
		entityType activityModel.EntityType,
	) ([]activityModel.LogView, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new activity repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

type logRow struct {
	ID         string
	UserID     string
	UserName   string
	EntityType activityModel.EntityType
	EntityID   string
	Action     activityModel.Action
	Details    string
	ProjectID  *string
	CreatedAt  time.Time
}

func toViews(rows []logRow) []activityModel.LogView {
	views := make([]activityModel.LogView, 0, len(rows))
	for _, row := range rows {
		view := activityModel.LogView{
			ID:         row.ID,
			UserID:     row.UserID,
			UserName:   row.UserName,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			Action:     row.Action,
			ProjectID:  row.ProjectID,
			CreatedAt:  row.CreatedAt,
		}
		if row.Details != "" && json.Valid([]byte(row.Details)) {
			view.Details = json.RawMessage(row.Details)
		}
		views = append(views, view)
	}
	return views
}

const viewColumns = "activity_logs.id, activity_logs.user_id, users.name AS user_name, " +
	"activity_logs.entity_type, activity_logs.entity_id, activity_logs.action, " +
	"activity_logs.details, activity_logs.project_id, activity_logs.created_at"

// Create appends an entry.
func (r *repository) Create(ctx context.Context, log *activityModel.ActivityLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		r.logger.Errorw("Create database error", "entity_id", log.EntityID, "error", err)
		return err
	}
	return nil
}

// ListByProject returns a page of a project's entries.
func (r *repository) ListByProject(
	ctx context.Context,
	projectID string,
	offset, limit int,
) ([]activityModel.LogView, int64, error) {
	return r.page(ctx, offset, limit, "activity_logs.project_id = ?", projectID)
}

// ListByUser returns a page of a user's entries.
func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	offset, limit int,
) ([]activityModel.LogView, int64, error) {
	return r.page(ctx, offset, limit, "activity_logs.user_id = ?", userID)
}

// ListByEntity returns a page of the entries about one entity.
func (r *repository) ListByEntity(
	ctx context.Context,
	entityType activityModel.EntityType,
	entityID string,
	offset, limit int,
) ([]activityModel.LogView, int64, error) {
	return r.page(ctx, offset, limit,
		"activity_logs.entity_type = ? AND activity_logs.entity_id = ?", entityType, entityID)
}

// ProjectOf returns the project of the newest project-scoped entry about an entity.
func (r *repository) ProjectOf(
	ctx context.Context,
	entityType activityModel.EntityType,
	entityID string,
) (string, error) {
	r.logger.Debugw("ProjectOf called", "entity_type", entityType, "entity_id", entityID)

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&activityModel.ActivityLog{}).
		Where("entity_type = ? AND entity_id = ? AND project_id IS NOT NULL", entityType, entityID).
		Order("created_at DESC").
		Limit(1).
		Pluck("project_id", &ids).Error

	if err != nil {
		r.logger.Errorw("ProjectOf database error", "entity_id", entityID, "error", err)
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// Filter returns up to limit entries matching filter, newest first.
func (r *repository) Filter(
	ctx context.Context,
	filter activityModel.Filter,
	limit int,
) ([]activityModel.LogView, error) {
	r.logger.Debugw("Filter called", "filter", filter, "limit", limit)

	query := r.db.WithContext(ctx).
		Table("activity_logs").
		Select(viewColumns).
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id")

	if filter.ProjectID != "" {
		query = query.Where("activity_logs.project_id = ?", filter.ProjectID)
	}
	if filter.UserID != "" {
		query = query.Where("activity_logs.user_id = ?", filter.UserID)
	}
	if filter.EntityType != "" {
		query = query.Where("activity_logs.entity_type = ?", filter.EntityType)
	}
	if filter.Action != "" {
		query = query.Where("activity_logs.action = ?", filter.Action)
	}
	if filter.From != nil {
		query = query.Where("activity_logs.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("activity_logs.created_at <= ?", *filter.To)
	}

	var rows []logRow
	err := query.
		Order("activity_logs.created_at DESC").
		Limit(limit).
		Scan(&rows).Error

	if err != nil {
		r.logger.Errorw("Filter database error", "error", err)
		return nil, err
	}

	return toViews(rows), nil
}

// ListByEntityType returns every entry of a project about one entity type, oldest first.
func (r *repository) ListByEntityType(
	ctx context.Context,
	projectID string,
	entityType activityModel.EntityType,
) ([]activityModel.LogView, error) {
	r.logger.Debugw("ListByEntityType called", "project_id", projectID, "entity_type", entityType)

	var rows []logRow
	err := r.db.WithContext(ctx).
		Table("activity_logs").
		Select(viewColumns).
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id").
		Where("activity_logs.project_id = ? AND activity_logs.entity_type = ?", projectID, entityType).
		Order("activity_logs.created_at ASC").
		Scan(&rows).Error

	if err != nil {
		r.logger.Errorw("ListByEntityType database error", "project_id", projectID, "error", err)
		return nil, err
	}

	return toViews(rows), nil
}

func (r *repository) page(
	ctx context.Context,
	offset, limit int,
	where string,
	args ...interface{},
) ([]activityModel.LogView, int64, error) {
	r.logger.Debugw("page called", "filter", where, "offset", offset, "limit", limit)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&activityModel.ActivityLog{}).
		Where(where, args...).
		Count(&total).Error; err != nil {
		r.logger.Errorw("page count error", "filter", where, "error", err)
		return nil, 0, err
	}

	var rows []logRow
	err := r.db.WithContext(ctx).
		Table("activity_logs").
		Select(viewColumns).
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id").
		Where(where, args...).
		Order("activity_logs.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error

	if err != nil {
		r.logger.Errorw("page database error", "filter", where, "error", err)
		return nil, 0, err
	}

	return toViews(rows), total, nil
}
