// Package repository provides data access layer for project reports.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	reportModel "github.com/planzo/planzo-api/internal/report/model"
)

// Repository defines the interface for report data access operations.
type Repository interface {
	// Create persists a generated report.
	Create(ctx context.Context, report *reportModel.Report) error

	// GetByID finds report by id.
	GetByID(ctx context.Context, reportID string) (*reportModel.Report, error)

	// ListByProject returns the project's reports, newest first, with creator names.
	ListByProject(ctx context.Context, projectID string) ([]reportModel.ReportResponse, error)

	// Delete removes a report.
	Delete(ctx context.Context, reportID string) error

	// ListTaskRows returns every task of the project with assignee names, oldest first.
	ListTaskRows(ctx context.Context, projectID string) ([]reportModel.TaskRow, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new report repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create persists a generated report.
func (r *repository) Create(ctx context.Context, report *reportModel.Report) error {
	r.logger.Debugw("Create called", "project_id", report.ProjectID, "type", report.Type)

	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		r.logger.Errorw("Create database error", "project_id", report.ProjectID, "error", err)
		return err
	}
	return nil
}

// GetByID finds report by id.
func (r *repository) GetByID(ctx context.Context, reportID string) (*reportModel.Report, error) {
	r.logger.Debugw("GetByID called", "report_id", reportID)

	var report reportModel.Report
	err := r.db.WithContext(ctx).Where("id = ?", reportID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debugw("Report not found", "report_id", reportID)
			return nil, reportModel.ErrReportNotFound
		}
		r.logger.Errorw("GetByID database error", "report_id", reportID, "error", err)
		return nil, err
	}

	return &report, nil
}

type reportRow struct {
	ID            string
	ProjectID     string
	Type          reportModel.Type
	GeneratedAt   time.Time
	CreatedBy     string
	CreatedByName string
	Data          string
}

// ListByProject returns the project's reports, newest first.
func (r *repository) ListByProject(ctx context.Context, projectID string) ([]reportModel.ReportResponse, error) {
	r.logger.Debugw("ListByProject called", "project_id", projectID)

	var rows []reportRow
	err := r.db.WithContext(ctx).
		Table("reports").
		Select("reports.id, reports.project_id, reports.type, reports.generated_at, "+
			"reports.created_by, users.name AS created_by_name, reports.data").
		Joins("LEFT JOIN users ON users.id = reports.created_by").
		Where("reports.project_id = ?", projectID).
		Order("reports.generated_at DESC").
		Scan(&rows).Error

	if err != nil {
		r.logger.Errorw("ListByProject database error", "project_id", projectID, "error", err)
		return nil, err
	}

	reports := make([]reportModel.ReportResponse, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, reportModel.ReportResponse{
			ID:            row.ID,
			ProjectID:     row.ProjectID,
			Type:          row.Type,
			GeneratedAt:   row.GeneratedAt,
			CreatedBy:     row.CreatedBy,
			CreatedByName: row.CreatedByName,
			Data:          json.RawMessage(row.Data),
		})
	}

	return reports, nil
}

// Delete removes a report.
func (r *repository) Delete(ctx context.Context, reportID string) error {
	r.logger.Debugw("Delete called", "report_id", reportID)

	result := r.db.WithContext(ctx).Where("id = ?", reportID).Delete(&reportModel.Report{})
	if result.Error != nil {
		r.logger.Errorw("Delete database error", "report_id", reportID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return reportModel.ErrReportNotFound
	}

	return nil
}

// ListTaskRows returns every task of the project with assignee names.
func (r *repository) ListTaskRows(ctx context.Context, projectID string) ([]reportModel.TaskRow, error) {
	r.logger.Debugw("ListTaskRows called", "project_id", projectID)

	var rows []reportModel.TaskRow
	err := r.db.WithContext(ctx).
		Table("tasks").
		Select("tasks.id, tasks.title, tasks.description, tasks.assignee_id, users.name AS assignee_name, "+
			"tasks.status, tasks.priority, tasks.due_date, tasks.completed_at").
		Joins("LEFT JOIN users ON users.id = tasks.assignee_id").
		Where("tasks.project_id = ?", projectID).
		Order("tasks.created_at ASC").
		Scan(&rows).Error

	if err != nil {
		r.logger.Errorw("ListTaskRows database error", "project_id", projectID, "error", err)
		return nil, err
	}

	return rows, nil
}
