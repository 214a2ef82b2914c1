// Package service provides business logic layer for project reports.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/access"
	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	"github.com/planzo/planzo-api/internal/mail"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
	reportModel "github.com/planzo/planzo-api/internal/report/model"
	"github.com/planzo/planzo-api/internal/report/repository"
	"github.com/planzo/planzo-api/pkg/validation"
)

// ProjectReader resolves projects and their members.
type ProjectReader interface {
	GetByID(ctx context.Context, projectID string) (*projectModel.Project, error)
	GetMembers(ctx context.Context, projectID string) ([]access.Member, error)
	ListMemberViews(ctx context.Context, projectID string) ([]projectModel.MemberView, error)
}

// ActivityReader reads a project's activity log.
type ActivityReader interface {
	ListByEntityType(
		ctx context.Context,
		projectID string,
		entityType activityModel.EntityType,
	) ([]activityModel.LogView, error)
}

// Service defines the interface for report business logic operations.
type Service interface {
	// Generate computes and stores a report. Project members only.
	Generate(ctx context.Context, actorID, projectID string, req *reportModel.GenerateRequest) (*reportModel.ReportResponse, error)

	// List returns the project's reports. Project members only.
	List(ctx context.Context, actorID, projectID string) ([]reportModel.ReportResponse, error)

	// Get returns one report. Project members only.
	Get(ctx context.Context, actorID, reportID string) (*reportModel.ReportResponse, error)

	// Delete removes a report. Owner or Manager only.
	Delete(ctx context.Context, actorID, reportID string) error

	// EmailSummary mails a burn down summary. Owner or Manager only.
	EmailSummary(
		ctx context.Context,
		actorID, projectID string,
		req *reportModel.EmailSummaryRequest,
	) (*reportModel.EmailSummaryResponse, error)
}

type service struct {
	repo     repository.Repository
	projects ProjectReader
	activity ActivityReader
	mailer   mail.Sender
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// New creates a new report service instance.
func New(
	repo repository.Repository,
	projects ProjectReader,
	activity ActivityReader,
	mailer mail.Sender,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:     repo,
		projects: projects,
		activity: activity,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate computes the aggregation for req.Type and stores it.
func (s *service) Generate(
	ctx context.Context,
	actorID, projectID string,
	req *reportModel.GenerateRequest,
) (*reportModel.ReportResponse, error) {
	reportType, err := reportModel.ParseType(req.Type)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorize(ctx, projectID, actorID, access.RequireMember); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTaskRows(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var data interface{}
	switch reportType {
	case reportModel.TypeBurnDown:
		data = burnDown(projectID, tasks, now)
	case reportModel.TypeTaskProgress:
		data = taskProgress(projectID, tasks, now)
	case reportModel.TypeTeamPerformance:
		data = teamPerformance(projectID, tasks, now)
	case reportModel.TypeTimeTracking:
		logs, err := s.activity.ListByEntityType(ctx, projectID, activityModel.EntityTask)
		if err != nil {
			return nil, err
		}
		data = timeTracking(projectID, tasks, logs, now)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s report: %w", reportType, err)
	}

	report := &reportModel.Report{
		ProjectID:   projectID,
		Type:        reportType,
		GeneratedAt: now,
		CreatedBy:   actorID,
		Data:        string(raw),
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Infow("Report generated",
		"report_id", report.ID,
		"project_id", projectID,
		"type", reportType,
	)

	resp := reportModel.NewReportResponse(report)
	return &resp, nil
}

// List returns the project's reports.
func (s *service) List(ctx context.Context, actorID, projectID string) ([]reportModel.ReportResponse, error) {
	if _, err := s.authorize(ctx, projectID, actorID, access.RequireMember); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

// Get returns one report.
func (s *service) Get(ctx context.Context, actorID, reportID string) (*reportModel.ReportResponse, error) {
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorize(ctx, report.ProjectID, actorID, access.RequireMember); err != nil {
		return nil, err
	}

	resp := reportModel.NewReportResponse(report)
	return &resp, nil
}

// Delete removes a report.
func (s *service) Delete(ctx context.Context, actorID, reportID string) error {
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return err
	}

	if _, err := s.authorize(ctx, report.ProjectID, actorID, access.RequireOwnerOrManager); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, reportID); err != nil {
		return err
	}

	s.logger.Infow("Report deleted", "report_id", reportID, "project_id", report.ProjectID)
	return nil
}

// EmailSummary mails a burn down summary to req.Recipients, or to every
// project member when none are given.
func (s *service) EmailSummary(
	ctx context.Context,
	actorID, projectID string,
	req *reportModel.EmailSummaryRequest,
) (*reportModel.EmailSummaryResponse, error) {
	project, err := s.authorize(ctx, projectID, actorID, access.RequireOwnerOrManager)
	if err != nil {
		return nil, err
	}

	recipients := make([]string, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	if err := validation.Var("recipients", recipients, "dive,email"); err != nil {
		return nil, err
	}

	if len(recipients) == 0 {
		views, err := s.projects.ListMemberViews(ctx, projectID)
		if err != nil {
			return nil, err
		}
		for _, v := range views {
			if v.Email != "" {
				recipients = append(recipients, v.Email)
			}
		}
	}
	if len(recipients) == 0 {
		return nil, reportModel.ErrNoRecipients
	}

	tasks, err := s.repo.ListTaskRows(ctx, projectID)
	if err != nil {
		return nil, err
	}
	summary := burnDown(projectID, tasks, s.now())

	err = s.mailer.Send(ctx, mail.Message{
		To:       recipients,
		Subject:  fmt.Sprintf("%s: progress summary", project.Name),
		Template: mail.TemplateSummary,
		Data: mail.SummaryData{
			ProjectName:          project.Name,
			TotalTasks:           summary.TotalTasks,
			CompletedTasks:       summary.CompletedTasks,
			InProgressTasks:      summary.InProgressTasks,
			TodoTasks:            summary.TodoTasks,
			CompletionPercentage: summary.CompletionPercentage,
			GeneratedAt:          summary.Timestamp,
		},
	})
	if err != nil {
		return nil, err
	}

	return &reportModel.EmailSummaryResponse{
		Recipients: recipients,
		Message:    "summary sent",
	}, nil
}

// authorize loads the project and applies check to the actor.
func (s *service) authorize(
	ctx context.Context,
	projectID, actorID string,
	check func([]access.Member, string) error,
) (*projectModel.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	members, err := s.projects.GetMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := check(members, actorID); err != nil {
		return nil, err
	}

	return project, nil
}
