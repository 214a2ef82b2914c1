// Package service provides business logic layer for the activity log.
package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/access"
	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	"github.com/planzo/planzo-api/internal/activity/repository"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
)

// ProjectReader resolves projects and their members.
type ProjectReader interface {
	GetByID(ctx context.Context, projectID string) (*projectModel.Project, error)
	GetMembers(ctx context.Context, projectID string) ([]access.Member, error)
}

// TeamReader resolves team memberships.
type TeamReader interface {
	GetMembers(ctx context.Context, teamID string) ([]access.Member, error)
}

// Service defines the interface for activity log operations.
type Service interface {
	// Record appends an entry. Failures are logged and swallowed.
	Record(ctx context.Context, entry activityModel.Entry)

	// ListByProject returns a page of a project's log. Members only.
	ListByProject(ctx context.Context, actorID, projectID string, page, limit int) (*activityModel.ListResponse, error)

	// ListByUser returns a page of the actor's own log.
	ListByUser(ctx context.Context, actorID string, page, limit int) (*activityModel.ListResponse, error)

	// ListByEntity returns a page of the log of one entity. Task and Project
	// entries need project membership, Team entries team membership, and User
	// entries are visible only to that user.
	ListByEntity(
		ctx context.Context,
		actorID, entityType, entityID string,
		page, limit int,
	) (*activityModel.ListResponse, error)

	// Filter searches the log. A project filter needs membership; without one
	// only the actor's own entries are searched.
	Filter(ctx context.Context, actorID string, filter activityModel.Filter) ([]activityModel.LogView, error)
}

type service struct {
	repo     repository.Repository
	projects ProjectReader
	teams    TeamReader
	logger   *zap.SugaredLogger
}

// New creates a new activity service instance.
func New(repo repository.Repository, projects ProjectReader, teams TeamReader, logger *zap.SugaredLogger) Service {
	return &service{
		repo:     repo,
		projects: projects,
		teams:    teams,
		logger:   logger,
	}
}

// Record appends an entry to the log.
func (s *service) Record(ctx context.Context, entry activityModel.Entry) {
	details := "{}"
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			s.logger.Warnw("activity details not serializable",
				"entity_id", entry.EntityID,
				"error", err,
			)
		} else {
			details = string(raw)
		}
	}

	log := &activityModel.ActivityLog{
		UserID:     entry.UserID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		Details:    details,
	}
	if entry.ProjectID != "" {
		projectID := entry.ProjectID
		log.ProjectID = &projectID
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Errorw("failed to record activity",
			"user_id", entry.UserID,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"action", entry.Action,
			"error", err,
		)
		return
	}

	s.logger.Debugw("activity recorded",
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
		"action", entry.Action,
	)
}

// ListByProject returns a page of a project's log.
func (s *service) ListByProject(
	ctx context.Context,
	actorID, projectID string,
	page, limit int,
) (*activityModel.ListResponse, error) {
	if err := s.requireProjectMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	page, limit = normalize(page, limit)
	logs, total, err := s.repo.ListByProject(ctx, projectID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &activityModel.ListResponse{
		Logs:       logs,
		Pagination: activityModel.NewPagination(total, page, limit),
	}, nil
}

// ListByUser returns a page of the actor's own log.
func (s *service) ListByUser(ctx context.Context, actorID string, page, limit int) (*activityModel.ListResponse, error) {
	page, limit = normalize(page, limit)
	logs, total, err := s.repo.ListByUser(ctx, actorID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &activityModel.ListResponse{
		Logs:       logs,
		Pagination: activityModel.NewPagination(total, page, limit),
	}, nil
}

// ListByEntity returns a page of the log of one entity.
func (s *service) ListByEntity(
	ctx context.Context,
	actorID, entityType, entityID string,
	page, limit int,
) (*activityModel.ListResponse, error) {
	et, err := activityModel.ParseEntityType(entityType)
	if err != nil {
		return nil, err
	}

	switch et {
	case activityModel.EntityUser:
		if entityID != actorID {
			return nil, access.ErrForbidden
		}
	case activityModel.EntityTeam:
		members, err := s.teams.GetMembers(ctx, entityID)
		if err != nil {
			return nil, err
		}
		if err := access.RequireMember(members, actorID); err != nil {
			return nil, err
		}
	case activityModel.EntityProject:
		if err := s.requireProjectMember(ctx, actorID, entityID); err != nil {
			return nil, err
		}
	case activityModel.EntityTask:
		projectID, err := s.repo.ProjectOf(ctx, et, entityID)
		if err != nil {
			return nil, err
		}
		// A task with no project-scoped entries has no log to show.
		if projectID == "" {
			page, limit = normalize(page, limit)
			return &activityModel.ListResponse{
				Logs:       []activityModel.LogView{},
				Pagination: activityModel.NewPagination(0, page, limit),
			}, nil
		}
		if err := s.requireProjectMember(ctx, actorID, projectID); err != nil {
			return nil, err
		}
	}

	page, limit = normalize(page, limit)
	logs, total, err := s.repo.ListByEntity(ctx, et, entityID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &activityModel.ListResponse{
		Logs:       logs,
		Pagination: activityModel.NewPagination(total, page, limit),
	}, nil
}

// Filter searches the log.
func (s *service) Filter(
	ctx context.Context,
	actorID string,
	filter activityModel.Filter,
) ([]activityModel.LogView, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if filter.ProjectID != "" {
		if err := s.requireProjectMember(ctx, actorID, filter.ProjectID); err != nil {
			return nil, err
		}
	} else {
		filter.UserID = actorID
	}

	return s.repo.Filter(ctx, filter, activityModel.FilterLimit)
}

func (s *service) requireProjectMember(ctx context.Context, actorID, projectID string) error {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return err
	}
	members, err := s.projects.GetMembers(ctx, projectID)
	if err != nil {
		return err
	}
	return access.RequireMember(members, actorID)
}

func normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = activityModel.DefaultLimit
	}
	return page, limit
}
