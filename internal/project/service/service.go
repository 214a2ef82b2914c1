// Package service provides business logic layer for project module.
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/access"
	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
	"github.com/planzo/planzo-api/internal/project/repository"
	teamModel "github.com/planzo/planzo-api/internal/team/model"
	userModel "github.com/planzo/planzo-api/internal/user/model"
)

// UserFinder resolves users by id.
type UserFinder interface {
	GetByID(ctx context.Context, userID string) (*userModel.User, error)
}

// TeamFinder resolves teams by id.
type TeamFinder interface {
	GetByID(ctx context.Context, teamID string) (*teamModel.Team, error)
}

// ActivityRecorder appends entries to the activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, entry activityModel.Entry)
}

// Service defines the interface for project business logic operations.
type Service interface {
	// Create creates a project owned by the actor.
	Create(ctx context.Context, actorID string, req *projectModel.CreateProjectRequest) (*projectModel.ProjectResponse, error)

	// List returns the projects the actor belongs to.
	List(ctx context.Context, actorID string) ([]projectModel.ProjectSummary, error)

	// Get returns a populated project. Only members may read it.
	Get(ctx context.Context, actorID, projectID string) (*projectModel.ProjectResponse, error)

	// Update changes name and description. Owner only.
	Update(
		ctx context.Context,
		actorID, projectID string,
		req *projectModel.UpdateProjectRequest,
	) (*projectModel.ProjectResponse, error)

	// Delete removes the project and everything attached to it. Owner only.
	Delete(ctx context.Context, actorID, projectID string) error

	// AddMember adds an existing user. Owner only.
	AddMember(
		ctx context.Context,
		actorID, projectID string,
		req *projectModel.AddMemberRequest,
	) (*projectModel.ProjectResponse, error)

	// RemoveMember removes a member other than the Owner. Owner only.
	RemoveMember(ctx context.Context, actorID, projectID, memberID string) error

	// AddTeam attaches a team. Owner only.
	AddTeam(ctx context.Context, actorID, projectID, teamID string) (*projectModel.ProjectResponse, error)

	// RemoveTeam detaches a team. Owner only.
	RemoveTeam(ctx context.Context, actorID, projectID, teamID string) error
}

type service struct {
	repo     repository.Repository
	users    UserFinder
	teams    TeamFinder
	activity ActivityRecorder
	db       *gorm.DB
	logger   *zap.SugaredLogger
}

// New creates a new project service instance.
func New(
	repo repository.Repository,
	users UserFinder,
	teams TeamFinder,
	activity ActivityRecorder,
	db *gorm.DB,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:     repo,
		users:    users,
		teams:    teams,
		activity: activity,
		db:       db,
		logger:   logger,
	}
}

// Create creates a project with the actor inserted as Owner.
func (s *service) Create(
	ctx context.Context,
	actorID string,
	req *projectModel.CreateProjectRequest,
) (*projectModel.ProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, projectModel.ErrInvalidProjectName
	}

	var result *projectModel.ProjectResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		project := &projectModel.Project{
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			CreatorID:   actorID,
		}
		if err := txRepo.Create(ctx, project); err != nil {
			return err
		}

		owner := &projectModel.Member{
			ProjectID: project.ID,
			UserID:    actorID,
			Role:      access.RoleOwner,
			JoinedAt:  time.Now(),
		}
		if err := txRepo.AddMember(ctx, owner); err != nil {
			return err
		}

		var err error
		result, err = s.load(ctx, txRepo, project, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, result.ID, activityModel.ActionCreated, map[string]interface{}{"name": result.Name})
	return result, nil
}

// List returns the projects the actor belongs to.
func (s *service) List(ctx context.Context, actorID string) ([]projectModel.ProjectSummary, error) {
	return s.repo.ListForUser(ctx, actorID)
}

// Get returns a populated project.
func (s *service) Get(ctx context.Context, actorID, projectID string) (*projectModel.ProjectResponse, error) {
	project, members, err := s.authorize(ctx, s.repo, projectID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireMember(members, actorID); err != nil {
		return nil, err
	}

	return s.load(ctx, s.repo, project, actorID)
}

// Update changes name and description.
func (s *service) Update(
	ctx context.Context,
	actorID, projectID string,
	req *projectModel.UpdateProjectRequest,
) (*projectModel.ProjectResponse, error) {
	var result *projectModel.ProjectResponse
	changes := map[string]interface{}{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		project, members, err := s.authorize(ctx, txRepo, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(members, actorID); err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return projectModel.ErrInvalidProjectName
			}
			project.Name = name
			changes["name"] = name
		}
		if req.Description != nil {
			project.Description = strings.TrimSpace(*req.Description)
			changes["description"] = project.Description
		}

		if err := txRepo.Update(ctx, project, project.Version); err != nil {
			return err
		}

		result, err = s.load(ctx, txRepo, project, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, projectID, activityModel.ActionUpdated, changes)
	return result, nil
}

// Delete removes the project and everything attached to it.
func (s *service) Delete(ctx context.Context, actorID, projectID string) error {
	var name string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		project, members, err := s.authorize(ctx, txRepo, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(members, actorID); err != nil {
			return err
		}
		name = project.Name

		return txRepo.Delete(ctx, projectID)
	})
	if err != nil {
		return err
	}

	s.record(ctx, actorID, projectID, activityModel.ActionDeleted, map[string]interface{}{"name": name})
	return nil
}

// AddMember adds an existing user. The role defaults to Contributor.
func (s *service) AddMember(
	ctx context.Context,
	actorID, projectID string,
	req *projectModel.AddMemberRequest,
) (*projectModel.ProjectResponse, error) {
	role := access.RoleContributor
	if req.Role != "" {
		parsed, err := access.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		if !parsed.IsAssignable() {
			return nil, access.ErrInvalidRole
		}
		role = parsed
	}

	if err := s.requireOwner(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	var result *projectModel.ProjectResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		project, members, err := s.authorize(ctx, txRepo, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(members, actorID); err != nil {
			return err
		}
		if access.IsMember(members, req.UserID) {
			return projectModel.ErrAlreadyMember
		}

		member := &projectModel.Member{
			ProjectID: projectID,
			UserID:    req.UserID,
			Role:      role,
			JoinedAt:  time.Now(),
		}
		if err := txRepo.AddMember(ctx, member); err != nil {
			return err
		}
		if err := txRepo.BumpVersion(ctx, projectID, project.Version); err != nil {
			return err
		}
		project.Version++

		result, err = s.load(ctx, txRepo, project, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, projectID, activityModel.ActionAssigned,
		map[string]interface{}{"user_id": req.UserID, "role": string(role)})
	return result, nil
}

// RemoveMember removes a member other than the Owner.
func (s *service) RemoveMember(ctx context.Context, actorID, projectID, memberID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		project, members, err := s.authorize(ctx, txRepo, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(members, actorID); err != nil {
			return err
		}

		target, ok := access.Find(members, memberID)
		if !ok {
			return projectModel.ErrMemberNotFound
		}
		if target.Role == access.RoleOwner {
			return access.ErrForbidden
		}

		if err := txRepo.RemoveMember(ctx, projectID, memberID); err != nil {
			return err
		}
		return txRepo.BumpVersion(ctx, projectID, project.Version)
	})
	if err != nil {
		return err
	}

	s.record(ctx, actorID, projectID, activityModel.ActionUpdated,
		map[string]interface{}{"removed_member": memberID})
	return nil
}

// AddTeam attaches a team.
func (s *service) AddTeam(ctx context.Context, actorID, projectID, teamID string) (*projectModel.ProjectResponse, error) {
	if err := s.requireOwner(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}

	var result *projectModel.ProjectResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		project, members, err := s.authorize(ctx, txRepo, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(members, actorID); err != nil {
			return err
		}

		link := &projectModel.ProjectTeam{
			ProjectID:  projectID,
			TeamID:     teamID,
			AttachedAt: time.Now(),
		}
		if err := txRepo.AddTeam(ctx, link); err != nil {
			return err
		}
		if err := txRepo.BumpVersion(ctx, projectID, project.Version); err != nil {
			return err
		}
		project.Version++

		result, err = s.load(ctx, txRepo, project, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, projectID, activityModel.ActionUpdated, map[string]interface{}{"added_team": teamID})
	return result, nil
}

// RemoveTeam detaches a team.
func (s *service) RemoveTeam(ctx context.Context, actorID, projectID, teamID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		project, members, err := s.authorize(ctx, txRepo, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(members, actorID); err != nil {
			return err
		}

		if err := txRepo.RemoveTeam(ctx, projectID, teamID); err != nil {
			return err
		}
		return txRepo.BumpVersion(ctx, projectID, project.Version)
	})
	if err != nil {
		return err
	}

	s.record(ctx, actorID, projectID, activityModel.ActionUpdated, map[string]interface{}{"removed_team": teamID})
	return nil
}

// requireOwner checks ownership before any lookup of the collaborator being attached.
func (s *service) requireOwner(ctx context.Context, actorID, projectID string) error {
	_, members, err := s.authorize(ctx, s.repo, projectID)
	if err != nil {
		return err
	}
	return access.RequireOwner(members, actorID)
}

// authorize loads the project and its membership list.
func (s *service) authorize(
	ctx context.Context,
	repo repository.Repository,
	projectID string,
) (*projectModel.Project, []access.Member, error) {
	project, err := repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	members, err := repo.GetMembers(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return project, members, nil
}

// load builds the populated project response for the viewer.
func (s *service) load(
	ctx context.Context,
	repo repository.Repository,
	project *projectModel.Project,
	viewerID string,
) (*projectModel.ProjectResponse, error) {
	members, err := repo.ListMemberViews(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	teams, err := repo.ListTeamRefs(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	tasks, err := repo.ListTaskRefs(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	resp := &projectModel.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatorID:   project.CreatorID,
		Version:     project.Version,
		Members:     members,
		Teams:       teams,
		Tasks:       tasks,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	for _, m := range members {
		if m.UserID == viewerID {
			resp.ViewerRole = m.Role
			break
		}
	}

	return resp, nil
}

func (s *service) record(
	ctx context.Context,
	actorID, projectID string,
	action activityModel.Action,
	details map[string]interface{},
) {
	s.activity.Record(ctx, activityModel.Entry{
		UserID:     actorID,
		EntityType: activityModel.EntityProject,
		EntityID:   projectID,
		Action:     action,
		ProjectID:  projectID,
		Details:    details,
	})
}
