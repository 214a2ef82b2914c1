// Package service provides business logic layer for team module.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/access"
	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	teamModel "github.com/planzo/planzo-api/internal/team/model"
	"github.com/planzo/planzo-api/internal/team/repository"
	userModel "github.com/planzo/planzo-api/internal/user/model"
)

// UserFinder resolves users by email.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*userModel.User, error)
}

// ActivityRecorder appends entries to the activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, entry activityModel.Entry)
}

// Service defines the interface for team business logic operations.
type Service interface {
	// Create creates a team owned by the actor.
	Create(ctx context.Context, actorID string, req *teamModel.CreateTeamRequest) (*teamModel.TeamResponse, error)

	// Get returns a team as seen by the actor. Only members may read it.
	Get(ctx context.Context, actorID, teamID string) (*teamModel.TeamResponse, error)

	// ListJoined returns the teams the actor belongs to.
	ListJoined(ctx context.Context, actorID string) ([]teamModel.TeamSummary, error)

	// AddMember adds the user with the given email as a Contributor.
	AddMember(ctx context.Context, actorID, teamID, email string) (*teamModel.TeamResponse, error)

	// RemoveMember removes a member following the tiered removal rule.
	RemoveMember(ctx context.Context, actorID, teamID, targetID string) error

	// AssignRole changes the scoped role of a member.
	AssignRole(ctx context.Context, actorID, teamID, targetID, role string) (*teamModel.TeamResponse, error)
}

type service struct {
	repo     repository.Repository
	users    UserFinder
	activity ActivityRecorder
	db       *gorm.DB
	logger   *zap.SugaredLogger
}

// New creates a new team service instance.
func New(
	repo repository.Repository,
	users UserFinder,
	activity ActivityRecorder,
	db *gorm.DB,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:     repo,
		users:    users,
		activity: activity,
		db:       db,
		logger:   logger,
	}
}

// Create creates a team with the actor as its single Owner.
func (s *service) Create(
	ctx context.Context,
	actorID string,
	req *teamModel.CreateTeamRequest,
) (*teamModel.TeamResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, teamModel.ErrInvalidTeamName
	}

	var result *teamModel.TeamResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		team := &teamModel.Team{
			Name:        name,
			Description: strings.TrimSpace(req.Description),
		}
		if err := txRepo.Create(ctx, team); err != nil {
			return err
		}

		owner := &teamModel.Member{
			TeamID:   team.ID,
			UserID:   actorID,
			Role:     access.RoleOwner,
			JoinedAt: time.Now(),
		}
		if err := txRepo.AddMember(ctx, owner); err != nil {
			return err
		}

		var err error
		result, err = s.load(ctx, txRepo, team, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, result.ID, activityModel.ActionCreated, map[string]interface{}{"name": result.Name})

	return result, nil
}

// Get returns a team as seen by the actor.
func (s *service) Get(ctx context.Context, actorID, teamID string) (*teamModel.TeamResponse, error) {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.GetMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireMember(members, actorID); err != nil {
		return nil, err
	}

	return s.load(ctx, s.repo, team, actorID)
}

// ListJoined returns the teams the actor belongs to.
func (s *service) ListJoined(ctx context.Context, actorID string) ([]teamModel.TeamSummary, error) {
	return s.repo.ListJoined(ctx, actorID)
}

// AddMember adds the user with the given email as a Contributor.
func (s *service) AddMember(ctx context.Context, actorID, teamID, email string) (*teamModel.TeamResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, teamModel.ErrEmailRequired
	}

	// Users are resolved before the transaction opens.
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var result *teamModel.TeamResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		team, members, err := s.authorize(ctx, txRepo, teamID)
		if err != nil {
			return err
		}
		if err := access.RequireOwnerOrManager(members, actorID); err != nil {
			return err
		}
		if access.IsMember(members, user.ID) {
			return teamModel.ErrAlreadyMember
		}

		member := &teamModel.Member{
			TeamID:   team.ID,
			UserID:   user.ID,
			Role:     access.RoleContributor,
			JoinedAt: time.Now(),
		}
		if err := txRepo.AddMember(ctx, member); err != nil {
			return err
		}
		if err := txRepo.BumpVersion(ctx, team.ID, team.Version); err != nil {
			return err
		}
		team.Version++

		result, err = s.load(ctx, txRepo, team, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("team member added", "team_id", teamID, "user_id", user.ID, "actor_id", actorID)
	s.record(ctx, actorID, teamID, activityModel.ActionAssigned,
		map[string]interface{}{"user_id": user.ID, "role": string(access.RoleContributor)})
	return result, nil
}

// RemoveMember removes a member following the tiered removal rule.
func (s *service) RemoveMember(ctx context.Context, actorID, teamID, targetID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		team, members, err := s.authorize(ctx, txRepo, teamID)
		if err != nil {
			return err
		}
		if err := access.CheckRemoveTeamMember(members, actorID, targetID); err != nil {
			return err
		}

		if err := txRepo.RemoveMember(ctx, team.ID, targetID); err != nil {
			return err
		}
		return txRepo.BumpVersion(ctx, team.ID, team.Version)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("team member removed", "team_id", teamID, "user_id", targetID, "actor_id", actorID)
	s.record(ctx, actorID, teamID, activityModel.ActionUpdated, map[string]interface{}{"removed_member": targetID})
	return nil
}

// AssignRole changes the scoped role of a member.
func (s *service) AssignRole(
	ctx context.Context,
	actorID, teamID, targetID, role string,
) (*teamModel.TeamResponse, error) {
	newRole, err := access.ParseRole(role)
	if err != nil {
		return nil, err
	}

	var result *teamModel.TeamResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		team, members, err := s.authorize(ctx, txRepo, teamID)
		if err != nil {
			return err
		}
		if err := access.CheckAssignRole(members, actorID, targetID, newRole); err != nil {
			if errors.Is(err, access.ErrTargetNotMember) {
				return teamModel.ErrMemberNotFound
			}
			return err
		}

		if err := txRepo.UpdateRole(ctx, team.ID, targetID, newRole); err != nil {
			return err
		}
		if err := txRepo.BumpVersion(ctx, team.ID, team.Version); err != nil {
			return err
		}
		team.Version++

		result, err = s.load(ctx, txRepo, team, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, teamID, activityModel.ActionAssigned,
		map[string]interface{}{"user_id": targetID, "role": string(newRole)})

	return result, nil
}

func (s *service) record(
	ctx context.Context,
	actorID, teamID string,
	action activityModel.Action,
	details map[string]interface{},
) {
	s.activity.Record(ctx, activityModel.Entry{
		UserID:     actorID,
		EntityType: activityModel.EntityTeam,
		EntityID:   teamID,
		Action:     action,
		Details:    details,
	})
}

// authorize loads the team and its membership list.
func (s *service) authorize(
	ctx context.Context,
	repo repository.Repository,
	teamID string,
) (*teamModel.Team, []access.Member, error) {
	team, err := repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	members, err := repo.GetMembers(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	return team, members, nil
}

// load builds the viewer-specific team response.
func (s *service) load(
	ctx context.Context,
	repo repository.Repository,
	team *teamModel.Team,
	viewerID string,
) (*teamModel.TeamResponse, error) {
	members, err := repo.ListMemberViews(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	projects, err := repo.ListProjectRefs(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	resp := &teamModel.TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Version:     team.Version,
		Members:     members,
		Projects:    projects,
		CreatedAt:   team.CreatedAt,
	}
	for _, m := range members {
		if m.UserID == viewerID {
			resp.ViewerRole = m.Role
			resp.CanManage = m.Role == access.RoleOwner || m.Role == access.RoleManager
			break
		}
	}

	return resp, nil
}
