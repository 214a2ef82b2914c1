// Package repository provides data access layer for team module.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/access"
	"github.com/planzo/planzo-api/internal/database/dberr"
	teamModel "github.com/planzo/planzo-api/internal/team/model"
)

// Repository defines the interface for team data access operations.
type Repository interface {
	// Create inserts a new team.
	Create(ctx context.Context, team *teamModel.Team) error

	// GetByID finds team by id.
	GetByID(ctx context.Context, teamID string) (*teamModel.Team, error)

	// GetMembers returns the membership list of a team.
	GetMembers(ctx context.Context, teamID string) ([]access.Member, error)

	// ListMemberViews returns team members joined with their profiles.
	ListMemberViews(ctx context.Context, teamID string) ([]teamModel.MemberView, error)

	// ListProjectRefs returns the projects the team is attached to.
	ListProjectRefs(ctx context.Context, teamID string) ([]teamModel.ProjectRef, error)

	// ListJoined returns the teams a user belongs to.
	ListJoined(ctx context.Context, userID string) ([]teamModel.TeamSummary, error)

	// AddMember inserts a membership row.
	AddMember(ctx context.Context, member *teamModel.Member) error

	// RemoveMember deletes a membership row.
	RemoveMember(ctx context.Context, teamID, userID string) error

	// UpdateRole changes the scoped role of a member.
	UpdateRole(ctx context.Context, teamID, userID string, role access.Role) error

	// BumpVersion increments the team version if it still equals expected.
	BumpVersion(ctx context.Context, teamID string, expected int64) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new team repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new team.
func (r *repository) Create(ctx context.Context, team *teamModel.Team) error {
	r.logger.Debugw("Create called", "name", team.Name)

	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		r.logger.Errorw("Create database error", "name", team.Name, "error", err)
		return err
	}

	return nil
}

// GetByID finds team by id.
func (r *repository) GetByID(ctx context.Context, teamID string) (*teamModel.Team, error) {
	r.logger.Debugw("GetByID called", "team_id", teamID)

	var team teamModel.Team
	err := r.db.WithContext(ctx).
		Where("id = ?", teamID).
		First(&team).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamModel.ErrTeamNotFound
		}
		r.logger.Errorw("GetByID database error", "team_id", teamID, "error", err)
		return nil, err
	}

	return &team, nil
}

// GetMembers returns the membership list of a team.
func (r *repository) GetMembers(ctx context.Context, teamID string) ([]access.Member, error) {
	var members []access.Member

	err := r.db.WithContext(ctx).
		Table("team_members").
		Select("user_id, role").
		Where("team_id = ?", teamID).
		Scan(&members).Error

	if err != nil {
		r.logger.Errorw("GetMembers database error", "team_id", teamID, "error", err)
		return nil, err
	}

	return members, nil
}

// ListMemberViews returns team members joined with their profiles, owner first.
func (r *repository) ListMemberViews(ctx context.Context, teamID string) ([]teamModel.MemberView, error) {
	var views []teamModel.MemberView

	err := r.db.WithContext(ctx).
		Table("team_members").
		Select("users.id AS user_id, users.name, users.email, team_members.role, team_members.joined_at").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID).
		Order("team_members.joined_at ASC, users.name ASC").
		Scan(&views).Error

	if err != nil {
		r.logger.Errorw("ListMemberViews database error", "team_id", teamID, "error", err)
		return nil, err
	}

	if views == nil {
		views = []teamModel.MemberView{}
	}

	return views, nil
}

// ListProjectRefs returns the projects the team is attached to.
func (r *repository) ListProjectRefs(ctx context.Context, teamID string) ([]teamModel.ProjectRef, error) {
	var refs []teamModel.ProjectRef

	err := r.db.WithContext(ctx).
		Table("project_teams").
		Select("projects.id, projects.name").
		Joins("JOIN projects ON projects.id = project_teams.project_id").
		Where("project_teams.team_id = ?", teamID).
		Order("projects.name ASC").
		Scan(&refs).Error

	if err != nil {
		r.logger.Errorw("ListProjectRefs database error", "team_id", teamID, "error", err)
		return nil, err
	}

	if refs == nil {
		refs = []teamModel.ProjectRef{}
	}

	return refs, nil
}

// ListJoined returns the teams a user belongs to with the user's role.
func (r *repository) ListJoined(ctx context.Context, userID string) ([]teamModel.TeamSummary, error) {
	r.logger.Debugw("ListJoined called", "user_id", userID)

	var teams []teamModel.TeamSummary

	err := r.db.WithContext(ctx).
		Table("team_members").
		Select(`teams.id, teams.name, teams.description, team_members.role,
			(SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = teams.id) AS member_count`).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ?", userID).
		Order("teams.name ASC").
		Scan(&teams).Error

	if err != nil {
		r.logger.Errorw("ListJoined database error", "user_id", userID, "error", err)
		return nil, err
	}

	if teams == nil {
		teams = []teamModel.TeamSummary{}
	}

	return teams, nil
}

// AddMember inserts a membership row.
func (r *repository) AddMember(ctx context.Context, member *teamModel.Member) error {
	r.logger.Debugw("AddMember called", "team_id", member.TeamID, "user_id", member.UserID)

	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if dberr.IsDuplicate(err) {
			return teamModel.ErrAlreadyMember
		}
		r.logger.Errorw("AddMember database error", "team_id", member.TeamID, "error", err)
		return err
	}

	return nil
}

// RemoveMember deletes a membership row.
func (r *repository) RemoveMember(ctx context.Context, teamID, userID string) error {
	r.logger.Debugw("RemoveMember called", "team_id", teamID, "user_id", userID)

	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamModel.Member{})

	if result.Error != nil {
		r.logger.Errorw("RemoveMember database error", "team_id", teamID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrMemberNotFound
	}

	return nil
}

// UpdateRole changes the scoped role of a member.
func (r *repository) UpdateRole(ctx context.Context, teamID, userID string, role access.Role) error {
	r.logger.Debugw("UpdateRole called", "team_id", teamID, "user_id", userID, "role", role)

	result := r.db.WithContext(ctx).
		Model(&teamModel.Member{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role)

	if result.Error != nil {
		r.logger.Errorw("UpdateRole database error", "team_id", teamID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrMemberNotFound
	}

	return nil
}

// BumpVersion increments the team version if it still equals expected.
func (r *repository) BumpVersion(ctx context.Context, teamID string, expected int64) error {
	result := r.db.WithContext(ctx).
		Model(&teamModel.Team{}).
		Where("id = ? AND version = ?", teamID, expected).
		UpdateColumns(map[string]interface{}{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Errorw("BumpVersion database error", "team_id", teamID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrVersionConflict
	}

	return nil
}
