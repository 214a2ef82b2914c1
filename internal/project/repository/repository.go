// Package repository provides data access layer for project module.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/access"
	"github.com/planzo/planzo-api/internal/database/dberr"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
)

// Repository defines the interface for project data access operations.
type Repository interface {
	// Create inserts a new project.
	Create(ctx context.Context, project *projectModel.Project) error

	// GetByID finds project by id.
	GetByID(ctx context.Context, projectID string) (*projectModel.Project, error)

	// Update saves name and description if the version still equals expected.
	Update(ctx context.Context, project *projectModel.Project, expected int64) error

	// Delete removes the project with its memberships, team links, tasks and reports.
	Delete(ctx context.Context, projectID string) error

	// GetMembers returns the membership list of a project.
	GetMembers(ctx context.Context, projectID string) ([]access.Member, error)

	// ListMemberViews returns project members joined with their profiles.
	ListMemberViews(ctx context.Context, projectID string) ([]projectModel.MemberView, error)

	// ListTeamRefs returns the teams attached to a project.
	ListTeamRefs(ctx context.Context, projectID string) ([]projectModel.TeamRef, error)

	// ListTeamIDs returns the ids of the teams attached to a project.
	ListTeamIDs(ctx context.Context, projectID string) ([]string, error)

	// ListTaskRefs returns short references to the project's tasks.
	ListTaskRefs(ctx context.Context, projectID string) ([]projectModel.TaskRef, error)

	// ListForUser returns the projects a user belongs to.
	ListForUser(ctx context.Context, userID string) ([]projectModel.ProjectSummary, error)

	// AddMember inserts a membership row.
	AddMember(ctx context.Context, member *projectModel.Member) error

	// RemoveMember deletes a membership row.
	RemoveMember(ctx context.Context, projectID, userID string) error

	// AddTeam links a team to a project.
	AddTeam(ctx context.Context, link *projectModel.ProjectTeam) error

	// RemoveTeam unlinks a team from a project.
	RemoveTeam(ctx context.Context, projectID, teamID string) error

	// BumpVersion increments the project version if it still equals expected.
	BumpVersion(ctx context.Context, projectID string, expected int64) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new project repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new project.
func (r *repository) Create(ctx context.Context, project *projectModel.Project) error {
	r.logger.Debugw("Create called", "name", project.Name, "creator_id", project.CreatorID)

	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		r.logger.Errorw("Create database error", "name", project.Name, "error", err)
		return err
	}

	return nil
}

// GetByID finds project by id.
func (r *repository) GetByID(ctx context.Context, projectID string) (*projectModel.Project, error) {
	r.logger.Debugw("GetByID called", "project_id", projectID)

	var project projectModel.Project
	err := r.db.WithContext(ctx).
		Where("id = ?", projectID).
		First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectModel.ErrProjectNotFound
		}
		r.logger.Errorw("GetByID database error", "project_id", projectID, "error", err)
		return nil, err
	}

	return &project, nil
}

// Update saves name and description if the version still equals expected.
func (r *repository) Update(ctx context.Context, project *projectModel.Project, expected int64) error {
	r.logger.Debugw("Update called", "project_id", project.ID, "version", expected)

	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&projectModel.Project{}).
		Where("id = ? AND version = ?", project.ID, expected).
		UpdateColumns(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  now,
		})

	if result.Error != nil {
		r.logger.Errorw("Update database error", "project_id", project.ID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return projectModel.ErrVersionConflict
	}

	project.Version = expected + 1
	project.UpdatedAt = now
	return nil
}

// Delete removes the project with its memberships, team links, tasks and reports.
// It is expected to run inside a transaction.
func (r *repository) Delete(ctx context.Context, projectID string) error {
	r.logger.Debugw("Delete called", "project_id", projectID)

	db := r.db.WithContext(ctx)
	for _, table := range []string{"project_members", "project_teams", "tasks", "reports"} {
		if err := db.Exec("DELETE FROM "+table+" WHERE project_id = ?", projectID).Error; err != nil {
			r.logger.Errorw("Delete cascade error", "project_id", projectID, "table", table, "error", err)
			return err
		}
	}

	result := db.Where("id = ?", projectID).Delete(&projectModel.Project{})
	if result.Error != nil {
		r.logger.Errorw("Delete database error", "project_id", projectID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return projectModel.ErrProjectNotFound
	}

	return nil
}

// GetMembers returns the membership list of a project.
func (r *repository) GetMembers(ctx context.Context, projectID string) ([]access.Member, error) {
	var members []access.Member

	err := r.db.WithContext(ctx).
		Table("project_members").
		Select("user_id, role").
		Where("project_id = ?", projectID).
		Scan(&members).Error

	if err != nil {
		r.logger.Errorw("GetMembers database error", "project_id", projectID, "error", err)
		return nil, err
	}

	return members, nil
}

// ListMemberViews returns project members joined with their profiles.
func (r *repository) ListMemberViews(ctx context.Context, projectID string) ([]projectModel.MemberView, error) {
	var views []projectModel.MemberView

	err := r.db.WithContext(ctx).
		Table("project_members").
		Select("users.id AS user_id, users.name, users.email, project_members.role, project_members.joined_at").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ?", projectID).
		Order("project_members.joined_at ASC, users.name ASC").
		Scan(&views).Error

	if err != nil {
		r.logger.Errorw("ListMemberViews database error", "project_id", projectID, "error", err)
		return nil, err
	}

	if views == nil {
		views = []projectModel.MemberView{}
	}

	return views, nil
}

// ListTeamRefs returns the teams attached to a project.
func (r *repository) ListTeamRefs(ctx context.Context, projectID string) ([]projectModel.TeamRef, error) {
	var refs []projectModel.TeamRef

	err := r.db.WithContext(ctx).
		Table("project_teams").
		Select("teams.id, teams.name").
		Joins("JOIN teams ON teams.id = project_teams.team_id").
		Where("project_teams.project_id = ?", projectID).
		Order("teams.name ASC").
		Scan(&refs).Error

	if err != nil {
		r.logger.Errorw("ListTeamRefs database error", "project_id", projectID, "error", err)
		return nil, err
	}

	if refs == nil {
		refs = []projectModel.TeamRef{}
	}

	return refs, nil
}

// ListTeamIDs returns the ids of the teams attached to a project.
func (r *repository) ListTeamIDs(ctx context.Context, projectID string) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&projectModel.ProjectTeam{}).
		Where("project_id = ?", projectID).
		Pluck("team_id", &ids).Error

	if err != nil {
		r.logger.Errorw("ListTeamIDs database error", "project_id", projectID, "error", err)
		return nil, err
	}

	return ids, nil
}

// ListTaskRefs returns short references to the project's tasks.
func (r *repository) ListTaskRefs(ctx context.Context, projectID string) ([]projectModel.TaskRef, error) {
	var refs []projectModel.TaskRef

	err := r.db.WithContext(ctx).
		Table("tasks").
		Select("id, title, status AS kanban_column").
		Where("project_id = ?", projectID).
		Order("due_date ASC, created_at ASC").
		Scan(&refs).Error

	if err != nil {
		r.logger.Errorw("ListTaskRefs database error", "project_id", projectID, "error", err)
		return nil, err
	}

	if refs == nil {
		refs = []projectModel.TaskRef{}
	}

	return refs, nil
}

// ListForUser returns the projects a user belongs to with the user's role.
func (r *repository) ListForUser(ctx context.Context, userID string) ([]projectModel.ProjectSummary, error) {
	r.logger.Debugw("ListForUser called", "user_id", userID)

	var projects []projectModel.ProjectSummary

	err := r.db.WithContext(ctx).
		Table("project_members").
		Select("projects.id, projects.name, projects.description, projects.creator_id, " +
			"project_members.role, projects.created_at").
		Joins("JOIN projects ON projects.id = project_members.project_id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at DESC").
		Scan(&projects).Error

	if err != nil {
		r.logger.Errorw("ListForUser database error", "user_id", userID, "error", err)
		return nil, err
	}

	if projects == nil {
		projects = []projectModel.ProjectSummary{}
	}

	return projects, nil
}

// AddMember inserts a membership row.
func (r *repository) AddMember(ctx context.Context, member *projectModel.Member) error {
	r.logger.Debugw("AddMember called", "project_id", member.ProjectID, "user_id", member.UserID)

	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if dberr.IsDuplicate(err) {
			return projectModel.ErrAlreadyMember
		}
		r.logger.Errorw("AddMember database error", "project_id", member.ProjectID, "error", err)
		return err
	}

	return nil
}

// RemoveMember deletes a membership row.
func (r *repository) RemoveMember(ctx context.Context, projectID, userID string) error {
	r.logger.Debugw("RemoveMember called", "project_id", projectID, "user_id", userID)

	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&projectModel.Member{})

	if result.Error != nil {
		r.logger.Errorw("RemoveMember database error", "project_id", projectID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return projectModel.ErrMemberNotFound
	}

	return nil
}

// AddTeam links a team to a project.
func (r *repository) AddTeam(ctx context.Context, link *projectModel.ProjectTeam) error {
	r.logger.Debugw("AddTeam called", "project_id", link.ProjectID, "team_id", link.TeamID)

	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if dberr.IsDuplicate(err) {
			return projectModel.ErrTeamAlreadyAttached
		}
		r.logger.Errorw("AddTeam database error", "project_id", link.ProjectID, "error", err)
		return err
	}

	return nil
}

// RemoveTeam unlinks a team from a project.
func (r *repository) RemoveTeam(ctx context.Context, projectID, teamID string) error {
	r.logger.Debugw("RemoveTeam called", "project_id", projectID, "team_id", teamID)

	result := r.db.WithContext(ctx).
		Where("project_id = ? AND team_id = ?", projectID, teamID).
		Delete(&projectModel.ProjectTeam{})

	if result.Error != nil {
		r.logger.Errorw("RemoveTeam database error", "project_id", projectID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return projectModel.ErrTeamNotAttached
	}

	return nil
}

// BumpVersion increments the project version if it still equals expected.
func (r *repository) BumpVersion(ctx context.Context, projectID string, expected int64) error {
	result := r.db.WithContext(ctx).
		Model(&projectModel.Project{}).
		Where("id = ? AND version = ?", projectID, expected).
		UpdateColumns(map[string]interface{}{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Errorw("BumpVersion database error", "project_id", projectID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return projectModel.ErrVersionConflict
	}

	return nil
}
