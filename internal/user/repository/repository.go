// Package repository provides data access layer for user module.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/database/dberr"
	"github.com/planzo/planzo-api/internal/user/model"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// GetByID finds user by id.
	GetByID(ctx context.Context, userID string) (*model.User, error)

	// GetByEmail finds user by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByIDs returns the users with the given ids. Unknown ids are skipped.
	GetByIDs(ctx context.Context, userIDs []string) ([]model.User, error)

	// Update saves the mutable profile fields of user.
	Update(ctx context.Context, user *model.User) error

	// ListTeamRefs returns the teams the user is a member of.
	ListTeamRefs(ctx context.Context, userID string) ([]model.TeamRef, error)

	// ListProjectRefs returns the projects the user is a member of.
	ListProjectRefs(ctx context.Context, userID string) ([]model.ProjectRef, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new user repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new user.
func (r *repository) Create(ctx context.Context, user *model.User) error {
	r.logger.Debugw("Create called", "email", user.Email)

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if dberr.IsDuplicate(err) {
			return model.ErrEmailTaken
		}
		r.logger.Errorw("Create database error", "email", user.Email, "error", err)
		return err
	}

	return nil
}

// GetByID finds user by id.
func (r *repository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	r.logger.Debugw("GetByID called", "user_id", userID)

	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debugw("GetByID user not found", "user_id", userID)
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByID database error", "user_id", userID, "error", err)
		return nil, err
	}

	return &user, nil
}

// GetByEmail finds user by email, case-insensitively.
func (r *repository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	r.logger.Debugw("GetByEmail called", "email", email)

	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByEmail database error", "email", email, "error", err)
		return nil, err
	}

	return &user, nil
}

// GetByIDs returns the users with the given ids.
func (r *repository) GetByIDs(ctx context.Context, userIDs []string) ([]model.User, error) {
	users := []model.User{}
	if len(userIDs) == 0 {
		return users, nil
	}

	err := r.db.WithContext(ctx).
		Where("id IN ?", userIDs).
		Order("name ASC").
		Find(&users).Error

	if err != nil {
		r.logger.Errorw("GetByIDs database error", "count", len(userIDs), "error", err)
		return nil, err
	}

	return users, nil
}

// Update saves the mutable profile fields of user.
func (r *repository) Update(ctx context.Context, user *model.User) error {
	r.logger.Debugw("Update called", "user_id", user.ID)

	result := r.db.WithContext(ctx).
		Model(user).
		Select("name", "phone", "password", "profile_image", "updated_at").
		Updates(user)

	if result.Error != nil {
		r.logger.Errorw("Update database error", "user_id", user.ID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// ListTeamRefs returns the teams the user is a member of.
func (r *repository) ListTeamRefs(ctx context.Context, userID string) ([]model.TeamRef, error) {
	var refs []model.TeamRef

	err := r.db.WithContext(ctx).
		Table("team_members").
		Select("teams.id, teams.name, team_members.role").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ?", userID).
		Order("teams.name ASC").
		Scan(&refs).Error

	if err != nil {
		r.logger.Errorw("ListTeamRefs database error", "user_id", userID, "error", err)
		return nil, err
	}

	if refs == nil {
		refs = []model.TeamRef{}
	}

	return refs, nil
}

// ListProjectRefs returns the projects the user is a member of.
func (r *repository) ListProjectRefs(ctx context.Context, userID string) ([]model.ProjectRef, error) {
	var refs []model.ProjectRef

	err := r.db.WithContext(ctx).
		Table("project_members").
		Select("projects.id, projects.name, project_members.role").
		Joins("JOIN projects ON projects.id = project_members.project_id").
		Where("project_members.user_id = ?", userID).
		Order("projects.name ASC").
		Scan(&refs).Error

	if err != nil {
		r.logger.Errorw("ListProjectRefs database error", "user_id", userID, "error", err)
		return nil, err
	}

	if refs == nil {
		refs = []model.ProjectRef{}
	}

	return refs, nil
}
