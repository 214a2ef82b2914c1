// Package service provides business logic layer for user module.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/planzo/planzo-api/internal/session"
	"github.com/planzo/planzo-api/internal/user/model"
	"github.com/planzo/planzo-api/internal/user/repository"
	"github.com/planzo/planzo-api/internal/user/token"
	"github.com/planzo/planzo-api/pkg/validation"
)

// Service defines the interface for identity and authentication operations.
type Service interface {
	// Signup registers a new account and returns it with an access token.
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)

	// Login verifies credentials and returns a fresh access token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// Logout revokes the token with the given id until it expires.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error

	// Profile returns the user with the teams and projects they belong to.
	Profile(ctx context.Context, userID string) (*model.ProfileResponse, error)

	// UpdateProfile applies optional profile changes.
	UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.User, error)
}

type service struct {
	repo     repository.Repository
	tokens   *token.Manager
	sessions session.Store
	logger   *zap.SugaredLogger
}

// New creates a new user service instance.
func New(
	repo repository.Repository,
	tokens *token.Manager,
	sessions session.Store,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:     repo,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// Signup registers a new account and returns it with an access token.
func (s *service) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = model.NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hash),
		Phone:      req.Phone,
		GlobalRole: model.GlobalRoleMember,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infow("Signup completed", "user_id", user.ID)
	return s.authResponse(user)
}

// Login verifies credentials and returns a fresh access token.
func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logger.Debugw("Login rejected", "user_id", user.ID)
		return nil, model.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// Logout revokes the token with the given id until it expires.
func (s *service) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if err := s.sessions.Revoke(ctx, tokenID, ttl); err != nil {
		s.logger.Errorw("Logout failed", "token_id", tokenID, "error", err)
		return err
	}
	return nil
}

// Profile returns the user with the teams and projects they belong to.
func (s *service) Profile(ctx context.Context, userID string) (*model.ProfileResponse, error) {
	if userID == "" {
		return nil, model.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	teams, err := s.repo.ListTeamRefs(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects, err := s.repo.ListProjectRefs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.ProfileResponse{
		User:     *user,
		Teams:    teams,
		Projects: projects,
	}, nil
}

// UpdateProfile applies optional profile changes.
func (s *service) UpdateProfile(
	ctx context.Context,
	userID string,
	req *model.UpdateProfileRequest,
) (*model.User, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name must not be blank", validation.ErrValidation)
		}
		req.Name = &trimmed
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Password != nil {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user.Password = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infow("UpdateProfile completed", "user_id", userID)
	return user, nil
}

func (s *service) authResponse(user *model.User) (*model.AuthResponse, error) {
	signed, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{
		User:      *user,
		Token:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
