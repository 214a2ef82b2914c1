package model

import "time"

// SignupRequest represents the request to register a new account.
type SignupRequest struct {
	Name     string `json:"name"     binding:"required" validate:"required,max=255"`
	Email    string `json:"email"    binding:"required" validate:"required,email,max=255"`
	Password string `json:"password" binding:"required" validate:"required,min=6,max=72"`
	Phone    string `json:"phone"                       validate:"omitempty,max=32"`
}

// LoginRequest represents the credentials of a login attempt.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries optional profile changes. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone"    validate:"omitempty,max=32"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TeamRef is a short team reference in a profile.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ProjectRef is a short project reference in a profile.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ProfileResponse is a user with the teams and projects they belong to.
type ProfileResponse struct {
	User     User         `json:"user"`
	Teams    []TeamRef    `json:"teams"`
	Projects []ProjectRef `json:"projects"`
}
