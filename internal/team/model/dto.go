// Package model provides domain models and DTOs for team module.
package model

import (
	"time"

	"github.com/planzo/planzo-api/internal/access"
)

// CreateTeamRequest represents the request to create a team.
type CreateTeamRequest struct {
	Name        string `json:"name"        binding:"required"`
	Description string `json:"description"`
}

// AddMemberRequest adds a user, identified by email, to a team.
type AddMemberRequest struct {
	Email string `json:"email"`
}

// AssignRoleRequest changes the scoped role of a member.
type AssignRoleRequest struct {
	Role string `json:"role"`
}

// MemberView is a team member with profile details.
type MemberView struct {
	UserID   string      `json:"user_id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     access.Role `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

// ProjectRef is a short reference to a project the team is attached to.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamResponse is a team with its members and projects, as seen by the viewer.
type TeamResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Version     int64        `json:"version"`
	Members     []MemberView `json:"members"`
	Projects    []ProjectRef `json:"projects"`
	ViewerRole  access.Role  `json:"viewer_role"`
	CanManage   bool         `json:"can_manage"`
	CreatedAt   time.Time    `json:"created_at"`
}

// TeamSummary is a team row in the joined teams list.
type TeamSummary struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Role        access.Role `json:"role"`
	MemberCount int64       `json:"member_count"`
}
