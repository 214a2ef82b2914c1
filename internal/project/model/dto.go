package model

import (
	"time"

	"github.com/planzo/planzo-api/internal/access"
)

// CreateProjectRequest represents the request to create a project.
type CreateProjectRequest struct {
	Name        string `json:"name"        binding:"required"`
	Description string `json:"description"`
}

// UpdateProjectRequest carries optional project changes.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AddMemberRequest adds an existing user to a project.
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// AddTeamRequest attaches a team to a project.
type AddTeamRequest struct {
	TeamID string `json:"team_id" binding:"required"`
}

// MemberView is a project member with profile details.
type MemberView struct {
	UserID   string      `json:"user_id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     access.Role `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

// TeamRef is a short reference to an attached team.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskRef is a short reference to a project task.
type TaskRef struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	KanbanColumn string `json:"kanban_column"`
}

// ProjectResponse is a project with its members, teams and tasks.
type ProjectResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatorID   string       `json:"creator_id"`
	Version     int64        `json:"version"`
	Members     []MemberView `json:"members"`
	Teams       []TeamRef    `json:"teams"`
	Tasks       []TaskRef    `json:"tasks"`
	ViewerRole  access.Role  `json:"viewer_role"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProjectSummary is a project row in the caller's project list.
type ProjectSummary struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatorID   string      `json:"creator_id"`
	Role        access.Role `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
}
