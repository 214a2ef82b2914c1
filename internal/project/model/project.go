// Package model provides domain models and DTOs for project module.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/access"
)

// Project represents a project entity in the system.
// Matches the projects table schema.
type Project struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)"                                json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null"                               json:"name"`
	Description string    `gorm:"column:description;type:text"                                         json:"description"`
	CreatorID   string    `gorm:"column:creator_id;type:varchar(36);not null;index:idx_projects_creator" json:"creator_id"`
	Version     int64     `gorm:"column:version;not null;default:1"                                    json:"version"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"                                           json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"                                           json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns the id and initial version.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (p *Project) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// Member is a membership row of a project.
// Matches the project_members table schema.
type Member struct {
	ProjectID string      `gorm:"primaryKey;column:project_id;type:varchar(36)"                                json:"project_id"`
	UserID    string      `gorm:"primaryKey;column:user_id;type:varchar(36);index:idx_project_members_user_id" json:"user_id"`
	Role      access.Role `gorm:"column:role;type:varchar(16);not null"                                        json:"role"`
	JoinedAt  time.Time   `gorm:"column:joined_at;not null"                                                    json:"joined_at"`
}

// TableName specifies the table name for GORM.
func (Member) TableName() string {
	return "project_members"
}

// ProjectTeam links a team to a project.
// Matches the project_teams table schema.
type ProjectTeam struct {
	ProjectID  string    `gorm:"primaryKey;column:project_id;type:varchar(36)"                            json:"project_id"`
	TeamID     string    `gorm:"primaryKey;column:team_id;type:varchar(36);index:idx_project_teams_team_id" json:"team_id"`
	AttachedAt time.Time `gorm:"column:attached_at;not null"                                              json:"attached_at"`
}

// TableName specifies the table name for GORM.
func (ProjectTeam) TableName() string {
	return "project_teams"
}
