package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/access"
)

// Team represents a team entity in the system.
// Matches the teams table schema.
type Team struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)"  json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string    `gorm:"column:description;type:text"           json:"description"`
	Version     int64     `gorm:"column:version;not null;default:1"      json:"version"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"             json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"             json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// BeforeCreate assigns the id and initial version.
func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Version == 0 {
		t.Version = 1
	}
	return nil
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (t *Team) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// Member is a membership row of a team.
// Matches the team_members table schema.
type Member struct {
	TeamID   string      `gorm:"primaryKey;column:team_id;type:varchar(36)"                                json:"team_id"`
	UserID   string      `gorm:"primaryKey;column:user_id;type:varchar(36);index:idx_team_members_user_id" json:"user_id"`
	Role     access.Role `gorm:"column:role;type:varchar(16);not null"                                     json:"role"`
	JoinedAt time.Time   `gorm:"column:joined_at;not null"                                                 json:"joined_at"`
}

// TableName specifies the table name for GORM.
func (Member) TableName() string {
	return "team_members"
}
