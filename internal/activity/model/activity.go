// Package model provides domain models and DTOs for the activity log.
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityType names the kind of entity an activity entry refers to.
type EntityType string

const (
	EntityTask    EntityType = "Task"
	EntityProject EntityType = "Project"
	EntityTeam    EntityType = "Team"
	EntityUser    EntityType = "User"
)

// Action names what happened to the entity.
type Action string

const (
	ActionCreated   Action = "Created"
	ActionUpdated   Action = "Updated"
	ActionDeleted   Action = "Deleted"
	ActionAssigned  Action = "Assigned"
	ActionCompleted Action = "Completed"
)

// ActivityLog is one append-only audit entry.
// Matches the activity_logs table schema.
type ActivityLog struct {
	ID         string     `gorm:"primaryKey;column:id;type:varchar(36)"                                   json:"id"`
	UserID     string     `gorm:"column:user_id;type:varchar(36);not null;index:idx_activity_logs_user"   json:"user_id"`
	EntityType EntityType `gorm:"column:entity_type;type:varchar(16);not null"                            json:"entity_type"`
	EntityID   string     `gorm:"column:entity_id;type:varchar(36);not null"                              json:"entity_id"`
	Action     Action     `gorm:"column:action;type:varchar(16);not null"                                 json:"action"`
	Details    string     `gorm:"column:details;type:text"                                                json:"-"`
	ProjectID  *string    `gorm:"column:project_id;type:varchar(36);index:idx_activity_logs_project"      json:"project_id,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;not null;index:idx_activity_logs_created_at"           json:"created_at"`
}

// TableName specifies the table name for GORM.
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// BeforeCreate assigns the id.
func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Entry is what services hand to the recorder.
type Entry struct {
	UserID     string
	EntityType EntityType
	EntityID   string
	Action     Action
	ProjectID  string
	Details    map[string]interface{}
}

// LogView is an activity entry with the acting user's name.
type LogView struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	UserName   string          `json:"user_name"`
	EntityType EntityType      `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     Action          `json:"action"`
	Details    json.RawMessage `json:"details,omitempty"`
	ProjectID  *string         `json:"project_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ParseEntityType converts a raw entity type name into an EntityType.
func ParseEntityType(raw string) (EntityType, error) {
	switch EntityType(raw) {
	case EntityTask, EntityProject, EntityTeam, EntityUser:
		return EntityType(raw), nil
	}
	return "", ErrInvalidEntityType
}

// ParseAction converts a raw action name into an Action.
func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionAssigned, ActionCompleted:
		return Action(raw), nil
	}
	return "", ErrInvalidAction
}

// Page size bounds for activity listings. FilterLimit caps filtered results.
const (
	DefaultLimit = 20
	MaxLimit     = 100
	FilterLimit  = 100
)

// Filter narrows a log search. Zero fields match everything. Without a
// ProjectID the search covers only the actor's own entries.
type Filter struct {
	ProjectID  string
	UserID     string
	EntityType EntityType
	Action     Action
	From       *time.Time
	To         *time.Time
}

// Validate checks the time range.
func (f Filter) Validate() error {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return ErrInvalidRange
	}
	return nil
}

// Pagination describes a page of results.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// ListResponse is a page of activity entries.
type ListResponse struct {
	Logs       []LogView  `json:"logs"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes the page count for total items at limit per page.
func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Total: total, Page: page, Pages: pages}
}
