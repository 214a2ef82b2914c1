// Package model provides domain models and DTOs for task module.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task represents a unit of work inside a project.
// Matches the tasks table schema.
type Task struct {
	ID          string     `gorm:"primaryKey;column:id;type:varchar(36)"                               json:"id"`
	Title       string     `gorm:"column:title;type:varchar(255);not null"                             json:"title"`
	Description string     `gorm:"column:description;type:text"                                       json:"description"`
	ProjectID   string     `gorm:"column:project_id;type:varchar(36);not null;index:idx_tasks_project" json:"project_id"`
	AssigneeID  string     `gorm:"column:assignee_id;type:varchar(36);not null;index:idx_tasks_assignee" json:"assignee_id"`
	CreatorID   string     `gorm:"column:creator_id;type:varchar(36);not null"                         json:"creator_id"`
	DueDate     time.Time  `gorm:"column:due_date;not null;index:idx_tasks_due_date"                   json:"due_date"`
	StartDate   *time.Time `gorm:"column:start_date"                                                   json:"start_date,omitempty"`
	Priority    Priority   `gorm:"column:priority;type:varchar(16);not null"                           json:"priority"`
	Status      Status     `gorm:"column:status;type:varchar(16);not null"                             json:"status"`
	CompletedAt *time.Time `gorm:"column:completed_at"                                                 json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null"                                          json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null"                                          json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Task) TableName() string {
	return "tasks"
}

// BeforeCreate assigns the id and defaults.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusAssigned
	}
	return nil
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}
