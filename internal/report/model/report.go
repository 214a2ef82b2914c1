// Package model provides domain models and DTOs for project reports.
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type is the kind of aggregation a report holds.
type Type string

const (
	TypeBurnDown        Type = "Burn Down"
	TypeTaskProgress    Type = "Task Progress"
	TypeTeamPerformance Type = "Team Performance"
	TypeTimeTracking    Type = "Time Tracking"
)

// ParseType validates a report type name.
func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case TypeBurnDown, TypeTaskProgress, TypeTeamPerformance, TypeTimeTracking:
		return Type(raw), nil
	}
	return "", ErrInvalidReportType
}

// Report is a persisted aggregation result.
// Matches the reports table schema.
type Report struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)"                            json:"id"`
	ProjectID   string    `gorm:"column:project_id;type:varchar(36);not null;index:idx_reports_project" json:"project_id"`
	Type        Type      `gorm:"column:type;type:varchar(32);not null"                            json:"type"`
	GeneratedAt time.Time `gorm:"column:generated_at;not null"                                     json:"generated_at"`
	CreatedBy   string    `gorm:"column:created_by;type:varchar(36);not null"                      json:"created_by"`
	Data        string    `gorm:"column:data;type:text;not null"                                   json:"-"`
}

// TableName specifies the table name for GORM.
func (Report) TableName() string {
	return "reports"
}

// BeforeCreate assigns the id.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// GenerateRequest asks for a new report of the given type.
type GenerateRequest struct {
	Type string `json:"type" binding:"required"`
}

// EmailSummaryRequest lists summary recipients. Empty means every project member.
type EmailSummaryRequest struct {
	Recipients []string `json:"recipients"`
}

// EmailSummaryResponse reports who the summary was sent to.
type EmailSummaryResponse struct {
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
}

// ReportResponse is a report with its decoded data.
type ReportResponse struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"project_id"`
	Type          Type            `json:"type"`
	GeneratedAt   time.Time       `json:"generated_at"`
	CreatedBy     string          `json:"created_by"`
	CreatedByName string          `json:"created_by_name,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewReportResponse builds the client view of r.
func NewReportResponse(r *Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Type:        r.Type,
		GeneratedAt: r.GeneratedAt,
		CreatedBy:   r.CreatedBy,
		Data:        json.RawMessage(r.Data),
	}
}
