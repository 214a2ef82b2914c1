package model

import "time"

// CreateTaskRequest represents the request to create a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  string     `json:"assignee_id"`
	DueDate     *Date      `json:"due_date"`
	StartDate   *Date      `json:"start_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
}

// UpdateTaskRequest carries optional task changes.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssigneeID  *string    `json:"assignee_id"`
	DueDate     *Date      `json:"due_date"`
	StartDate   *Date      `json:"start_date"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
}

// MoveTaskRequest moves a task to another kanban column.
type MoveTaskRequest struct {
	Column string `json:"column" binding:"required"`
}

// TaskResponse is a task as returned to clients. Status carries the label and
// KanbanColumn the column name; both always describe the same state.
type TaskResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ProjectID    string     `json:"project_id"`
	AssigneeID   string     `json:"assignee_id"`
	CreatorID    string     `json:"creator_id"`
	DueDate      time.Time  `json:"due_date"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	Priority     Priority   `json:"priority"`
	Status       string     `json:"status"`
	KanbanColumn Status     `json:"kanban_column"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewTaskResponse builds the client view of t.
func NewTaskResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		ProjectID:    t.ProjectID,
		AssigneeID:   t.AssigneeID,
		CreatorID:    t.CreatorID,
		DueDate:      t.DueDate,
		StartDate:    t.StartDate,
		Priority:     t.Priority,
		Status:       t.Status.Label(),
		KanbanColumn: t.Status,
		CompletedAt:  t.CompletedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// BoardColumn is one kanban column with its tasks.
type BoardColumn struct {
	Column Status         `json:"column"`
	Label  string         `json:"label"`
	Tasks  []TaskResponse `json:"tasks"`
}

// BoardResponse is the kanban view of a project.
type BoardResponse struct {
	ProjectID string        `json:"project_id"`
	Columns   []BoardColumn `json:"columns"`
}

// ListFilter narrows a task listing.
type ListFilter struct {
	Status     Status
	AssigneeID string
	DueFrom    *time.Time
	DueTo      *time.Time
}

// DueTask is a task due soon with the assignee's contact details.
type DueTask struct {
	TaskID        string    `json:"task_id"`
	Title         string    `json:"title"`
	ProjectID     string    `json:"project_id"`
	ProjectName   string    `json:"project_name"`
	DueDate       time.Time `json:"due_date"`
	AssigneeID    string    `json:"assignee_id"`
	AssigneeName  string    `json:"assignee_name"`
	AssigneeEmail string    `json:"assignee_email"`
}
