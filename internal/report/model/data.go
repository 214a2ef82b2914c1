package model

import "time"

// BurnDown summarizes task completion of a project.
type BurnDown struct {
	Title                string    `json:"title"`
	ProjectID            string    `json:"project_id"`
	TotalTasks           int       `json:"total_tasks"`
	CompletedTasks       int       `json:"completed_tasks"`
	InProgressTasks      int       `json:"in_progress_tasks"`
	TodoTasks            int       `json:"todo_tasks"`
	CompletionPercentage string    `json:"completion_percentage"`
	Timestamp            time.Time `json:"timestamp"`
}

// TaskProgressRow is one task in a task progress report.
type TaskProgressRow struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Assignee    string     `json:"assignee"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     time.Time  `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskProgress lists every task of a project.
type TaskProgress struct {
	Title     string            `json:"title"`
	ProjectID string            `json:"project_id"`
	Records   []TaskProgressRow `json:"records"`
	Timestamp time.Time         `json:"timestamp"`
}

// AssigneePerformance aggregates one assignee's tasks.
type AssigneePerformance struct {
	AssigneeID           string `json:"assignee_id"`
	Name                 string `json:"name"`
	TotalTasks           int    `json:"total_tasks"`
	CompletedTasks       int    `json:"completed_tasks"`
	InProgressTasks      int    `json:"in_progress_tasks"`
	TodoTasks            int    `json:"todo_tasks"`
	CompletionPercentage string `json:"completion_percentage"`
}

// TeamPerformance aggregates tasks per assignee.
type TeamPerformance struct {
	Title               string                `json:"title"`
	ProjectID           string                `json:"project_id"`
	AssigneePerformance []AssigneePerformance `json:"assignee_performance"`
	Timestamp           time.Time             `json:"timestamp"`
}

// TimeTrackingRow is one task activity entry.
type TimeTrackingRow struct {
	At        time.Time `json:"at"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	TaskID    string    `json:"task_id"`
	TaskTitle string    `json:"task_title"`
	Details   string    `json:"details,omitempty"`
}

// TimeTracking lists task activity in chronological order.
type TimeTracking struct {
	Title     string            `json:"title"`
	ProjectID string            `json:"project_id"`
	Records   []TimeTrackingRow `json:"records"`
	Timestamp time.Time         `json:"timestamp"`
}

// TaskRow is a task of the reported project with its assignee's name.
type TaskRow struct {
	ID           string
	Title        string
	Description  string
	AssigneeID   string
	AssigneeName string
	Status       string
	Priority     string
	DueDate      time.Time
	CompletedAt  *time.Time
}
