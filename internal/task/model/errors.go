package model

import "errors"

var (
	// ErrTaskNotFound indicates that the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTitleRequired indicates a missing task title.
	ErrTitleRequired = errors.New("title is required")
	// ErrDueDateRequired indicates a missing due date.
	ErrDueDateRequired = errors.New("due date is required")
	// ErrInvalidStatus indicates an unknown status or kanban column.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidPriority indicates an unknown priority.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidAssignee indicates an assignee outside the project and its teams.
	ErrInvalidAssignee = errors.New("assignee must be a member of the project or one of its teams")
	// ErrInvalidDateRange indicates a calendar range whose end precedes its start.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrInvalidDate indicates a date that is neither RFC 3339 nor YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be an RFC 3339 timestamp or YYYY-MM-DD")
)
