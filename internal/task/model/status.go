package model

import "time"

// Status is the canonical task state. Its values double as kanban column names.
type Status string

const (
	StatusAssigned  Status = "Assigned"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
)

// Columns lists the kanban columns in board order.
var Columns = []Status{StatusAssigned, StatusOngoing, StatusCompleted}

var statusLabels = map[Status]string{
	StatusAssigned:  "To Do",
	StatusOngoing:   "In Progress",
	StatusCompleted: "Done",
}

// ParseStatus accepts either a kanban column name or a status label.
func ParseStatus(raw string) (Status, error) {
	for s, label := range statusLabels {
		if raw == string(s) || raw == label {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

// Label returns the status label shown to clients ("To Do", "In Progress", "Done").
func (s Status) Label() string {
	return statusLabels[s]
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority validates a priority. An empty value yields Medium.
func ParsePriority(raw string) (Priority, error) {
	switch Priority(raw) {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(raw), nil
	}
	return "", ErrInvalidPriority
}

// Transition moves the task to status to. Entering Completed stamps
// CompletedAt unless it is already set; any other status clears it.
func (t *Task) Transition(to Status, now time.Time) {
	t.Status = to
	if to == StatusCompleted {
		if t.CompletedAt == nil {
			stamp := now
			t.CompletedAt = &stamp
		}
		return
	}
	t.CompletedAt = nil
}
