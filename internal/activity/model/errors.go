package model

import "errors"

var (
	// ErrInvalidEntityType indicates an entity type outside Task, Project, Team and User.
	ErrInvalidEntityType = errors.New("invalid entity type")
	// ErrInvalidAction indicates an unknown action name.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidRange indicates a filter whose end precedes its start.
	ErrInvalidRange = errors.New("end date precedes start date")
)
