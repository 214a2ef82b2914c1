package model

import "errors"

var (
	// ErrProjectNotFound indicates that the requested project does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidProjectName indicates an empty project name.
	ErrInvalidProjectName = errors.New("invalid project name")
	// ErrAlreadyMember indicates that the user already belongs to the project.
	ErrAlreadyMember = errors.New("user is already a project member")
	// ErrMemberNotFound indicates that the target user is not a project member.
	ErrMemberNotFound = errors.New("project member not found")
	// ErrTeamAlreadyAttached indicates that the team is already linked to the project.
	ErrTeamAlreadyAttached = errors.New("team is already attached to the project")
	// ErrTeamNotAttached indicates that the team is not linked to the project.
	ErrTeamNotAttached = errors.New("team is not attached to the project")
	// ErrVersionConflict indicates a concurrent modification of the project.
	ErrVersionConflict = errors.New("project was modified concurrently")
)
