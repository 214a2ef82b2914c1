package model

import "errors"

var (
	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInvalidTeamName indicates that the provided team name is invalid (e.g., empty).
	ErrInvalidTeamName = errors.New("invalid team name")
	// ErrEmailRequired indicates that add-member was called without an email.
	ErrEmailRequired = errors.New("email is required")
	// ErrAlreadyMember indicates that the user already belongs to the team.
	ErrAlreadyMember = errors.New("user is already a team member")
	// ErrMemberNotFound indicates that the target user is not a team member.
	ErrMemberNotFound = errors.New("team member not found")
	// ErrVersionConflict indicates a concurrent modification of the team.
	ErrVersionConflict = errors.New("team was modified concurrently")
)
