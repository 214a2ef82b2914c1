// Package access implements the scoped-role membership model shared by teams and
// projects, and the authorization predicates every feature module runs before it
// mutates anything.
package access

import "errors"

// Role is a scoped role held inside a single team or project.
type Role string

const (
	// RoleOwner is held by exactly one member, the creator of the team or project.
	RoleOwner Role = "Owner"
	// RoleManager can manage contributors and tasks.
	RoleManager Role = "Manager"
	// RoleContributor is the default role of added members.
	RoleContributor Role = "Contributor"
)

var (
	// ErrForbidden is returned whenever a predicate denies an action.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRole indicates a role outside the assignable set.
	ErrInvalidRole = errors.New("invalid role")
	// ErrTargetNotMember indicates the user acted upon holds no membership.
	ErrTargetNotMember = errors.New("target is not a member")
)

// Member is a single membership record: who, and with which scoped role.
type Member struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// ParseRole converts a raw role name into a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleOwner, RoleManager, RoleContributor:
		return Role(raw), nil
	}
	return "", ErrInvalidRole
}

// IsAssignable reports whether the role may be handed out after creation.
// Owner is only ever set when the aggregate is created.
func (r Role) IsAssignable() bool {
	return r == RoleManager || r == RoleContributor
}

// Find returns the membership record of userID, if any.
func Find(members []Member, userID string) (Member, bool) {
	for _, m := range members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}

// IsMember reports whether userID holds any membership.
func IsMember(members []Member, userID string) bool {
	_, ok := Find(members, userID)
	return ok
}

// RoleOf returns the scoped role of userID. ok is false for non-members.
func RoleOf(members []Member, userID string) (role Role, ok bool) {
	m, ok := Find(members, userID)
	return m.Role, ok
}

// IsOwner reports whether userID is the Owner.
func IsOwner(members []Member, userID string) bool {
	m, ok := Find(members, userID)
	return ok && m.Role == RoleOwner
}

// IsOwnerOrManager reports whether userID is the Owner or a Manager.
func IsOwnerOrManager(members []Member, userID string) bool {
	m, ok := Find(members, userID)
	return ok && (m.Role == RoleOwner || m.Role == RoleManager)
}

// CountOwners returns how many Owner memberships the list holds.
func CountOwners(members []Member) int {
	n := 0
	for _, m := range members {
		if m.Role == RoleOwner {
			n++
		}
	}
	return n
}
