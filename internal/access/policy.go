package access

// RequireMember fails with ErrForbidden unless userID is a member.
func RequireMember(members []Member, userID string) error {
	if !IsMember(members, userID) {
		return ErrForbidden
	}
	return nil
}

// RequireOwner fails with ErrForbidden unless userID is the Owner.
//
// Guards: update project, delete project, add/remove project members,
// add/remove project teams, assign a team role.
func RequireOwner(members []Member, userID string) error {
	if !IsOwner(members, userID) {
		return ErrForbidden
	}
	return nil
}

// RequireOwnerOrManager fails with ErrForbidden unless userID is the Owner or a Manager.
//
// Guards: delete a task, delete a report, send a report summary, add a team member.
func RequireOwnerOrManager(members []Member, userID string) error {
	if !IsOwnerOrManager(members, userID) {
		return ErrForbidden
	}
	return nil
}

// CanUpdateTask reports whether actorID may edit or move a task with the given
// creator and assignee inside a project with the given members.
func CanUpdateTask(members []Member, creatorID, assigneeID, actorID string) bool {
	if actorID == creatorID || actorID == assigneeID {
		return true
	}
	return IsOwnerOrManager(members, actorID)
}

// CanRemoveTeamMember applies the tiered removal rule. Each target role is its
// own branch rather than a rank comparison.
func CanRemoveTeamMember(acting, target Role) bool {
	// Contributors remove no one.
	if acting == RoleContributor {
		return false
	}

	switch target {
	case RoleOwner:
		return false
	case RoleManager:
		return acting == RoleOwner
	case RoleContributor:
		return acting == RoleOwner || acting == RoleManager
	}

	return false
}

// CheckRemoveTeamMember resolves both parties in members and applies
// CanRemoveTeamMember. Both must be members.
func CheckRemoveTeamMember(members []Member, actorID, targetID string) error {
	acting, ok := Find(members, actorID)
	if !ok {
		return ErrForbidden
	}
	target, ok := Find(members, targetID)
	if !ok {
		return ErrForbidden
	}
	if !CanRemoveTeamMember(acting.Role, target.Role) {
		return ErrForbidden
	}
	return nil
}

// CanAssignRole applies the role-assignment rule in order: newRole must be
// assignable, only the Owner may assign, and the target must already be a
// member. It returns ErrInvalidRole, ErrForbidden or ErrTargetNotMember.
func CanAssignRole(acting, newRole Role, targetIsMember bool) error {
	if !newRole.IsAssignable() {
		return ErrInvalidRole
	}
	if acting != RoleOwner {
		return ErrForbidden
	}
	if !targetIsMember {
		return ErrTargetNotMember
	}
	return nil
}

// CheckAssignRole resolves both parties in members and applies CanAssignRole.
// The Owner's own membership can never be reassigned.
func CheckAssignRole(members []Member, actorID, targetID string, newRole Role) error {
	acting, _ := RoleOf(members, actorID)
	target, ok := Find(members, targetID)
	if err := CanAssignRole(acting, newRole, ok); err != nil {
		return err
	}
	if target.Role == RoleOwner {
		return ErrForbidden
	}
	return nil
}

// IsValidAssignee reports whether assigneeID belongs to the project directly or
// to any team attached to it.
func IsValidAssignee(projectMembers []Member, teamMembers [][]Member, assigneeID string) bool {
	if IsMember(projectMembers, assigneeID) {
		return true
	}
	for _, tm := range teamMembers {
		if IsMember(tm, assigneeID) {
			return true
		}
	}
	return false
}
