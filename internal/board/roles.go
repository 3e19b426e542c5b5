package board

import "github.com/nexora/cloudtask/internal/gateway"

// ResolveRole returns the viewer's role in the project by email match over
// the loaded member list. ok is false when the viewer is not a member, which
// includes the member list simply not being loaded yet.
func ResolveRole(members []gateway.Member, currentUserEmail string) (Role, bool) {
	if currentUserEmail == "" {
		return "", false
	}

	for _, m := range members {
		if m.UserEmail == currentUserEmail {
			return Role(m.Role), true
		}
	}
	return "", false
}

// CanEditAssignments is the single capability check gating assignment editing
// and member management. Only OWNER and ADMIN pass; MEMBER and non-members
// may view but never trigger those mutations.
func CanEditAssignments(role Role) bool {
	return role == RoleOwner || role == RoleAdmin
}
