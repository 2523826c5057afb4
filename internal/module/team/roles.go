package team

// Role is a member's team-scoped role. It is independent of the user's
// individual default role and is the value every in-team authorization
// decision consults.
type Role string

const (
	// RoleCreator is the team owner role; exactly one per team.
	RoleCreator Role = "creator"
	// RoleManager can manage members and invitations.
	RoleManager Role = "manager"
	// RoleEditor can upload videos and comment.
	RoleEditor Role = "editor"
)

// Permission represents an action that can be performed within a team.
type Permission int

const (
	PermView Permission = iota
	PermUpload
	PermComment
	PermInvite
	PermRemoveMember
	PermUpdateRole
	PermApproveVideo
	PermRejectVideo
	PermPublishVideo
	PermDeleteAnyVideo
	PermDeleteAnyComment
)

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	switch r {
	case RoleCreator, RoleManager, RoleEditor:
		return true
	default:
		return false
	}
}

// HasPermission checks if a role has a specific permission.
func (r Role) HasPermission(perm Permission) bool {
	if !r.IsValid() {
		return false
	}

	switch perm {
	case PermView, PermUpload, PermComment:
		return true

	case PermInvite, PermRemoveMember, PermUpdateRole:
		return r == RoleCreator || r == RoleManager

	case PermApproveVideo, PermRejectVideo, PermPublishVideo,
		PermDeleteAnyVideo, PermDeleteAnyComment:
		return r == RoleCreator

	default:
		return false
	}
}

// ValidInviteRoles returns the roles assignable via invitation. The creator
// role is never assigned this way; it moves only through TransferCreator.
func ValidInviteRoles() []Role {
	return []Role{RoleManager, RoleEditor}
}

// IsValidInviteRole checks if a role can be assigned via invitation.
func IsValidInviteRole(r Role) bool {
	for _, valid := range ValidInviteRoles() {
		if r == valid {
			return true
		}
	}
	return false
}
