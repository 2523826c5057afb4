package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleHasPermission(t *testing.T) {
	tests := []struct {
		name string
		role Role
		perm Permission
		want bool
	}{
		{"creator can approve", RoleCreator, PermApproveVideo, true},
		{"creator can reject", RoleCreator, PermRejectVideo, true},
		{"creator can publish", RoleCreator, PermPublishVideo, true},
		{"creator can invite", RoleCreator, PermInvite, true},
		{"creator can delete any video", RoleCreator, PermDeleteAnyVideo, true},
		{"manager can invite", RoleManager, PermInvite, true},
		{"manager can remove member", RoleManager, PermRemoveMember, true},
		{"manager cannot approve", RoleManager, PermApproveVideo, false},
		{"manager cannot publish", RoleManager, PermPublishVideo, false},
		{"editor can upload", RoleEditor, PermUpload, true},
		{"editor can comment", RoleEditor, PermComment, true},
		{"editor can view", RoleEditor, PermView, true},
		{"editor cannot invite", RoleEditor, PermInvite, false},
		{"editor cannot update role", RoleEditor, PermUpdateRole, false},
		{"editor cannot reject", RoleEditor, PermRejectVideo, false},
		{"unknown role has nothing", Role("ghost"), PermView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.HasPermission(tt.perm))
		})
	}
}

func TestIsValidInviteRole(t *testing.T) {
	assert.True(t, IsValidInviteRole(RoleManager))
	assert.True(t, IsValidInviteRole(RoleEditor))
	assert.False(t, IsValidInviteRole(RoleCreator))
	assert.False(t, IsValidInviteRole(Role("admin")))
}
