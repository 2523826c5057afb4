package team

import (
	"time"

	"github.com/google/uuid"
)

// InviteRequest is the payload for inviting a member.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// AcceptInvitationRequest carries the invitation token.
type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// UpdateMemberRoleRequest changes a member's role.
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// TransferCreatorRequest names the new creator.
type TransferCreatorRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// TeamResponse is the API representation of a team.
type TeamResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a team to its API representation.
func (t *Team) ToResponse() *TeamResponse {
	return &TeamResponse{
		ID:        t.ID,
		Name:      t.Name,
		OwnerID:   t.OwnerID,
		Plan:      string(t.SubscriptionPlan),
		CreatedAt: t.CreatedAt,
	}
}

// MemberResponse is the API representation of a team member.
type MemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

// ToResponse converts a joined member row to its API representation.
func (m *MemberWithUser) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		Email:    m.Email,
		Name:     m.Name,
		Role:     string(m.Role),
		Status:   string(m.Status),
		JoinedAt: m.JoinedAt,
	}
}

// InvitationResponse is the API representation of an invitation.
type InvitationResponse struct {
	ID           uuid.UUID `json:"id"`
	InviteeEmail string    `json:"invitee_email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ToResponse converts an invitation to its API representation.
func (i *Invitation) ToResponse() *InvitationResponse {
	return &InvitationResponse{
		ID:           i.ID,
		InviteeEmail: i.InviteeEmail,
		Role:         string(i.Role),
		Status:       string(i.Status),
		ExpiresAt:    i.ExpiresAt,
	}
}
