package team

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus represents a membership's status.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusInactive MemberStatus = "inactive"
)

// InvitationStatus represents the status of an invitation.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRevoked  InvitationStatus = "revoked"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// SubscriptionPlan identifies a team's plan tier.
type SubscriptionPlan string

const (
	PlanFree SubscriptionPlan = "free"
	PlanPro  SubscriptionPlan = "pro"
)

// Team represents a creator team. Exactly one member holds the creator role;
// the service layer enforces this, transfer happens only through
// TransferCreator.
type Team struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `json:"owner_id" gorm:"type:uuid;not null"`
	Name    string    `json:"name" gorm:"not null"`

	// Subscription is a passive record; nothing in the server enforces it.
	SubscriptionPlan      SubscriptionPlan `json:"subscription_plan" gorm:"not null;default:free"`
	SubscriptionStatus    string           `json:"subscription_status" gorm:"not null;default:active"`
	SubscriptionExpiresAt *time.Time       `json:"subscription_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Members []Member `json:"members,omitempty" gorm:"foreignKey:TeamID"`
}

// TableName returns the database table name.
func (Team) TableName() string {
	return "teams"
}

// Member represents a team membership. The composite key makes every role or
// status change an atomic update-by-key, never a read-modify-write on an
// embedded list.
type Member struct {
	TeamID    uuid.UUID    `json:"team_id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID    `json:"user_id" gorm:"type:uuid;primaryKey"`
	Role      Role         `json:"role" gorm:"not null;default:editor"`
	Status    MemberStatus `json:"status" gorm:"not null;default:active"`
	JoinedAt  time.Time    `json:"joined_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName returns the database table name.
func (Member) TableName() string {
	return "team_members"
}

// IsActive reports whether the membership is active.
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// Invitation represents a pending invite to join a team.
type Invitation struct {
	ID           uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeamID       uuid.UUID        `json:"team_id" gorm:"type:uuid;not null"`
	InviterID    uuid.UUID        `json:"inviter_id" gorm:"type:uuid;not null"`
	InviteeEmail string           `json:"invitee_email" gorm:"not null"`
	Role         Role             `json:"role" gorm:"not null;default:editor"`
	Token        string           `json:"-" gorm:"not null;uniqueIndex"`
	Status       InvitationStatus `json:"status" gorm:"not null;default:pending"`
	ExpiresAt    time.Time        `json:"expires_at" gorm:"not null"`
	CreatedAt    time.Time        `json:"created_at"`
	AcceptedAt   *time.Time       `json:"accepted_at,omitempty"`
}

// TableName returns the database table name.
func (Invitation) TableName() string {
	return "team_invitations"
}

// IsExpired reports whether the invitation has expired.
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending reports whether the invitation is still pending.
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationStatusPending
}
