package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's individual default role, assigned at registration. All
// in-team authorization uses the team-scoped role instead; this value only
// seeds the first team membership.
type Role string

const (
	RoleCreator Role = "creator"
	RoleEditor  Role = "editor"
	RoleManager Role = "manager"
)

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	switch r {
	case RoleCreator, RoleEditor, RoleManager:
		return true
	default:
		return false
	}
}

// User represents a registered account.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	Name         string     `json:"name" gorm:"not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"not null;default:editor"`
	TeamID       *uuid.UUID `json:"team_id,omitempty" gorm:"type:uuid;index"`

	// YouTube connection, present only on team owners that completed the
	// OAuth flow. Channel fields are a metadata cache, not a source of truth.
	YouTubeAccessToken  *string    `json:"-"`
	YouTubeRefreshToken *string    `json:"-"`
	YouTubeTokenExpiry  *time.Time `json:"-"`
	YouTubeChannelID    *string    `json:"youtube_channel_id,omitempty"`
	YouTubeChannelTitle *string    `json:"youtube_channel_title,omitempty"`
	YouTubeConnectedAt  *time.Time `json:"youtube_connected_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// YouTubeConnected reports whether the user has a stored YouTube token pair.
func (u *User) YouTubeConnected() bool {
	return u.YouTubeAccessToken != nil && u.YouTubeRefreshToken != nil
}
