package user

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=creator editor manager"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the profile update payload.
type UpdateProfileRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
}

// ChangePasswordRequest is the password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// Response is the public view of a user.
type Response struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Role             string     `json:"role"`
	TeamID           *uuid.UUID `json:"team_id,omitempty"`
	YouTubeConnected bool       `json:"youtube_connected"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToResponse converts a user to its public view. role is the effective
// team-scoped role resolved for the request.
func (u *User) ToResponse(role string) Response {
	return Response{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             role,
		TeamID:           u.TeamID,
		YouTubeConnected: u.YouTubeConnected(),
		CreatedAt:        u.CreatedAt,
	}
}
