package team

import "errors"

var (
	ErrTeamNotFound               = errors.New("team not found")
	ErrMemberNotFound             = errors.New("member not found")
	ErrAlreadyMember              = errors.New("user is already a member")
	ErrInsufficientPermission     = errors.New("insufficient permission")
	ErrCannotAssignCreator        = errors.New("creator role is assigned only via transfer")
	ErrCannotRemoveCreator        = errors.New("cannot remove the team creator")
	ErrNotSoleMember              = errors.New("team has more than one member")
	ErrInvalidRole                = errors.New("invalid role")
	ErrInvitationNotFound         = errors.New("invitation not found")
	ErrInvitationExpired          = errors.New("invitation expired")
	ErrInvitationAlreadyProcessed = errors.New("invitation already processed")
	ErrInvitationAlreadyPending   = errors.New("invitation already pending")
	ErrInvitationNotForYou        = errors.New("invitation addressed to a different email")
)
