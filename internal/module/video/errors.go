package video

import "errors"

var (
	// ErrVideoNotFound is returned when a video does not exist or belongs
	// to another team.
	ErrVideoNotFound = errors.New("video not found")
	// ErrInsufficientPermission is returned when the actor's team role does
	// not allow the operation.
	ErrInsufficientPermission = errors.New("insufficient permission")
	// ErrInvalidTransition is returned for a transition the state machine
	// forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrReasonRequired is returned when a rejection carries no reason.
	ErrReasonRequired = errors.New("rejection reason required")
	// ErrYouTubeNotConnected is returned when the team owner has not
	// connected a YouTube account.
	ErrYouTubeNotConnected = errors.New("youtube account not connected")
	// ErrPublishUnavailable is returned while the publish circuit breaker
	// is open.
	ErrPublishUnavailable = errors.New("publishing temporarily unavailable")
)
