package notification

import "context"

// VideoEmail is the data rendered into video lifecycle emails.
type VideoEmail struct {
	VideoTitle string
	VideoURL   string
	Reason     string
	YouTubeURL string
}

// InvitationEmail is the data rendered into team invitation emails.
type InvitationEmail struct {
	InviterName string
	TeamName    string
	AcceptURL   string
}

// EmailSender delivers transactional emails. Implementations must be safe
// for concurrent use.
type EmailSender interface {
	SendVideoUploaded(ctx context.Context, to string, data *VideoEmail) error
	SendVideoApproved(ctx context.Context, to string, data *VideoEmail) error
	SendVideoRejected(ctx context.Context, to string, data *VideoEmail) error
	SendVideoPublished(ctx context.Context, to string, data *VideoEmail) error
	SendTeamInvitation(ctx context.Context, to string, data *InvitationEmail) error
}
