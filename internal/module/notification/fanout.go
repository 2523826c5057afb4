package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/module/video"
)

// sendTimeout bounds each delivery attempt; the triggering request has
// already returned by the time emails go out.
const sendTimeout = 30 * time.Second

// RecipientResolver resolves who in a team should receive a notification.
type RecipientResolver interface {
	ActiveMemberEmails(ctx context.Context, teamID uuid.UUID, exclude uuid.UUID) ([]string, error)
}

// Notifier fans lifecycle emails out to team members. Sends happen in the
// background; failures are logged, never surfaced to the caller.
type Notifier struct {
	sender      EmailSender
	recipients  RecipientResolver
	frontendURL string
	logger      *zap.Logger
}

// NewNotifier creates a notification fan-out.
func NewNotifier(sender EmailSender, recipients RecipientResolver, frontendURL string, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:      sender,
		recipients:  recipients,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// VideoUploaded notifies active members, minus the uploader, of a new
// pending video.
func (n *Notifier) VideoUploaded(ctx context.Context, teamID, exclude uuid.UUID, v *video.Video) {
	n.fanOut(teamID, exclude, templateVideoUploaded, n.videoEmail(v), n.sender.SendVideoUploaded)
}

// VideoApproved notifies active members, minus the approver.
func (n *Notifier) VideoApproved(ctx context.Context, teamID, exclude uuid.UUID, v *video.Video) {
	n.fanOut(teamID, exclude, templateVideoApproved, n.videoEmail(v), n.sender.SendVideoApproved)
}

// VideoRejected notifies active members, minus the rejecter.
func (n *Notifier) VideoRejected(ctx context.Context, teamID, exclude uuid.UUID, v *video.Video) {
	n.fanOut(teamID, exclude, templateVideoRejected, n.videoEmail(v), n.sender.SendVideoRejected)
}

// VideoPublished notifies active members, minus the uploader.
func (n *Notifier) VideoPublished(ctx context.Context, teamID, exclude uuid.UUID, v *video.Video) {
	n.fanOut(teamID, exclude, templateVideoPublished, n.videoEmail(v), n.sender.SendVideoPublished)
}

// SendTeamInvitation delivers a single invitation email. It satisfies the
// team module's mailer contract.
func (n *Notifier) SendTeamInvitation(ctx context.Context, to, inviterName, teamName, token string) error {
	return n.sender.SendTeamInvitation(ctx, to, &InvitationEmail{
		InviterName: inviterName,
		TeamName:    teamName,
		AcceptURL:   fmt.Sprintf("%s/invitations/%s", n.frontendURL, token),
	})
}

func (n *Notifier) videoEmail(v *video.Video) *VideoEmail {
	return &VideoEmail{
		VideoTitle: v.Title,
		VideoURL:   fmt.Sprintf("%s/videos/%s", n.frontendURL, v.ID),
		Reason:     v.RejectionReason,
		YouTubeURL: v.YouTubeURL,
	}
}

func (n *Notifier) fanOut(teamID, exclude uuid.UUID, tmpl string, data *VideoEmail, send func(context.Context, string, *VideoEmail) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		emails, err := n.recipients.ActiveMemberEmails(ctx, teamID, exclude)
		if err != nil {
			n.logger.Warn("resolving notification recipients failed",
				zap.String("team_id", teamID.String()),
				zap.String("template", tmpl),
				zap.Error(err),
			)
			return
		}

		for _, to := range emails {
			go func(to string) {
				sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
				defer cancel()
				if err := send(sendCtx, to, data); err != nil {
					n.logger.Warn("notification email failed",
						zap.String("template", tmpl),
						zap.String("to", to),
						zap.Error(err),
					)
				}
			}(to)
		}
	}()
}
