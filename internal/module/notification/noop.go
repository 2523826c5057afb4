package notification

import (
	"context"

	"go.uber.org/zap"
)

// NoOpSender logs instead of sending. Used when SMTP is disabled, which
// includes local development and tests.
type NoOpSender struct {
	logger *zap.Logger
}

// NewNoOpSender creates a logging-only sender.
func NewNoOpSender(logger *zap.Logger) *NoOpSender {
	return &NoOpSender{logger: logger}
}

func (s *NoOpSender) SendVideoUploaded(_ context.Context, to string, data *VideoEmail) error {
	s.log(templateVideoUploaded, to, data.VideoTitle)
	return nil
}

func (s *NoOpSender) SendVideoApproved(_ context.Context, to string, data *VideoEmail) error {
	s.log(templateVideoApproved, to, data.VideoTitle)
	return nil
}

func (s *NoOpSender) SendVideoRejected(_ context.Context, to string, data *VideoEmail) error {
	s.log(templateVideoRejected, to, data.VideoTitle)
	return nil
}

func (s *NoOpSender) SendVideoPublished(_ context.Context, to string, data *VideoEmail) error {
	s.log(templateVideoPublished, to, data.VideoTitle)
	return nil
}

func (s *NoOpSender) SendTeamInvitation(_ context.Context, to string, data *InvitationEmail) error {
	s.log(templateTeamInvitation, to, data.TeamName)
	return nil
}

func (s *NoOpSender) log(tmpl, to, subject string) {
	s.logger.Info("email suppressed",
		zap.String("template", tmpl),
		zap.String("to", to),
		zap.String("subject", subject),
	)
}
