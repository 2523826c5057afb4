package notification

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/videoflow/server/internal/shared/config"
)

// MetricsRecorder records email delivery outcomes.
type MetricsRecorder interface {
	RecordEmail(template string, err error)
}

// GomailSender delivers emails over SMTP.
type GomailSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// NewGomailSender creates an SMTP email sender.
func NewGomailSender(cfg *config.SMTPConfig, metrics MetricsRecorder, logger *zap.Logger) *GomailSender {
	return &GomailSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *GomailSender) SendVideoUploaded(ctx context.Context, to string, data *VideoEmail) error {
	return s.send(ctx, templateVideoUploaded, to, data)
}

func (s *GomailSender) SendVideoApproved(ctx context.Context, to string, data *VideoEmail) error {
	return s.send(ctx, templateVideoApproved, to, data)
}

func (s *GomailSender) SendVideoRejected(ctx context.Context, to string, data *VideoEmail) error {
	return s.send(ctx, templateVideoRejected, to, data)
}

func (s *GomailSender) SendVideoPublished(ctx context.Context, to string, data *VideoEmail) error {
	return s.send(ctx, templateVideoPublished, to, data)
}

func (s *GomailSender) SendTeamInvitation(ctx context.Context, to string, data *InvitationEmail) error {
	return s.send(ctx, templateTeamInvitation, to, data)
}

func (s *GomailSender) send(ctx context.Context, tmpl, to string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body, err := render(tmpl, data)
	if err != nil {
		s.metrics.RecordEmail(tmpl, err)
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, s.fromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	err = s.dialer.DialAndSend(m)
	s.metrics.RecordEmail(tmpl, err)
	if err != nil {
		return fmt.Errorf("send %s email: %w", tmpl, err)
	}
	return nil
}

func render(tmpl string, data any) (subject, body string, err error) {
	subjTmpl, ok := subjectTemplates[tmpl]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %s", tmpl)
	}

	var subjBuf bytes.Buffer
	if err := subjTmpl.Execute(&subjBuf, data); err != nil {
		return "", "", fmt.Errorf("render subject %s: %w", tmpl, err)
	}

	var bodyBuf bytes.Buffer
	if err := bodies.ExecuteTemplate(&bodyBuf, tmpl, data); err != nil {
		return "", "", fmt.Errorf("render body %s: %w", tmpl, err)
	}

	return subjBuf.String(), bodyBuf.String(), nil
}
