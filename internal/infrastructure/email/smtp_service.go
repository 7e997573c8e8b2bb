// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/logging"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config    SMTPConfig
	templates Templates
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // Optional for authenticated SMTP
	Password string // Optional for authenticated SMTP
}

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	return &SMTPService{
		config:    config,
		templates: templates,
	}, nil
}

// SendMeetingStarted notifies a client that their consultation has started
// and gives them their join link.
func (s *SMTPService) SendMeetingStarted(ctx context.Context, notification domain.EmailMeetingStarted) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notification.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("topic", notification.Topic))

	htmlContent, err := renderTemplate(s.templates.MeetingStarted.HTML, notification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render HTML template", logging.ErrKey, err)
		return fmt.Errorf("failed to render HTML template: %w", err)
	}

	textContent, err := renderTemplate(s.templates.MeetingStarted.Text, notification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render text template", logging.ErrKey, err)
		return fmt.Errorf("failed to render text template: %w", err)
	}

	subject := fmt.Sprintf("Your consultation has started: %s", notification.Topic)
	message := buildEmailMessage(notification.RecipientEmail, subject, htmlContent, textContent, s.config)
	err = sendEmailMessage(notification.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send meeting started email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "meeting started email sent successfully")
	return nil
}

// SendRecordingReady notifies a client that their consultation recording is
// available.
func (s *SMTPService) SendRecordingReady(ctx context.Context, notification domain.EmailRecordingReady) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notification.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("topic", notification.Topic))

	htmlContent, err := renderTemplate(s.templates.RecordingReady.HTML, notification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render recording HTML template", logging.ErrKey, err)
		return fmt.Errorf("failed to render recording HTML template: %w", err)
	}

	textContent, err := renderTemplate(s.templates.RecordingReady.Text, notification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render recording text template", logging.ErrKey, err)
		return fmt.Errorf("failed to render recording text template: %w", err)
	}

	subject := fmt.Sprintf("Recording available: %s", notification.Topic)
	message := buildEmailMessage(notification.RecipientEmail, subject, htmlContent, textContent, s.config)
	err = sendEmailMessage(notification.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send recording ready email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "recording ready email sent successfully")
	return nil
}
