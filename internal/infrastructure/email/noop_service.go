// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/logging"
)

// NoOpService is a no-operation email service that logs but doesn't send emails
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// SendMeetingStarted logs the notification but doesn't send an email
func (s *NoOpService) SendMeetingStarted(ctx context.Context, notification domain.EmailMeetingStarted) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notification.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("topic", notification.Topic))

	slog.DebugContext(ctx, "email service disabled, skipping meeting started email")
	return nil
}

// SendRecordingReady logs the notification but doesn't send an email
func (s *NoOpService) SendRecordingReady(ctx context.Context, notification domain.EmailRecordingReady) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notification.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("topic", notification.Topic))

	slog.DebugContext(ctx, "email service disabled, skipping recording ready email")
	return nil
}
