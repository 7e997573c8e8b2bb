// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/logging"
)

// WebhookService processes provider webhook events after signature
// verification. Events about meetings this service never started are
// acknowledged and dropped so the provider does not retry them.
type WebhookService struct {
	MeetingRepository domain.MeetingRepository
	BookingRepository domain.BookingRepository
	MeetingService    *MeetingService
	EmailService      domain.EmailService
	MessageBuilder    domain.MessageBuilder
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(
	meetingRepository domain.MeetingRepository,
	bookingRepository domain.BookingRepository,
	meetingService *MeetingService,
	emailService domain.EmailService,
	messageBuilder domain.MessageBuilder,
) *WebhookService {
	return &WebhookService{
		MeetingRepository: meetingRepository,
		BookingRepository: bookingRepository,
		MeetingService:    meetingService,
		EmailService:      emailService,
		MessageBuilder:    messageBuilder,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *WebhookService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.BookingRepository != nil &&
		s.MeetingService != nil &&
		s.EmailService != nil &&
		s.MessageBuilder != nil
}

// ProcessEvent dispatches a verified webhook envelope by event type.
// Unrecognized event types are logged and ignored.
func (s *WebhookService) ProcessEvent(ctx context.Context, envelope *models.WebhookEnvelope) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.ErrServiceUnavailable
	}

	ctx = logging.AppendCtx(ctx, slog.String("webhook_event", envelope.Event))

	switch envelope.Event {
	case models.WebhookEventMeetingEnded:
		return s.processMeetingEnded(ctx, envelope)
	case models.WebhookEventRecordingCompleted:
		return s.processRecordingCompleted(ctx, envelope)
	default:
		slog.DebugContext(ctx, "ignoring unhandled webhook event type")
		return nil
	}
}

// processMeetingEnded finalizes the local meeting when the provider reports
// the session over. Unknown meetings and already-ended meetings are no-ops.
func (s *WebhookService) processMeetingEnded(ctx context.Context, envelope *models.WebhookEnvelope) error {
	payload, err := envelope.ToMeetingEndedPayload()
	if err != nil {
		slog.ErrorContext(ctx, "invalid meeting ended payload", logging.ErrKey, err)
		return domain.NewValidationError("invalid meeting ended payload", err)
	}

	_, err = s.MeetingService.EndMeetingFromProvider(ctx, payload.Object.ID, payload.Object.EndTime.UTC(), payload.Object.Duration)
	if errors.Is(err, domain.ErrMeetingNotFound) {
		slog.DebugContext(ctx, "meeting ended event for unknown meeting, ignoring",
			"provider_meeting_id", payload.Object.ID)
		return nil
	}
	return err
}

// processRecordingCompleted records the preferred recording's URL and tells
// the client it is available. Redelivery overwrites the same URL and may
// re-notify, which is acceptable.
func (s *WebhookService) processRecordingCompleted(ctx context.Context, envelope *models.WebhookEnvelope) error {
	payload, err := envelope.ToRecordingCompletedPayload()
	if err != nil {
		slog.ErrorContext(ctx, "invalid recording completed payload", logging.ErrKey, err)
		return domain.NewValidationError("invalid recording completed payload", err)
	}

	providerMeetingID := strconv.FormatInt(payload.Object.ID, 10)
	ctx = logging.AppendCtx(ctx, slog.String("provider_meeting_id", providerMeetingID))

	meeting, err := s.MeetingRepository.GetByProviderMeetingID(ctx, providerMeetingID)
	if errors.Is(err, domain.ErrMeetingNotFound) {
		slog.DebugContext(ctx, "recording completed event for unknown meeting, ignoring")
		return nil
	}
	if err != nil {
		return err
	}

	file := payload.PreferredRecordingFile()
	if file == nil || file.URL() == "" {
		slog.WarnContext(ctx, "recording completed event carried no usable recording file")
		return nil
	}

	meeting, err = s.MeetingService.RecordRecordingURL(ctx, meeting.UID, file.URL())
	if err != nil {
		return err
	}

	s.sendRecordingReadyEmail(ctx, meeting)

	if err := s.MessageBuilder.SendRecordingReady(ctx, models.MeetingEventMessage{
		MeetingUID:        meeting.UID,
		BookingUID:        meeting.BookingUID,
		ProviderMeetingID: meeting.ProviderMeetingID,
		Status:            string(meeting.Status),
		RecordingURL:      meeting.RecordingURL,
		OccurredAt:        payload.Object.StartTime.UTC(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish recording ready event", logging.ErrKey, err)
	}

	return nil
}

func (s *WebhookService) sendRecordingReadyEmail(ctx context.Context, meeting *models.Meeting) {
	booking, err := s.BookingRepository.Get(ctx, meeting.BookingUID)
	if err != nil {
		slog.WarnContext(ctx, "could not load booking for recording notification", logging.ErrKey, err)
		return
	}
	if booking.ClientEmail == "" {
		return
	}

	err = s.EmailService.SendRecordingReady(ctx, domain.EmailRecordingReady{
		RecipientEmail: booking.ClientEmail,
		RecipientName:  booking.ClientName,
		Topic:          meeting.Topic,
		RecordingURL:   meeting.RecordingURL,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send recording ready email", logging.ErrKey, err)
	}
}
