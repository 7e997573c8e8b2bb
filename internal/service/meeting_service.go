// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/infrastructure/auth"
	"github.com/advisorly/consult-service/internal/logging"
)

// MeetingService owns the meeting lifecycle: starting sessions against the
// conferencing provider, ending them, and recording their artifacts.
type MeetingService struct {
	BookingRepository domain.BookingRepository
	MeetingRepository domain.MeetingRepository
	ProviderAPI       domain.ProviderAPI
	EmailService      domain.EmailService
	MessageBuilder    domain.MessageBuilder
	TokenIssuer       *auth.Issuer
	AdmissionService  *AdmissionService
	Config            ServiceConfig
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	bookingRepository domain.BookingRepository,
	meetingRepository domain.MeetingRepository,
	providerAPI domain.ProviderAPI,
	emailService domain.EmailService,
	messageBuilder domain.MessageBuilder,
	tokenIssuer *auth.Issuer,
	admissionService *AdmissionService,
	config ServiceConfig,
) *MeetingService {
	return &MeetingService{
		BookingRepository: bookingRepository,
		MeetingRepository: meetingRepository,
		ProviderAPI:       providerAPI,
		EmailService:      emailService,
		MessageBuilder:    messageBuilder,
		TokenIssuer:       tokenIssuer,
		AdmissionService:  admissionService,
		Config:            config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingService) ServiceReady() bool {
	return s.BookingRepository != nil &&
		s.MeetingRepository != nil &&
		s.ProviderAPI != nil &&
		s.EmailService != nil &&
		s.MessageBuilder != nil &&
		s.TokenIssuer != nil &&
		s.AdmissionService != nil
}

// StartMeeting creates a session with the conferencing provider for a booking
// and records it locally. The provider call happens before the local write so
// a local failure never leaves a booking pointing at a session that does not
// exist; the inverse case is logged critical for manual cleanup.
func (s *MeetingService) StartMeeting(ctx context.Context, bookingUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	ctx = logging.AppendCtx(ctx, slog.String("booking_uid", bookingUID))

	booking, bookingRevision, err := s.BookingRepository.GetWithRevision(ctx, bookingUID)
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusCancelled || booking.Status == models.BookingStatusCompleted {
		return nil, domain.NewConflictError(fmt.Sprintf("cannot start a meeting for a %s booking", booking.Status))
	}

	existing, err := s.MeetingRepository.GetActiveByBookingUID(ctx, bookingUID)
	if err != nil && !errors.Is(err, domain.ErrMeetingNotFound) {
		return nil, err
	}
	if existing != nil {
		slog.WarnContext(ctx, "booking already has an active meeting", "meeting_uid", existing.UID)
		return nil, domain.NewConflictError("booking already has an active meeting")
	}

	now := time.Now().UTC()
	topic := fmt.Sprintf("%s consultation with %s", booking.ServiceType, booking.ClientName)

	providerMeeting, err := s.ProviderAPI.CreateMeeting(ctx, domain.CreateProviderMeeting{
		Topic:           topic,
		StartTime:       now,
		DurationMinutes: s.Config.DefaultMeetingDurationMinutes,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create meeting with provider", logging.ErrKey, err)
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("provider_meeting_id", providerMeeting.ID))

	meeting := &models.Meeting{
		UID:               uuid.New().String(),
		BookingUID:        bookingUID,
		ProviderMeetingID: providerMeeting.ID,
		JoinURL:           providerMeeting.JoinURL,
		StartURL:          providerMeeting.StartURL,
		Password:          providerMeeting.Password,
		Topic:             topic,
		Status:            models.MeetingStatusActive,
		StartedAt:         now,
		CreatedAt:         &now,
		UpdatedAt:         &now,
	}

	if err := s.MeetingRepository.Create(ctx, meeting); err != nil {
		// The provider session exists but we could not record it. There is no
		// automatic retry of create because a blind retry could double-book
		// the client; this needs operator attention.
		slog.ErrorContext(ctx, "provider meeting created but local persist failed, manual cleanup required",
			logging.ErrKey, err,
			logging.PriorityCritical(),
			"meeting_uid", meeting.UID,
		)
		return nil, err
	}

	if booking.Status != models.BookingStatusConfirmed {
		booking.Status = models.BookingStatusConfirmed
		booking.UpdatedAt = &now
		if err := s.BookingRepository.Update(ctx, booking, bookingRevision); err != nil {
			slog.ErrorContext(ctx, "failed to confirm booking after meeting start", logging.ErrKey, err)
		}
	}

	s.sendMeetingStartedEmail(ctx, booking, meeting)

	if err := s.MessageBuilder.SendMeetingStarted(ctx, models.MeetingEventMessage{
		MeetingUID:        meeting.UID,
		BookingUID:        meeting.BookingUID,
		ProviderMeetingID: meeting.ProviderMeetingID,
		Status:            string(meeting.Status),
		OccurredAt:        now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish meeting started event", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "meeting started", "meeting_uid", meeting.UID)

	return meeting, nil
}

// sendMeetingStartedEmail notifies the client that the session is live. Send
// failures are logged and never fail the start operation.
func (s *MeetingService) sendMeetingStartedEmail(ctx context.Context, booking *models.Booking, meeting *models.Meeting) {
	if booking.ClientEmail == "" {
		return
	}

	token, err := s.TokenIssuer.IssueMeetingAccessToken(booking.UID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue meeting access token for email", logging.ErrKey, err)
		return
	}

	joinLink := fmt.Sprintf("%s/join/%s?access_token=%s",
		s.Config.ClientBaseURL, booking.UID, url.QueryEscape(token))

	err = s.EmailService.SendMeetingStarted(ctx, domain.EmailMeetingStarted{
		RecipientEmail: booking.ClientEmail,
		RecipientName:  booking.ClientName,
		Topic:          meeting.Topic,
		StartedAt:      meeting.StartedAt,
		JoinLink:       joinLink,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send meeting started email", logging.ErrKey, err)
	}
}

// EndMeeting finalizes a meeting on the advisor's request. Ending an already
// ended meeting returns it unchanged so retried requests are harmless.
func (s *MeetingService) EndMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	return s.endMeeting(ctx, meeting, revision, time.Now().UTC(), 0)
}

// EndMeetingFromProvider finalizes a meeting in response to the provider
// reporting it ended. When the provider supplies a positive duration it wins
// over the locally computed elapsed time.
func (s *MeetingService) EndMeetingFromProvider(ctx context.Context, providerMeetingID string, endedAt time.Time, providerDurationMinutes int) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	ctx = logging.AppendCtx(ctx, slog.String("provider_meeting_id", providerMeetingID))

	meeting, err := s.MeetingRepository.GetByProviderMeetingID(ctx, providerMeetingID)
	if err != nil {
		return nil, err
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meeting.UID)
	if err != nil {
		return nil, err
	}

	return s.endMeeting(ctx, meeting, revision, endedAt, providerDurationMinutes)
}

func (s *MeetingService) endMeeting(ctx context.Context, meeting *models.Meeting, revision uint64, endedAt time.Time, providerDurationMinutes int) (*models.Meeting, error) {
	if meeting.Status.IsTerminal() {
		slog.DebugContext(ctx, "meeting already ended, nothing to do", "meeting_uid", meeting.UID)
		return meeting, nil
	}

	if err := meeting.End(endedAt, providerDurationMinutes); err != nil {
		return nil, domain.NewConflictError("meeting cannot be ended", err)
	}

	err := s.MeetingRepository.Update(ctx, meeting, revision)
	if errors.Is(err, domain.ErrRevisionMismatch) {
		// Someone else wrote the meeting between our read and write. Re-read
		// and retry once; if the concurrent writer already ended it we are done.
		meeting, revision, err = s.MeetingRepository.GetWithRevision(ctx, meeting.UID)
		if err != nil {
			return nil, err
		}
		if meeting.Status.IsTerminal() {
			return meeting, nil
		}
		if err := meeting.End(endedAt, providerDurationMinutes); err != nil {
			return nil, domain.NewConflictError("meeting cannot be ended", err)
		}
		err = s.MeetingRepository.Update(ctx, meeting, revision)
	}
	if err != nil {
		return nil, err
	}

	if errs := s.AdmissionService.RejectAllWaiting(ctx, meeting.UID); len(errs) > 0 {
		for _, rejectErr := range errs {
			slog.ErrorContext(ctx, "failed to reject waiting room entry on meeting end", logging.ErrKey, rejectErr)
		}
	}

	if err := s.MessageBuilder.SendMeetingEnded(ctx, models.MeetingEventMessage{
		MeetingUID:        meeting.UID,
		BookingUID:        meeting.BookingUID,
		ProviderMeetingID: meeting.ProviderMeetingID,
		Status:            string(meeting.Status),
		DurationMinutes:   meeting.DurationMinutes,
		OccurredAt:        endedAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish meeting ended event", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "meeting ended",
		"meeting_uid", meeting.UID,
		"duration_minutes", meeting.DurationMinutes,
	)

	return meeting, nil
}

// GetActiveMeetingForBooking returns the booking's non-terminal meeting, or a
// NotFound error when there is none.
func (s *MeetingService) GetActiveMeetingForBooking(ctx context.Context, bookingUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	return s.MeetingRepository.GetActiveByBookingUID(ctx, bookingUID)
}

// RecordRecordingURL stores the recording link on a meeting. Redeliveries of
// the same recording event simply overwrite with the same value.
func (s *MeetingService) RecordRecordingURL(ctx context.Context, meetingUID, recordingURL string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	meeting.RecordingURL = recordingURL
	meeting.UpdatedAt = &now

	err = s.MeetingRepository.Update(ctx, meeting, revision)
	if errors.Is(err, domain.ErrRevisionMismatch) {
		// Last writer wins for the recording link; retry once on a lost race.
		meeting, revision, err = s.MeetingRepository.GetWithRevision(ctx, meetingUID)
		if err != nil {
			return nil, err
		}
		meeting.RecordingURL = recordingURL
		meeting.UpdatedAt = &now
		err = s.MeetingRepository.Update(ctx, meeting, revision)
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "recording URL recorded")

	return meeting, nil
}

// GetMeetings fetches all meetings.
func (s *MeetingService) GetMeetings(ctx context.Context) ([]*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	return s.MeetingRepository.ListAll(ctx)
}

// MeetingAnalytics aggregates lifecycle figures across all recorded meetings.
type MeetingAnalytics struct {
	TotalMeetings          int     `json:"total_meetings"`
	ActiveMeetings         int     `json:"active_meetings"`
	EndedMeetings          int     `json:"ended_meetings"`
	RecordedMeetings       int     `json:"recorded_meetings"`
	TotalDurationMinutes   int     `json:"total_duration_minutes"`
	AverageDurationMinutes float64 `json:"average_duration_minutes"`
}

// GetAnalytics computes meeting counts and duration aggregates for the admin
// dashboard. Durations only accumulate from ended meetings since active ones
// have none yet.
func (s *MeetingService) GetAnalytics(ctx context.Context) (*MeetingAnalytics, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	meetings, err := s.MeetingRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	analytics := &MeetingAnalytics{TotalMeetings: len(meetings)}
	for _, meeting := range meetings {
		if meeting.Status.IsTerminal() {
			analytics.EndedMeetings++
			analytics.TotalDurationMinutes += meeting.DurationMinutes
		} else {
			analytics.ActiveMeetings++
		}
		if meeting.RecordingURL != "" {
			analytics.RecordedMeetings++
		}
	}
	if analytics.EndedMeetings > 0 {
		analytics.AverageDurationMinutes = float64(analytics.TotalDurationMinutes) / float64(analytics.EndedMeetings)
	}

	return analytics, nil
}

// GetMeeting fetches a single meeting by UID.
func (s *MeetingService) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	return s.MeetingRepository.Get(ctx, meetingUID)
}

// DeleteMeeting removes a meeting record and best-effort deletes the provider
// session. Provider deletion failure does not block the local delete.
func (s *MeetingService) DeleteMeeting(ctx context.Context, meetingUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.ErrServiceUnavailable
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}

	if err := s.ProviderAPI.DeleteMeeting(ctx, meeting.ProviderMeetingID); err != nil {
		slog.WarnContext(ctx, "failed to delete provider meeting", logging.ErrKey, err)
	}

	return s.MeetingRepository.Delete(ctx, meetingUID, revision)
}

// GetRecordings fetches the provider's recording artifacts for a meeting.
// A nil slice means the provider has not processed any recordings yet.
func (s *MeetingService) GetRecordings(ctx context.Context, meetingUID string) ([]domain.ProviderRecording, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	return s.ProviderAPI.GetRecordings(ctx, meeting.ProviderMeetingID)
}

// JoinInfo is what a client needs to join their meeting through the
// provider's browser SDK.
type JoinInfo struct {
	Meeting   *models.Meeting
	Signature string
}

// GetJoinInfo returns the client's join details for a booking's active
// meeting: the meeting itself and an attendee-role SDK signature.
func (s *MeetingService) GetJoinInfo(ctx context.Context, bookingUID string) (*JoinInfo, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	meeting, err := s.MeetingRepository.GetActiveByBookingUID(ctx, bookingUID)
	if err != nil {
		return nil, err
	}

	signature, err := s.ProviderAPI.GenerateJoinSignature(meeting.ProviderMeetingID, domain.JoinRoleAttendee)
	if err != nil {
		return nil, err
	}

	return &JoinInfo{Meeting: meeting, Signature: signature}, nil
}

// GetHostSignature derives the advisor's client-SDK join credential for an
// active meeting.
func (s *MeetingService) GetHostSignature(ctx context.Context, meetingUID string) (string, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return "", domain.ErrServiceUnavailable
	}

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return "", err
	}

	if meeting.Status.IsTerminal() {
		return "", domain.NewConflictError("meeting has already ended")
	}

	return s.ProviderAPI.GenerateJoinSignature(meeting.ProviderMeetingID, domain.JoinRoleHost)
}
