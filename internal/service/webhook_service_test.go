// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
)

func newWebhookService(t *testing.T) (*WebhookService, *meetingServiceMocks) {
	t.Helper()

	meetingService, m := newMeetingService(t)
	service := NewWebhookService(m.meetingRepo, m.bookingRepo, meetingService, m.emailService, m.messageBuilder)
	return service, m
}

func envelope(t *testing.T, event string, payload any) *models.WebhookEnvelope {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &models.WebhookEnvelope{
		Event:   event,
		EventTs: time.Now().UnixMilli(),
		Payload: raw,
	}
}

func TestWebhookService_ProcessEvent_UnknownType(t *testing.T) {
	service, _ := newWebhookService(t)

	err := service.ProcessEvent(context.Background(), &models.WebhookEnvelope{
		Event:   "meeting.participant_joined",
		Payload: json.RawMessage(`{}`),
	})
	assert.NoError(t, err)
}

func TestWebhookService_MeetingEnded(t *testing.T) {
	service, m := newWebhookService(t)

	meeting := &models.Meeting{
		UID:               "meeting-123",
		BookingUID:        "booking-456",
		ProviderMeetingID: "987654321",
		Status:            models.MeetingStatusActive,
		StartedAt:         time.Now().Add(-time.Hour),
	}

	m.meetingRepo.On("GetByProviderMeetingID", mock.Anything, "987654321").Return(meeting, nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "meeting-123").Return(meeting, uint64(1), nil)
	m.meetingRepo.On("Update", mock.Anything, mock.MatchedBy(func(mtg *models.Meeting) bool {
		return mtg.Status == models.MeetingStatusEnded && mtg.DurationMinutes == 55
	}), uint64(1)).Return(nil)
	m.waitingRepo.On("ListByMeeting", mock.Anything, "meeting-123").Return([]*models.WaitingRoomEntry{}, nil)
	m.messageBuilder.On("SendMeetingEnded", mock.Anything, mock.Anything).Return(nil)

	err := service.ProcessEvent(context.Background(), envelope(t, models.WebhookEventMeetingEnded, map[string]any{
		"object": map[string]any{
			"id":       "987654321",
			"end_time": time.Now().Format(time.RFC3339),
			"duration": 55,
		},
	}))
	require.NoError(t, err)
	m.meetingRepo.AssertExpectations(t)
}

func TestWebhookService_MeetingEnded_UnknownMeeting(t *testing.T) {
	service, m := newWebhookService(t)

	m.meetingRepo.On("GetByProviderMeetingID", mock.Anything, "111111111").
		Return(nil, domain.ErrMeetingNotFound)

	// Events about sessions this service never started are acknowledged so
	// the provider stops retrying.
	err := service.ProcessEvent(context.Background(), envelope(t, models.WebhookEventMeetingEnded, map[string]any{
		"object": map[string]any{
			"id":       "111111111",
			"end_time": time.Now().Format(time.RFC3339),
		},
	}))
	assert.NoError(t, err)
}

func TestWebhookService_RecordingCompleted(t *testing.T) {
	service, m := newWebhookService(t)

	meeting := &models.Meeting{
		UID:               "meeting-123",
		BookingUID:        "booking-456",
		ProviderMeetingID: "987654321",
		Topic:             "Tax consultation with Jane Doe",
		Status:            models.MeetingStatusEnded,
	}
	booking := &models.Booking{
		UID:         "booking-456",
		ClientName:  "Jane Doe",
		ClientEmail: "jane@example.com",
	}

	m.meetingRepo.On("GetByProviderMeetingID", mock.Anything, "987654321").Return(meeting, nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "meeting-123").Return(meeting, uint64(3), nil)
	m.meetingRepo.On("Update", mock.Anything, mock.MatchedBy(func(mtg *models.Meeting) bool {
		return mtg.RecordingURL == "https://zoom.example/rec/play/video"
	}), uint64(3)).Return(nil)
	m.bookingRepo.On("Get", mock.Anything, "booking-456").Return(booking, nil)
	m.emailService.On("SendRecordingReady", mock.Anything, mock.MatchedBy(func(n domain.EmailRecordingReady) bool {
		return n.RecipientEmail == "jane@example.com" &&
			n.RecordingURL == "https://zoom.example/rec/play/video"
	})).Return(nil)
	m.messageBuilder.On("SendRecordingReady", mock.Anything, mock.AnythingOfType("models.MeetingEventMessage")).Return(nil)

	// The audio-only file comes first; the speaker-view video must win.
	err := service.ProcessEvent(context.Background(), envelope(t, models.WebhookEventRecordingCompleted, map[string]any{
		"object": map[string]any{
			"id":         987654321,
			"start_time": time.Now().Add(-time.Hour).Format(time.RFC3339),
			"recording_files": []map[string]any{
				{
					"id":             "rec-audio",
					"file_type":      "M4A",
					"recording_type": "audio_only",
					"play_url":       "https://zoom.example/rec/play/audio",
				},
				{
					"id":             "rec-video",
					"file_type":      "MP4",
					"recording_type": "shared_screen_with_speaker_view",
					"play_url":       "https://zoom.example/rec/play/video",
				},
			},
		},
	}))
	require.NoError(t, err)
	m.emailService.AssertExpectations(t)
	m.messageBuilder.AssertExpectations(t)
}

func TestWebhookService_RecordingCompleted_UnknownMeeting(t *testing.T) {
	service, m := newWebhookService(t)

	m.meetingRepo.On("GetByProviderMeetingID", mock.Anything, "111111111").
		Return(nil, domain.ErrMeetingNotFound)

	err := service.ProcessEvent(context.Background(), envelope(t, models.WebhookEventRecordingCompleted, map[string]any{
		"object": map[string]any{
			"id": 111111111,
			"recording_files": []map[string]any{
				{"id": "rec-1", "file_type": "MP4", "play_url": "https://zoom.example/rec/play/rec-1"},
			},
		},
	}))
	assert.NoError(t, err)
	m.emailService.AssertNotCalled(t, "SendRecordingReady", mock.Anything, mock.Anything)
}

func TestWebhookService_RecordingCompleted_NoFiles(t *testing.T) {
	service, m := newWebhookService(t)

	meeting := &models.Meeting{
		UID:               "meeting-123",
		ProviderMeetingID: "987654321",
		Status:            models.MeetingStatusEnded,
	}
	m.meetingRepo.On("GetByProviderMeetingID", mock.Anything, "987654321").Return(meeting, nil)

	err := service.ProcessEvent(context.Background(), envelope(t, models.WebhookEventRecordingCompleted, map[string]any{
		"object": map[string]any{
			"id":              987654321,
			"recording_files": []map[string]any{},
		},
	}))
	assert.NoError(t, err)
	m.meetingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
