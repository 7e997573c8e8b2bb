// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Webhook event types delivered by the conferencing provider.
const (
	WebhookEventURLValidation      = "endpoint.url_validation"
	WebhookEventMeetingEnded       = "meeting.ended"
	WebhookEventRecordingCompleted = "recording.completed"
)

// WebhookEnvelope is the outer shape of every provider webhook delivery.
// Payload is kept raw so each event type can be decoded after dispatch.
type WebhookEnvelope struct {
	Event   string          `json:"event"`
	EventTs int64           `json:"event_ts"`
	Payload json.RawMessage `json:"payload"`
}

// URLValidationPayload is the payload of the provider's one-time
// endpoint validation challenge.
type URLValidationPayload struct {
	PlainToken string `json:"plainToken"`
}

// URLValidationResponse is the expected challenge response body.
type URLValidationResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}

// MeetingEndedPayload represents the payload for meeting.ended webhook events
type MeetingEndedPayload struct {
	Object struct {
		UUID      string    `json:"uuid"`
		ID        string    `json:"id"` // the provider sends the meeting id as a string in webhook events
		HostID    string    `json:"host_id"`
		Topic     string    `json:"topic"`
		Type      int       `json:"type"`
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
		Duration  int       `json:"duration"`
		Timezone  string    `json:"timezone"`
	} `json:"object"`
}

// RecordingCompletedPayload represents the payload for recording.completed webhook events
type RecordingCompletedPayload struct {
	Object struct {
		UUID           string          `json:"uuid"`
		ID             int64           `json:"id"`
		HostID         string          `json:"host_id"`
		Topic          string          `json:"topic"`
		Type           int             `json:"type"`
		StartTime      time.Time       `json:"start_time"`
		Timezone       string          `json:"timezone"`
		Duration       int             `json:"duration"`
		TotalSize      int64           `json:"total_size"`
		RecordingCount int             `json:"recording_count"`
		ShareURL       string          `json:"share_url"`
		RecordingFiles []RecordingFile `json:"recording_files"`
	} `json:"object"`
}

// RecordingFile represents a recording file in webhook payloads
type RecordingFile struct {
	ID             string    `json:"id"`
	MeetingID      string    `json:"meeting_id"`
	RecordingStart time.Time `json:"recording_start"`
	RecordingEnd   time.Time `json:"recording_end"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	PlayURL        string    `json:"play_url"`
	DownloadURL    string    `json:"download_url"`
	Status         string    `json:"status"`
	RecordingType  string    `json:"recording_type"`
}

// URL returns the address clients should use to watch the recording file.
func (f RecordingFile) URL() string {
	if f.PlayURL != "" {
		return f.PlayURL
	}
	return f.DownloadURL
}

// ToURLValidationPayload decodes the envelope payload as a URL validation challenge.
func (e *WebhookEnvelope) ToURLValidationPayload() (*URLValidationPayload, error) {
	var payload URLValidationPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse url validation payload: %w", err)
	}
	return &payload, nil
}

// ToMeetingEndedPayload decodes the envelope payload as a meeting.ended event.
func (e *WebhookEnvelope) ToMeetingEndedPayload() (*MeetingEndedPayload, error) {
	var payload MeetingEndedPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse meeting ended payload: %w", err)
	}
	return &payload, nil
}

// ToRecordingCompletedPayload decodes the envelope payload as a recording.completed event.
func (e *WebhookEnvelope) ToRecordingCompletedPayload() (*RecordingCompletedPayload, error) {
	var payload RecordingCompletedPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse recording completed payload: %w", err)
	}
	return &payload, nil
}

// PreferredRecordingFile selects the recording file whose URL should be
// surfaced to the client: a full shared-screen-with-speaker-view video when
// present, otherwise any MP4, otherwise the first file.
func (p *RecordingCompletedPayload) PreferredRecordingFile() *RecordingFile {
	files := p.Object.RecordingFiles
	if len(files) == 0 {
		return nil
	}
	for i := range files {
		if files[i].RecordingType == "shared_screen_with_speaker_view" {
			return &files[i]
		}
	}
	for i := range files {
		if files[i].FileType == "MP4" {
			return &files[i]
		}
	}
	return &files[0]
}
