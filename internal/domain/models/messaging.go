// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package models

import "time"

// NATS subjects for meeting lifecycle events published by this service.
const (
	MeetingStartedSubject        = "consult.meeting.started"
	MeetingEndedSubject          = "consult.meeting.ended"
	MeetingRecordingReadySubject = "consult.meeting.recording_ready"
)

// MeetingEventMessage is the body published to NATS when a meeting
// changes state. Downstream consumers (analytics, CRM sync) subscribe
// to the subjects above.
type MeetingEventMessage struct {
	MeetingUID        string    `json:"meeting_uid"`
	BookingUID        string    `json:"booking_uid"`
	ProviderMeetingID string    `json:"provider_meeting_id"`
	Status            string    `json:"status"`
	DurationMinutes   int       `json:"duration_minutes,omitempty"`
	RecordingURL      string    `json:"recording_url,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
