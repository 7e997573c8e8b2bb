// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"math"
	"time"
)

// MeetingStatus is the closed set of states a meeting can be in.
// A meeting is created active and transitions to ended exactly once;
// ended is terminal.
type MeetingStatus string

const (
	MeetingStatusActive MeetingStatus = "active"
	MeetingStatusEnded  MeetingStatus = "ended"
)

// IsValid reports whether the status is one of the known meeting states.
func (s MeetingStatus) IsValid() bool {
	return s == MeetingStatusActive || s == MeetingStatusEnded
}

// IsTerminal reports whether the status admits no further transitions.
func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingStatusEnded
}

// Meeting is the key-value store representation of one video session
// bound to exactly one booking.
type Meeting struct {
	UID               string        `json:"uid"`
	BookingUID        string        `json:"booking_uid"`
	ProviderMeetingID string        `json:"provider_meeting_id"`
	JoinURL           string        `json:"join_url,omitempty"`
	StartURL          string        `json:"start_url,omitempty"`
	Password          string        `json:"password,omitempty"`
	Topic             string        `json:"topic,omitempty"`
	Status            MeetingStatus `json:"status"`
	StartedAt         time.Time     `json:"started_at"`
	EndedAt           *time.Time    `json:"ended_at,omitempty"`
	DurationMinutes   int           `json:"duration_minutes,omitempty"`
	RecordingURL      string        `json:"recording_url,omitempty"`
	CreatedAt         *time.Time    `json:"created_at,omitempty"`
	UpdatedAt         *time.Time    `json:"updated_at,omitempty"`
}

// End transitions the meeting to ended, finalizing the duration.
// The duration is taken from providerDurationMinutes when positive,
// otherwise computed from the elapsed time since StartedAt.
// Calling End on an already-ended meeting is rejected; callers that need
// idempotence check Status first and treat ended as a no-op.
func (m *Meeting) End(endedAt time.Time, providerDurationMinutes int) error {
	if m.Status != MeetingStatusActive {
		return fmt.Errorf("cannot end meeting in status %q", m.Status)
	}

	duration := providerDurationMinutes
	if duration <= 0 {
		duration = int(math.Round(endedAt.Sub(m.StartedAt).Minutes()))
	}
	if duration < 0 {
		duration = 0
	}

	m.Status = MeetingStatusEnded
	m.EndedAt = &endedAt
	m.DurationMinutes = duration
	m.UpdatedAt = &endedAt
	return nil
}
