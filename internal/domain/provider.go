// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// Join signature roles understood by the provider's client SDK.
const (
	JoinRoleAttendee = 0
	JoinRoleHost     = 1
)

// CreateProviderMeeting holds the parameters for scheduling a remote session.
type CreateProviderMeeting struct {
	Topic           string
	StartTime       time.Time
	DurationMinutes int
	Agenda          string
}

// ProviderMeeting is the provider's view of a scheduled session.
type ProviderMeeting struct {
	ID       string
	Topic    string
	JoinURL  string
	StartURL string
	Password string
	Status   string
}

// ProviderRecording is one recording artifact reported by the provider.
type ProviderRecording struct {
	ID            string
	FileType      string
	RecordingType string
	PlayURL       string
	DownloadURL   string
	FileSize      int64
}

// ProviderAPI defines the conferencing provider operations the service consumes.
// All calls are bounded by the client's HTTP timeout; a non-2xx response or a
// network failure surfaces as an Unavailable DomainError.
type ProviderAPI interface {
	CreateMeeting(ctx context.Context, req CreateProviderMeeting) (*ProviderMeeting, error)
	GetMeeting(ctx context.Context, providerMeetingID string) (*ProviderMeeting, error)
	DeleteMeeting(ctx context.Context, providerMeetingID string) error
	// GetRecordings returns nil, nil when the provider reports the recordings
	// as not found (not yet processed), which is not an error.
	GetRecordings(ctx context.Context, providerMeetingID string) ([]ProviderRecording, error)
	// GenerateJoinSignature derives the client-SDK join credential. No I/O.
	GenerateJoinSignature(meetingNumber string, role int) (string, error)
}
