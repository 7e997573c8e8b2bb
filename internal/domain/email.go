// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// EmailService defines the interface for sending notification emails.
// Sends are fire-and-forget from the caller's point of view: failures are
// logged and never fail the triggering operation.
type EmailService interface {
	SendMeetingStarted(ctx context.Context, notification EmailMeetingStarted) error
	SendRecordingReady(ctx context.Context, notification EmailRecordingReady) error
}

// EmailMeetingStarted contains the data needed to tell a client their
// consultation has started.
type EmailMeetingStarted struct {
	RecipientEmail string
	RecipientName  string
	Topic          string
	StartedAt      time.Time
	JoinLink       string // client join link carrying the meeting-access token
}

// EmailRecordingReady contains the data needed to tell a client their
// consultation recording is available.
type EmailRecordingReady struct {
	RecipientEmail string
	RecipientName  string
	Topic          string
	RecordingURL   string
}
