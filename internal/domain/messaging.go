// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/advisorly/consult-service/internal/domain/models"
)

// MessageBuilder publishes meeting lifecycle events for downstream consumers.
// Publish failures are logged by implementations and must not fail the
// triggering operation.
type MessageBuilder interface {
	SendMeetingStarted(ctx context.Context, event models.MeetingEventMessage) error
	SendMeetingEnded(ctx context.Context, event models.MeetingEventMessage) error
	SendRecordingReady(ctx context.Context, event models.MeetingEventMessage) error
}
