// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/logging"
)

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// sendMeetingEvent marshals and publishes a meeting lifecycle event.
func (m *MessageBuilder) sendMeetingEvent(ctx context.Context, subject string, event models.MeetingEventMessage) error {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling meeting event into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "publishing meeting event to NATS",
		"subject", subject,
		"meeting_uid", event.MeetingUID,
		"booking_uid", event.BookingUID,
	)

	return m.sendMessage(ctx, subject, messageBytes)
}

// SendMeetingStarted publishes a message about a meeting being started.
func (m *MessageBuilder) SendMeetingStarted(ctx context.Context, event models.MeetingEventMessage) error {
	return m.sendMeetingEvent(ctx, models.MeetingStartedSubject, event)
}

// SendMeetingEnded publishes a message about a meeting being ended.
func (m *MessageBuilder) SendMeetingEnded(ctx context.Context, event models.MeetingEventMessage) error {
	return m.sendMeetingEvent(ctx, models.MeetingEndedSubject, event)
}

// SendRecordingReady publishes a message about a meeting recording becoming available.
func (m *MessageBuilder) SendRecordingReady(ctx context.Context, event models.MeetingEventMessage) error {
	return m.sendMeetingEvent(ctx, models.MeetingRecordingReadySubject, event)
}
