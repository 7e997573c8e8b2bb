// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/logging"
)

// NatsChatRepository is the NATS KV store repository for meeting chat messages
// and file attachments. Messages and attachments are immutable once written,
// so the repository only offers create and list operations.
type NatsChatRepository struct {
	Messages    INatsKeyValue
	Attachments INatsKeyValue
}

// NewNatsChatRepository creates a new NATS KV store repository for chat data.
func NewNatsChatRepository(messages, attachments INatsKeyValue) *NatsChatRepository {
	return &NatsChatRepository{
		Messages:    messages,
		Attachments: attachments,
	}
}

func (s *NatsChatRepository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	if s.Messages == nil {
		return domain.ErrServiceUnavailable
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling chat message", logging.ErrKey, err)
		return domain.ErrInternal
	}

	_, err = s.Messages.Put(ctx, message.UID, jsonData)
	if err != nil {
		slog.ErrorContext(ctx, "error putting chat message into NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

// ListMessagesByMeeting returns a meeting's messages ordered by send time,
// oldest first.
func (s *NatsChatRepository) ListMessagesByMeeting(ctx context.Context, meetingUID string) ([]*models.ChatMessage, error) {
	if s.Messages == nil {
		return nil, domain.ErrServiceUnavailable
	}

	keysLister, err := s.Messages.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing chat message keys from NATS KV store", logging.ErrKey, err)
		return nil, domain.ErrInternal
	}

	messages := []*models.ChatMessage{}
	for key := range keysLister.Keys() {
		entry, err := s.Messages.Get(ctx, key)
		if err != nil {
			slog.ErrorContext(ctx, "error getting chat message from NATS KV store", logging.ErrKey, err, "message_uid", key)
			return nil, domain.ErrInternal
		}

		var message models.ChatMessage
		if err := json.Unmarshal(entry.Value(), &message); err != nil {
			slog.ErrorContext(ctx, "error unmarshaling chat message", logging.ErrKey, err)
			return nil, domain.ErrUnmarshal
		}

		if message.MeetingUID == meetingUID {
			messages = append(messages, &message)
		}
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})

	return messages, nil
}

func (s *NatsChatRepository) CreateAttachment(ctx context.Context, attachment *models.FileAttachment) error {
	if s.Attachments == nil {
		return domain.ErrServiceUnavailable
	}

	jsonData, err := json.Marshal(attachment)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling file attachment", logging.ErrKey, err)
		return domain.ErrInternal
	}

	_, err = s.Attachments.Put(ctx, attachment.UID, jsonData)
	if err != nil {
		slog.ErrorContext(ctx, "error putting file attachment into NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

// ListAttachmentsByMeeting returns a meeting's attachments ordered by upload
// time, oldest first.
func (s *NatsChatRepository) ListAttachmentsByMeeting(ctx context.Context, meetingUID string) ([]*models.FileAttachment, error) {
	if s.Attachments == nil {
		return nil, domain.ErrServiceUnavailable
	}

	keysLister, err := s.Attachments.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing file attachment keys from NATS KV store", logging.ErrKey, err)
		return nil, domain.ErrInternal
	}

	attachments := []*models.FileAttachment{}
	for key := range keysLister.Keys() {
		entry, err := s.Attachments.Get(ctx, key)
		if err != nil {
			slog.ErrorContext(ctx, "error getting file attachment from NATS KV store", logging.ErrKey, err, "attachment_uid", key)
			return nil, domain.ErrInternal
		}

		var attachment models.FileAttachment
		if err := json.Unmarshal(entry.Value(), &attachment); err != nil {
			slog.ErrorContext(ctx, "error unmarshaling file attachment", logging.ErrKey, err)
			return nil, domain.ErrUnmarshal
		}

		if attachment.MeetingUID == meetingUID {
			attachments = append(attachments, &attachment)
		}
	}

	sort.Slice(attachments, func(i, j int) bool {
		return attachments[i].UploadedAt.Before(attachments[j].UploadedAt)
	})

	return attachments, nil
}
