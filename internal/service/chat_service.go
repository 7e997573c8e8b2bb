// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/logging"
)

const maxChatBodyLength = 4000

// ChatService owns the in-meeting chat: messages and file attachment
// metadata exchanged between the advisor and the client.
type ChatService struct {
	MeetingRepository domain.MeetingRepository
	ChatRepository    domain.ChatRepository
}

// NewChatService creates a new ChatService.
func NewChatService(
	meetingRepository domain.MeetingRepository,
	chatRepository domain.ChatRepository,
) *ChatService {
	return &ChatService{
		MeetingRepository: meetingRepository,
		ChatRepository:    chatRepository,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ChatService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.ChatRepository != nil
}

// SendMessage appends a chat message to an active meeting.
func (s *ChatService) SendMessage(ctx context.Context, meetingUID, senderName, senderRole, body string) (*models.ChatMessage, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.NewValidationError("message body is required")
	}
	if len(body) > maxChatBodyLength {
		return nil, domain.NewValidationError("message body is too long")
	}
	if senderRole != models.ChatRoleAdvisor && senderRole != models.ChatRoleClient {
		return nil, domain.NewValidationError("unknown sender role")
	}

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if meeting.Status.IsTerminal() {
		return nil, domain.NewConflictError("meeting has already ended")
	}

	message := &models.ChatMessage{
		UID:        uuid.New().String(),
		MeetingUID: meetingUID,
		SenderName: senderName,
		SenderRole: senderRole,
		Body:       body,
		SentAt:     time.Now().UTC(),
	}

	if err := s.ChatRepository.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// GetMessages returns a meeting's chat history ordered by send time.
func (s *ChatService) GetMessages(ctx context.Context, meetingUID string) ([]*models.ChatMessage, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	if _, err := s.MeetingRepository.Get(ctx, meetingUID); err != nil {
		return nil, err
	}

	return s.ChatRepository.ListMessagesByMeeting(ctx, meetingUID)
}

// AddAttachment records the metadata of a file shared in an active meeting.
func (s *ChatService) AddAttachment(ctx context.Context, attachment *models.FileAttachment) (*models.FileAttachment, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	if attachment.FileName == "" {
		return nil, domain.NewValidationError("file name is required")
	}
	if attachment.Size < 0 {
		return nil, domain.NewValidationError("file size cannot be negative")
	}

	meeting, err := s.MeetingRepository.Get(ctx, attachment.MeetingUID)
	if err != nil {
		return nil, err
	}
	if meeting.Status.IsTerminal() {
		return nil, domain.NewConflictError("meeting has already ended")
	}

	attachment.UID = uuid.New().String()
	attachment.UploadedAt = time.Now().UTC()

	if err := s.ChatRepository.CreateAttachment(ctx, attachment); err != nil {
		return nil, err
	}

	return attachment, nil
}

// GetAttachments returns a meeting's attachment metadata ordered by upload time.
func (s *ChatService) GetAttachments(ctx context.Context, meetingUID string) ([]*models.FileAttachment, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	if _, err := s.MeetingRepository.Get(ctx, meetingUID); err != nil {
		return nil, err
	}

	return s.ChatRepository.ListAttachmentsByMeeting(ctx, meetingUID)
}
