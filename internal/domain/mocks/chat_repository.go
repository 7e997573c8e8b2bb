// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/advisorly/consult-service/internal/domain/models"
)

// MockChatRepository implements ChatRepository for testing
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessagesByMeeting(ctx context.Context, meetingUID string) ([]*models.ChatMessage, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) CreateAttachment(ctx context.Context, attachment *models.FileAttachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockChatRepository) ListAttachmentsByMeeting(ctx context.Context, meetingUID string) ([]*models.FileAttachment, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FileAttachment), args.Error(1)
}
