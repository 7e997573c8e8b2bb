// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/advisorly/consult-service/internal/domain/models"
)

// MockMessageBuilder implements MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendMeetingStarted(ctx context.Context, event models.MeetingEventMessage) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendMeetingEnded(ctx context.Context, event models.MeetingEventMessage) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendRecordingReady(ctx context.Context, event models.MeetingEventMessage) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
