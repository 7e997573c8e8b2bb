// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/advisorly/consult-service/internal/domain"
)

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendMeetingStarted(ctx context.Context, notification domain.EmailMeetingStarted) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockEmailService) SendRecordingReady(ctx context.Context, notification domain.EmailRecordingReady) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}
