// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/advisorly/consult-service/internal/domain"
)

// MockProviderAPI implements ProviderAPI for testing
type MockProviderAPI struct {
	mock.Mock
}

func (m *MockProviderAPI) CreateMeeting(ctx context.Context, req domain.CreateProviderMeeting) (*domain.ProviderMeeting, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderMeeting), args.Error(1)
}

func (m *MockProviderAPI) GetMeeting(ctx context.Context, providerMeetingID string) (*domain.ProviderMeeting, error) {
	args := m.Called(ctx, providerMeetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderMeeting), args.Error(1)
}

func (m *MockProviderAPI) DeleteMeeting(ctx context.Context, providerMeetingID string) error {
	args := m.Called(ctx, providerMeetingID)
	return args.Error(0)
}

func (m *MockProviderAPI) GetRecordings(ctx context.Context, providerMeetingID string) ([]domain.ProviderRecording, error) {
	args := m.Called(ctx, providerMeetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProviderRecording), args.Error(1)
}

func (m *MockProviderAPI) GenerateJoinSignature(meetingNumber string, role int) (string, error) {
	args := m.Called(meetingNumber, role)
	return args.String(0), args.Error(1)
}
