// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/advisorly/consult-service/internal/domain/models"
)

// MockMeetingRepository implements MeetingRepository for testing
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Meeting), args.Get(1).(uint64), args.Error(2)
}

func (m *MockMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	args := m.Called(ctx, meeting, revision)
	return args.Error(0)
}

func (m *MockMeetingRepository) Delete(ctx context.Context, meetingUID string, revision uint64) error {
	args := m.Called(ctx, meetingUID, revision)
	return args.Error(0)
}

func (m *MockMeetingRepository) ListAll(ctx context.Context) ([]*models.Meeting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetByProviderMeetingID(ctx context.Context, providerMeetingID string) (*models.Meeting, error) {
	args := m.Called(ctx, providerMeetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetActiveByBookingUID(ctx context.Context, bookingUID string) (*models.Meeting, error) {
	args := m.Called(ctx, bookingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}
