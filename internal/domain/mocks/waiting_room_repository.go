// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/advisorly/consult-service/internal/domain/models"
)

// MockWaitingRoomRepository implements WaitingRoomRepository for testing
type MockWaitingRoomRepository struct {
	mock.Mock
}

func (m *MockWaitingRoomRepository) Create(ctx context.Context, entry *models.WaitingRoomEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWaitingRoomRepository) Get(ctx context.Context, entryUID string) (*models.WaitingRoomEntry, error) {
	args := m.Called(ctx, entryUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WaitingRoomEntry), args.Error(1)
}

func (m *MockWaitingRoomRepository) GetWithRevision(ctx context.Context, entryUID string) (*models.WaitingRoomEntry, uint64, error) {
	args := m.Called(ctx, entryUID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.WaitingRoomEntry), args.Get(1).(uint64), args.Error(2)
}

func (m *MockWaitingRoomRepository) Update(ctx context.Context, entry *models.WaitingRoomEntry, revision uint64) error {
	args := m.Called(ctx, entry, revision)
	return args.Error(0)
}

func (m *MockWaitingRoomRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.WaitingRoomEntry, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WaitingRoomEntry), args.Error(1)
}

func (m *MockWaitingRoomRepository) FindActiveByMeetingAndEmail(ctx context.Context, meetingUID, userEmail string) (*models.WaitingRoomEntry, error) {
	args := m.Called(ctx, meetingUID, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WaitingRoomEntry), args.Error(1)
}
