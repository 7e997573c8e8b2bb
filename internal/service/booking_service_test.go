// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/mocks"
	"github.com/advisorly/consult-service/internal/domain/models"
)

func newBookingService() (*BookingService, *mocks.MockBookingRepository) {
	bookingRepo := &mocks.MockBookingRepository{}
	return NewBookingService(bookingRepo), bookingRepo
}

func TestBookingService_CreateBooking(t *testing.T) {
	service, bookingRepo := newBookingService()

	bookingRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Booking) bool {
		return b.UID != "" && b.Status == models.BookingStatusPending && b.CreatedAt != nil
	})).Return(nil)

	booking, err := service.CreateBooking(context.Background(), &models.Booking{
		ClientName:  "Jane Doe",
		ClientEmail: "jane@example.com",
		ServiceType: "Tax",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, booking.UID)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	bookingRepo.AssertExpectations(t)
}

func TestBookingService_CreateBooking_Validation(t *testing.T) {
	service, bookingRepo := newBookingService()

	scheduled := time.Now().Add(24 * time.Hour)
	tests := []struct {
		name    string
		booking *models.Booking
	}{
		{
			name:    "missing client name",
			booking: &models.Booking{ClientEmail: "jane@example.com", ServiceType: "Tax", ScheduledAt: scheduled},
		},
		{
			name:    "missing client email",
			booking: &models.Booking{ClientName: "Jane Doe", ServiceType: "Tax", ScheduledAt: scheduled},
		},
		{
			name:    "missing service type",
			booking: &models.Booking{ClientName: "Jane Doe", ClientEmail: "jane@example.com", ScheduledAt: scheduled},
		},
		{
			name:    "missing scheduled time",
			booking: &models.Booking{ClientName: "Jane Doe", ClientEmail: "jane@example.com", ServiceType: "Tax"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateBooking(context.Background(), tt.booking)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		})
	}

	bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_GetBookings_SortedBySchedule(t *testing.T) {
	service, bookingRepo := newBookingService()

	now := time.Now()
	bookingRepo.On("ListAll", mock.Anything).Return([]*models.Booking{
		{UID: "booking-later", ScheduledAt: now.Add(48 * time.Hour)},
		{UID: "booking-sooner", ScheduledAt: now.Add(2 * time.Hour)},
	}, nil)

	got, err := service.GetBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "booking-sooner", got[0].UID)
	assert.Equal(t, "booking-later", got[1].UID)
}

func TestBookingService_UpdateBookingStatus(t *testing.T) {
	service, bookingRepo := newBookingService()

	booking := &models.Booking{UID: "booking-456", Status: models.BookingStatusPending}
	bookingRepo.On("GetWithRevision", mock.Anything, "booking-456").Return(booking, uint64(2), nil)
	bookingRepo.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Booking) bool {
		return b.Status == models.BookingStatusCancelled
	}), uint64(2)).Return(nil)

	got, err := service.UpdateBookingStatus(context.Background(), "booking-456", models.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, got.Status)
}

func TestBookingService_UpdateBookingStatus_UnknownStatus(t *testing.T) {
	service, bookingRepo := newBookingService()

	_, err := service.UpdateBookingStatus(context.Background(), "booking-456", models.BookingStatus("archived"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	bookingRepo.AssertNotCalled(t, "GetWithRevision", mock.Anything, mock.Anything)
}

func TestBookingService_GetBooking_NotFound(t *testing.T) {
	service, bookingRepo := newBookingService()

	bookingRepo.On("Get", mock.Anything, "missing").Return(nil, domain.ErrBookingNotFound)

	_, err := service.GetBooking(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}
