// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/logging"
)

// BookingService owns the booking records the meeting lifecycle hangs off.
type BookingService struct {
	BookingRepository domain.BookingRepository
}

// NewBookingService creates a new BookingService.
func NewBookingService(bookingRepository domain.BookingRepository) *BookingService {
	return &BookingService{
		BookingRepository: bookingRepository,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *BookingService) ServiceReady() bool {
	return s.BookingRepository != nil
}

// CreateBooking validates and stores a new booking in pending status.
func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	if strings.TrimSpace(booking.ClientName) == "" {
		return nil, domain.NewValidationError("client name is required")
	}
	if strings.TrimSpace(booking.ClientEmail) == "" {
		return nil, domain.NewValidationError("client email is required")
	}
	if strings.TrimSpace(booking.ServiceType) == "" {
		return nil, domain.NewValidationError("service type is required")
	}
	if booking.ScheduledAt.IsZero() {
		return nil, domain.NewValidationError("scheduled time is required")
	}

	now := time.Now().UTC()
	booking.UID = uuid.New().String()
	booking.Status = models.BookingStatusPending
	booking.CreatedAt = &now
	booking.UpdatedAt = &now

	if err := s.BookingRepository.Create(ctx, booking); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking created", "booking_uid", booking.UID)

	return booking, nil
}

// GetBooking fetches a single booking by UID.
func (s *BookingService) GetBooking(ctx context.Context, bookingUID string) (*models.Booking, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	return s.BookingRepository.Get(ctx, bookingUID)
}

// GetBookings fetches all bookings ordered by scheduled time.
func (s *BookingService) GetBookings(ctx context.Context) ([]*models.Booking, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	bookings, err := s.BookingRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].ScheduledAt.Before(bookings[j].ScheduledAt)
	})

	return bookings, nil
}

// UpdateBookingStatus moves a booking to a new status with a
// compare-and-swap write.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingUID string, status models.BookingStatus) (*models.Booking, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	if !status.IsValid() {
		return nil, domain.NewValidationError("unknown booking status")
	}

	booking, revision, err := s.BookingRepository.GetWithRevision(ctx, bookingUID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking.Status = status
	booking.UpdatedAt = &now

	if err := s.BookingRepository.Update(ctx, booking, revision); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking status updated",
		"booking_uid", bookingUID,
		"status", status,
	)

	return booking, nil
}
