// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/advisorly/consult-service/internal/domain/models"
)

// BookingRepository defines the interface for booking storage operations.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	Get(ctx context.Context, bookingUID string) (*models.Booking, error)
	GetWithRevision(ctx context.Context, bookingUID string) (*models.Booking, uint64, error)
	Update(ctx context.Context, booking *models.Booking, revision uint64) error
	Delete(ctx context.Context, bookingUID string, revision uint64) error
	ListAll(ctx context.Context) ([]*models.Booking, error)
}

// MeetingRepository defines the interface for meeting storage operations.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	Get(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error)
	Update(ctx context.Context, meeting *models.Meeting, revision uint64) error
	Delete(ctx context.Context, meetingUID string, revision uint64) error
	ListAll(ctx context.Context) ([]*models.Meeting, error)

	// GetByProviderMeetingID returns the meeting whose remote session has the
	// given provider identifier, or a NotFound error.
	GetByProviderMeetingID(ctx context.Context, providerMeetingID string) (*models.Meeting, error)
	// GetActiveByBookingUID returns the non-terminal meeting for a booking,
	// or a NotFound error when none exists.
	GetActiveByBookingUID(ctx context.Context, bookingUID string) (*models.Meeting, error)
}

// WaitingRoomRepository defines the interface for waiting room entry storage operations.
type WaitingRoomRepository interface {
	Create(ctx context.Context, entry *models.WaitingRoomEntry) error
	Get(ctx context.Context, entryUID string) (*models.WaitingRoomEntry, error)
	GetWithRevision(ctx context.Context, entryUID string) (*models.WaitingRoomEntry, uint64, error)
	Update(ctx context.Context, entry *models.WaitingRoomEntry, revision uint64) error
	ListByMeeting(ctx context.Context, meetingUID string) ([]*models.WaitingRoomEntry, error)

	// FindActiveByMeetingAndEmail returns the single waiting or admitted entry
	// for a (meeting, email) pair, or a NotFound error when none exists.
	// Rejected entries never match.
	FindActiveByMeetingAndEmail(ctx context.Context, meetingUID, userEmail string) (*models.WaitingRoomEntry, error)
}

// ChatRepository defines the interface for meeting chat storage operations.
type ChatRepository interface {
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessagesByMeeting(ctx context.Context, meetingUID string) ([]*models.ChatMessage, error)
	CreateAttachment(ctx context.Context, attachment *models.FileAttachment) error
	ListAttachmentsByMeeting(ctx context.Context, meetingUID string) ([]*models.FileAttachment, error)
}
