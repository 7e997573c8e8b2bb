// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/logging"
)

// NatsBookingRepository is the NATS KV store repository for bookings.
type NatsBookingRepository struct {
	Bookings INatsKeyValue
}

// NewNatsBookingRepository creates a new NATS KV store repository for bookings.
func NewNatsBookingRepository(bookings INatsKeyValue) *NatsBookingRepository {
	return &NatsBookingRepository{
		Bookings: bookings,
	}
}

func (s *NatsBookingRepository) get(ctx context.Context, bookingUID string) (jetstream.KeyValueEntry, error) {
	if s.Bookings == nil {
		return nil, domain.ErrServiceUnavailable
	}
	return s.Bookings.Get(ctx, bookingUID)
}

func (s *NatsBookingRepository) unmarshal(ctx context.Context, entry jetstream.KeyValueEntry) (*models.Booking, error) {
	var booking models.Booking
	err := json.Unmarshal(entry.Value(), &booking)
	if err != nil {
		slog.ErrorContext(ctx, "error unmarshaling booking", logging.ErrKey, err)
		return nil, domain.ErrUnmarshal
	}

	return &booking, nil
}

func (s *NatsBookingRepository) Get(ctx context.Context, bookingUID string) (*models.Booking, error) {
	booking, _, err := s.GetWithRevision(ctx, bookingUID)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *NatsBookingRepository) GetWithRevision(ctx context.Context, bookingUID string) (*models.Booking, uint64, error) {
	entry, err := s.get(ctx, bookingUID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			slog.WarnContext(ctx, "booking not found", logging.ErrKey, domain.ErrBookingNotFound)
			return nil, 0, domain.ErrBookingNotFound
		}
		slog.ErrorContext(ctx, "error getting booking from NATS KV", logging.ErrKey, err)
		return nil, 0, err
	}

	booking, err := s.unmarshal(ctx, entry)
	if err != nil {
		return nil, 0, err
	}

	return booking, entry.Revision(), nil
}

func (s *NatsBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if s.Bookings == nil {
		return domain.ErrServiceUnavailable
	}

	jsonData, err := json.Marshal(booking)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling booking", logging.ErrKey, err)
		return domain.ErrInternal
	}

	_, err = s.Bookings.Put(ctx, booking.UID, jsonData)
	if err != nil {
		slog.ErrorContext(ctx, "error putting booking into NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

func (s *NatsBookingRepository) Update(ctx context.Context, booking *models.Booking, revision uint64) error {
	if s.Bookings == nil {
		return domain.ErrServiceUnavailable
	}

	jsonData, err := json.Marshal(booking)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling booking", logging.ErrKey, err)
		return domain.ErrInternal
	}

	_, err = s.Bookings.Update(ctx, booking.UID, jsonData, revision)
	if err != nil {
		if strings.Contains(err.Error(), "wrong last sequence") {
			slog.WarnContext(ctx, "booking revision mismatch", logging.ErrKey, err)
			return domain.ErrRevisionMismatch
		}
		slog.ErrorContext(ctx, "error updating booking in NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

func (s *NatsBookingRepository) Delete(ctx context.Context, bookingUID string, revision uint64) error {
	if s.Bookings == nil {
		return domain.ErrServiceUnavailable
	}

	err := s.Bookings.Delete(ctx, bookingUID, jetstream.LastRevision(revision))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return domain.ErrBookingNotFound
		}
		if strings.Contains(err.Error(), "wrong last sequence") {
			return domain.ErrRevisionMismatch
		}
		slog.ErrorContext(ctx, "error deleting booking from NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

func (s *NatsBookingRepository) ListAll(ctx context.Context) ([]*models.Booking, error) {
	if s.Bookings == nil {
		return nil, domain.ErrServiceUnavailable
	}

	keysLister, err := s.Bookings.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing booking keys from NATS KV store", logging.ErrKey, err)
		return nil, domain.ErrInternal
	}

	bookings := []*models.Booking{}
	for key := range keysLister.Keys() {
		entry, err := s.get(ctx, key)
		if err != nil {
			slog.ErrorContext(ctx, "error getting booking from NATS KV store", logging.ErrKey, err, "booking_uid", key)
			return nil, domain.ErrInternal
		}

		booking, err := s.unmarshal(ctx, entry)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, booking)
	}

	return bookings, nil
}
