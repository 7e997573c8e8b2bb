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

// NatsMeetingRepository is the NATS KV store repository for meetings.
type NatsMeetingRepository struct {
	Meetings INatsKeyValue
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(meetings INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		Meetings: meetings,
	}
}

func (s *NatsMeetingRepository) get(ctx context.Context, meetingUID string) (jetstream.KeyValueEntry, error) {
	if s.Meetings == nil {
		return nil, domain.ErrServiceUnavailable
	}
	return s.Meetings.Get(ctx, meetingUID)
}

func (s *NatsMeetingRepository) unmarshal(ctx context.Context, entry jetstream.KeyValueEntry) (*models.Meeting, error) {
	var meeting models.Meeting
	err := json.Unmarshal(entry.Value(), &meeting)
	if err != nil {
		slog.ErrorContext(ctx, "error unmarshaling meeting", logging.ErrKey, err)
		return nil, domain.ErrUnmarshal
	}

	return &meeting, nil
}

func (s *NatsMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	meeting, _, err := s.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

func (s *NatsMeetingRepository) GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	entry, err := s.get(ctx, meetingUID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			slog.WarnContext(ctx, "meeting not found", logging.ErrKey, domain.ErrMeetingNotFound)
			return nil, 0, domain.ErrMeetingNotFound
		}
		slog.ErrorContext(ctx, "error getting meeting from NATS KV", logging.ErrKey, err)
		return nil, 0, err
	}

	meeting, err := s.unmarshal(ctx, entry)
	if err != nil {
		return nil, 0, err
	}

	return meeting, entry.Revision(), nil
}

func (s *NatsMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	if s.Meetings == nil {
		return domain.ErrServiceUnavailable
	}

	jsonData, err := json.Marshal(meeting)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling meeting", logging.ErrKey, err)
		return domain.ErrInternal
	}

	_, err = s.Meetings.Put(ctx, meeting.UID, jsonData)
	if err != nil {
		slog.ErrorContext(ctx, "error putting meeting into NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

func (s *NatsMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	if s.Meetings == nil {
		return domain.ErrServiceUnavailable
	}

	jsonData, err := json.Marshal(meeting)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling meeting", logging.ErrKey, err)
		return domain.ErrInternal
	}

	_, err = s.Meetings.Update(ctx, meeting.UID, jsonData, revision)
	if err != nil {
		if strings.Contains(err.Error(), "wrong last sequence") {
			slog.WarnContext(ctx, "meeting revision mismatch", logging.ErrKey, err)
			return domain.ErrRevisionMismatch
		}
		slog.ErrorContext(ctx, "error updating meeting in NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

func (s *NatsMeetingRepository) Delete(ctx context.Context, meetingUID string, revision uint64) error {
	if s.Meetings == nil {
		return domain.ErrServiceUnavailable
	}

	err := s.Meetings.Delete(ctx, meetingUID, jetstream.LastRevision(revision))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return domain.ErrMeetingNotFound
		}
		if strings.Contains(err.Error(), "wrong last sequence") {
			return domain.ErrRevisionMismatch
		}
		slog.ErrorContext(ctx, "error deleting meeting from NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

func (s *NatsMeetingRepository) ListAll(ctx context.Context) ([]*models.Meeting, error) {
	if s.Meetings == nil {
		return nil, domain.ErrServiceUnavailable
	}

	keysLister, err := s.Meetings.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing meeting keys from NATS KV store", logging.ErrKey, err)
		return nil, domain.ErrInternal
	}

	meetings := []*models.Meeting{}
	for key := range keysLister.Keys() {
		entry, err := s.get(ctx, key)
		if err != nil {
			slog.ErrorContext(ctx, "error getting meeting from NATS KV store", logging.ErrKey, err, "meeting_uid", key)
			return nil, domain.ErrInternal
		}

		meeting, err := s.unmarshal(ctx, entry)
		if err != nil {
			return nil, err
		}

		meetings = append(meetings, meeting)
	}

	return meetings, nil
}

// GetByProviderMeetingID finds the meeting whose remote session has the given
// provider identifier. The KV store has no secondary index, so this scans the
// bucket the same way the listing operation does.
func (s *NatsMeetingRepository) GetByProviderMeetingID(ctx context.Context, providerMeetingID string) (*models.Meeting, error) {
	meetings, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, meeting := range meetings {
		if meeting.ProviderMeetingID == providerMeetingID {
			return meeting, nil
		}
	}

	return nil, domain.ErrMeetingNotFound
}

// GetActiveByBookingUID finds the non-terminal meeting for a booking.
func (s *NatsMeetingRepository) GetActiveByBookingUID(ctx context.Context, bookingUID string) (*models.Meeting, error) {
	meetings, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var active *models.Meeting
	for _, meeting := range meetings {
		if meeting.BookingUID != bookingUID || meeting.Status.IsTerminal() {
			continue
		}
		if active == nil || meeting.StartedAt.After(active.StartedAt) {
			active = meeting
		}
	}

	if active == nil {
		return nil, domain.ErrMeetingNotFound
	}

	return active, nil
}
