// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/logging"
)

// NatsWaitingRoomRepository is the NATS KV store repository for waiting room entries.
type NatsWaitingRoomRepository struct {
	Entries INatsKeyValue
}

// NewNatsWaitingRoomRepository creates a new NATS KV store repository for waiting room entries.
func NewNatsWaitingRoomRepository(entries INatsKeyValue) *NatsWaitingRoomRepository {
	return &NatsWaitingRoomRepository{
		Entries: entries,
	}
}

func (s *NatsWaitingRoomRepository) get(ctx context.Context, entryUID string) (jetstream.KeyValueEntry, error) {
	if s.Entries == nil {
		return nil, domain.ErrServiceUnavailable
	}
	return s.Entries.Get(ctx, entryUID)
}

func (s *NatsWaitingRoomRepository) unmarshal(ctx context.Context, entry jetstream.KeyValueEntry) (*models.WaitingRoomEntry, error) {
	var waitingRoomEntry models.WaitingRoomEntry
	err := json.Unmarshal(entry.Value(), &waitingRoomEntry)
	if err != nil {
		slog.ErrorContext(ctx, "error unmarshaling waiting room entry", logging.ErrKey, err)
		return nil, domain.ErrUnmarshal
	}

	return &waitingRoomEntry, nil
}

func (s *NatsWaitingRoomRepository) Get(ctx context.Context, entryUID string) (*models.WaitingRoomEntry, error) {
	entry, _, err := s.GetWithRevision(ctx, entryUID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *NatsWaitingRoomRepository) GetWithRevision(ctx context.Context, entryUID string) (*models.WaitingRoomEntry, uint64, error) {
	entry, err := s.get(ctx, entryUID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			slog.WarnContext(ctx, "waiting room entry not found", logging.ErrKey, domain.ErrWaitingRoomEntryNotFound)
			return nil, 0, domain.ErrWaitingRoomEntryNotFound
		}
		slog.ErrorContext(ctx, "error getting waiting room entry from NATS KV", logging.ErrKey, err)
		return nil, 0, err
	}

	waitingRoomEntry, err := s.unmarshal(ctx, entry)
	if err != nil {
		return nil, 0, err
	}

	return waitingRoomEntry, entry.Revision(), nil
}

func (s *NatsWaitingRoomRepository) Create(ctx context.Context, entry *models.WaitingRoomEntry) error {
	if s.Entries == nil {
		return domain.ErrServiceUnavailable
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling waiting room entry", logging.ErrKey, err)
		return domain.ErrInternal
	}

	_, err = s.Entries.Put(ctx, entry.UID, jsonData)
	if err != nil {
		slog.ErrorContext(ctx, "error putting waiting room entry into NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

func (s *NatsWaitingRoomRepository) Update(ctx context.Context, entry *models.WaitingRoomEntry, revision uint64) error {
	if s.Entries == nil {
		return domain.ErrServiceUnavailable
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling waiting room entry", logging.ErrKey, err)
		return domain.ErrInternal
	}

	_, err = s.Entries.Update(ctx, entry.UID, jsonData, revision)
	if err != nil {
		if strings.Contains(err.Error(), "wrong last sequence") {
			slog.WarnContext(ctx, "waiting room entry revision mismatch", logging.ErrKey, err)
			return domain.ErrRevisionMismatch
		}
		slog.ErrorContext(ctx, "error updating waiting room entry in NATS KV store", logging.ErrKey, err)
		return domain.ErrInternal
	}

	return nil
}

func (s *NatsWaitingRoomRepository) listAll(ctx context.Context) ([]*models.WaitingRoomEntry, error) {
	if s.Entries == nil {
		return nil, domain.ErrServiceUnavailable
	}

	keysLister, err := s.Entries.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing waiting room keys from NATS KV store", logging.ErrKey, err)
		return nil, domain.ErrInternal
	}

	entries := []*models.WaitingRoomEntry{}
	for key := range keysLister.Keys() {
		entry, err := s.get(ctx, key)
		if err != nil {
			slog.ErrorContext(ctx, "error getting waiting room entry from NATS KV store", logging.ErrKey, err, "entry_uid", key)
			return nil, domain.ErrInternal
		}

		waitingRoomEntry, err := s.unmarshal(ctx, entry)
		if err != nil {
			return nil, err
		}

		entries = append(entries, waitingRoomEntry)
	}

	return entries, nil
}

// ListByMeeting returns all entries for a meeting ordered by the time the
// join was requested, oldest first.
func (s *NatsWaitingRoomRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.WaitingRoomEntry, error) {
	all, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := []*models.WaitingRoomEntry{}
	for _, entry := range all {
		if entry.MeetingUID == meetingUID {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].JoinRequestedAt.Before(entries[j].JoinRequestedAt)
	})

	return entries, nil
}

// FindActiveByMeetingAndEmail returns the single waiting or admitted entry
// for the (meeting, email) pair. Rejected entries are skipped so a rejected
// client may request to join again. Email comparison is case-insensitive.
func (s *NatsWaitingRoomRepository) FindActiveByMeetingAndEmail(ctx context.Context, meetingUID, userEmail string) (*models.WaitingRoomEntry, error) {
	all, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, entry := range all {
		if entry.MeetingUID == meetingUID &&
			strings.EqualFold(entry.UserEmail, userEmail) &&
			entry.Status != models.WaitingRoomStatusRejected {
			return entry, nil
		}
	}

	return nil, domain.ErrWaitingRoomEntryNotFound
}
