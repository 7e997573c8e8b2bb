// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/logging"
	"github.com/advisorly/consult-service/pkg/concurrent"
)

// AdmissionService owns the waiting room: clients queue up against an active
// meeting and the advisor admits or rejects each one exactly once.
type AdmissionService struct {
	MeetingRepository     domain.MeetingRepository
	WaitingRoomRepository domain.WaitingRoomRepository
}

// NewAdmissionService creates a new AdmissionService.
func NewAdmissionService(
	meetingRepository domain.MeetingRepository,
	waitingRoomRepository domain.WaitingRoomRepository,
) *AdmissionService {
	return &AdmissionService{
		MeetingRepository:     meetingRepository,
		WaitingRoomRepository: waitingRoomRepository,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AdmissionService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.WaitingRoomRepository != nil
}

// EnterWaitingRoom places a client into a meeting's waiting room. Re-entry
// with the same email while a waiting or admitted entry exists returns that
// entry unchanged, so page refreshes never create duplicates. A rejected
// client starts over with a fresh entry.
func (s *AdmissionService) EnterWaitingRoom(ctx context.Context, meetingUID, bookingUID, userName, userEmail string) (*models.WaitingRoomEntry, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if meeting.Status.IsTerminal() {
		return nil, domain.NewConflictError("meeting has already ended")
	}

	existing, err := s.WaitingRoomRepository.FindActiveByMeetingAndEmail(ctx, meetingUID, userEmail)
	if err != nil && !errors.Is(err, domain.ErrWaitingRoomEntryNotFound) {
		return nil, err
	}
	if existing != nil {
		slog.DebugContext(ctx, "client already in waiting room", "entry_uid", existing.UID)
		return existing, nil
	}

	entry := &models.WaitingRoomEntry{
		UID:             uuid.New().String(),
		MeetingUID:      meetingUID,
		BookingUID:      bookingUID,
		UserName:        userName,
		UserEmail:       userEmail,
		Status:          models.WaitingRoomStatusWaiting,
		JoinRequestedAt: time.Now().UTC(),
	}

	if err := s.WaitingRoomRepository.Create(ctx, entry); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "client entered waiting room", "entry_uid", entry.UID)

	return entry, nil
}

// GetQueue returns a meeting's waiting room entries ordered by the time each
// client asked to join, oldest first.
func (s *AdmissionService) GetQueue(ctx context.Context, meetingUID string) ([]*models.WaitingRoomEntry, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	return s.WaitingRoomRepository.ListByMeeting(ctx, meetingUID)
}

// Admit transitions a waiting entry to admitted. Concurrent admit/reject of
// the same entry is resolved by the store's revision check; exactly one wins.
func (s *AdmissionService) Admit(ctx context.Context, entryUID string) (*models.WaitingRoomEntry, error) {
	return s.transition(ctx, entryUID, func(entry *models.WaitingRoomEntry) error {
		return entry.Admit(time.Now().UTC())
	})
}

// Reject transitions a waiting entry to rejected.
func (s *AdmissionService) Reject(ctx context.Context, entryUID string) (*models.WaitingRoomEntry, error) {
	return s.transition(ctx, entryUID, func(entry *models.WaitingRoomEntry) error {
		return entry.Reject()
	})
}

// transition applies a state change to an entry with a compare-and-swap write.
// On a revision mismatch the entry is re-read and the change retried once; if
// the concurrent writer already finalized the entry the transition conflicts.
func (s *AdmissionService) transition(ctx context.Context, entryUID string, apply func(*models.WaitingRoomEntry) error) (*models.WaitingRoomEntry, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	ctx = logging.AppendCtx(ctx, slog.String("entry_uid", entryUID))

	entry, revision, err := s.WaitingRoomRepository.GetWithRevision(ctx, entryUID)
	if err != nil {
		return nil, err
	}

	if err := apply(entry); err != nil {
		return nil, domain.NewConflictError("waiting room entry already finalized", err)
	}

	err = s.WaitingRoomRepository.Update(ctx, entry, revision)
	if errors.Is(err, domain.ErrRevisionMismatch) {
		entry, revision, err = s.WaitingRoomRepository.GetWithRevision(ctx, entryUID)
		if err != nil {
			return nil, err
		}
		if applyErr := apply(entry); applyErr != nil {
			return nil, domain.NewConflictError("waiting room entry already finalized", applyErr)
		}
		err = s.WaitingRoomRepository.Update(ctx, entry, revision)
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "waiting room entry transitioned", "status", entry.Status)

	return entry, nil
}

// CheckStatus returns the client's waiting or admitted entry for a meeting,
// or a NotFound error when they are not queued. Admitted entries stay
// visible here so a polling client learns the advisor let them in.
func (s *AdmissionService) CheckStatus(ctx context.Context, meetingUID, userEmail string) (*models.WaitingRoomEntry, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	return s.WaitingRoomRepository.FindActiveByMeetingAndEmail(ctx, meetingUID, userEmail)
}

// RejectAllWaiting rejects every still-waiting entry for a meeting. Used when
// a meeting ends so no client is left queued forever. Entries that were
// concurrently finalized are skipped.
func (s *AdmissionService) RejectAllWaiting(ctx context.Context, meetingUID string) []error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return []error{domain.ErrServiceUnavailable}
	}

	entries, err := s.WaitingRoomRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		return []error{err}
	}

	var functions []func() error
	for _, entry := range entries {
		if entry.Status != models.WaitingRoomStatusWaiting {
			continue
		}
		entry := entry
		functions = append(functions, func() error {
			_, err := s.Reject(ctx, entry.UID)
			if err != nil && domain.GetErrorType(err) == domain.ErrorTypeConflict {
				// Concurrently admitted or rejected; either way it is settled.
				return nil
			}
			return err
		})
	}

	pool := concurrent.NewWorkerPool(min(len(functions), 10))
	return pool.RunAll(ctx, functions...)
}
