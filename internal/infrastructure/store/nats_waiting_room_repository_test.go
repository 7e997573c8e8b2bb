// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
)

func waitingEntry(uid, meetingUID, email string, requestedAt time.Time) *models.WaitingRoomEntry {
	return &models.WaitingRoomEntry{
		UID:             uid,
		MeetingUID:      meetingUID,
		BookingUID:      "booking-456",
		UserName:        "Jane Doe",
		UserEmail:       email,
		Status:          models.WaitingRoomStatusWaiting,
		JoinRequestedAt: requestedAt,
	}
}

func TestNatsWaitingRoomRepository_CreateAndGet(t *testing.T) {
	entries := newMockNatsKeyValue()
	repo := NewNatsWaitingRoomRepository(entries)

	entry := waitingEntry("entry-1", "meeting-123", "jane@example.com", time.Now())
	if err := repo.Create(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(context.Background(), "entry-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserEmail != entry.UserEmail {
		t.Errorf("expected UserEmail %s, got %s", entry.UserEmail, got.UserEmail)
	}
	if got.Status != models.WaitingRoomStatusWaiting {
		t.Errorf("expected waiting status, got %s", got.Status)
	}
}

func TestNatsWaitingRoomRepository_Get_NotFound(t *testing.T) {
	entries := newMockNatsKeyValue()
	repo := NewNatsWaitingRoomRepository(entries)

	_, err := repo.Get(context.Background(), "non-existent")
	if err != domain.ErrWaitingRoomEntryNotFound {
		t.Errorf("expected ErrWaitingRoomEntryNotFound, got %v", err)
	}
}

func TestNatsWaitingRoomRepository_Update_RevisionMismatch(t *testing.T) {
	entries := newMockNatsKeyValue()
	repo := NewNatsWaitingRoomRepository(entries)

	entry := waitingEntry("entry-1", "meeting-123", "jane@example.com", time.Now())
	if err := repo.Create(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := repo.Update(context.Background(), entry, 42)
	if err != domain.ErrRevisionMismatch {
		t.Errorf("expected ErrRevisionMismatch, got %v", err)
	}
}

func TestNatsWaitingRoomRepository_ListByMeeting(t *testing.T) {
	entries := newMockNatsKeyValue()
	repo := NewNatsWaitingRoomRepository(entries)

	now := time.Now()
	second := waitingEntry("entry-second", "meeting-123", "second@example.com", now)
	first := waitingEntry("entry-first", "meeting-123", "first@example.com", now.Add(-5*time.Minute))
	other := waitingEntry("entry-other", "meeting-999", "other@example.com", now.Add(-time.Hour))
	for _, e := range []*models.WaitingRoomEntry{second, first, other} {
		if err := repo.Create(context.Background(), e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := repo.ListByMeeting(context.Background(), "meeting-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].UID != "entry-first" || got[1].UID != "entry-second" {
		t.Errorf("expected entries ordered by join request time, got %s then %s", got[0].UID, got[1].UID)
	}
}

func TestNatsWaitingRoomRepository_FindActiveByMeetingAndEmail(t *testing.T) {
	entries := newMockNatsKeyValue()
	repo := NewNatsWaitingRoomRepository(entries)

	rejected := waitingEntry("entry-rejected", "meeting-123", "jane@example.com", time.Now().Add(-time.Hour))
	rejected.Status = models.WaitingRoomStatusRejected
	active := waitingEntry("entry-active", "meeting-123", "jane@example.com", time.Now())
	for _, e := range []*models.WaitingRoomEntry{rejected, active} {
		if err := repo.Create(context.Background(), e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := repo.FindActiveByMeetingAndEmail(context.Background(), "meeting-123", "JANE@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UID != "entry-active" {
		t.Errorf("expected the waiting entry, got %s", got.UID)
	}

	_, err = repo.FindActiveByMeetingAndEmail(context.Background(), "meeting-123", "absent@example.com")
	if err != domain.ErrWaitingRoomEntryNotFound {
		t.Errorf("expected ErrWaitingRoomEntryNotFound, got %v", err)
	}
}

func TestNatsWaitingRoomRepository_FindActiveByMeetingAndEmail_AdmittedEntry(t *testing.T) {
	entries := newMockNatsKeyValue()
	repo := NewNatsWaitingRoomRepository(entries)

	admitted := waitingEntry("entry-admitted", "meeting-123", "jane@example.com", time.Now().Add(-time.Minute))
	if err := admitted.Admit(time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Create(context.Background(), admitted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.FindActiveByMeetingAndEmail(context.Background(), "meeting-123", "jane@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UID != "entry-admitted" {
		t.Errorf("expected the admitted entry, got %s", got.UID)
	}
	if got.Status != models.WaitingRoomStatusAdmitted {
		t.Errorf("expected admitted status, got %s", got.Status)
	}
}
