// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// WaitingRoomStatus is the closed set of states a waiting room entry can be in.
// Entries are created waiting and transition to admitted or rejected exactly
// once; both are terminal.
type WaitingRoomStatus string

const (
	WaitingRoomStatusWaiting  WaitingRoomStatus = "waiting"
	WaitingRoomStatusAdmitted WaitingRoomStatus = "admitted"
	WaitingRoomStatusRejected WaitingRoomStatus = "rejected"
)

// IsValid reports whether the status is one of the known entry states.
func (s WaitingRoomStatus) IsValid() bool {
	switch s {
	case WaitingRoomStatusWaiting, WaitingRoomStatusAdmitted, WaitingRoomStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s WaitingRoomStatus) IsTerminal() bool {
	return s == WaitingRoomStatusAdmitted || s == WaitingRoomStatusRejected
}

// WaitingRoomEntry is the key-value store representation of a client's
// request to join a specific meeting.
type WaitingRoomEntry struct {
	UID             string            `json:"uid"`
	MeetingUID      string            `json:"meeting_uid"`
	BookingUID      string            `json:"booking_uid"`
	UserName        string            `json:"user_name"`
	UserEmail       string            `json:"user_email"`
	Status          WaitingRoomStatus `json:"status"`
	JoinRequestedAt time.Time         `json:"join_requested_at"`
	AdmittedAt      *time.Time        `json:"admitted_at,omitempty"`
}

// Admit transitions the entry from waiting to admitted.
func (e *WaitingRoomEntry) Admit(at time.Time) error {
	if e.Status != WaitingRoomStatusWaiting {
		return fmt.Errorf("cannot admit entry in status %q", e.Status)
	}
	e.Status = WaitingRoomStatusAdmitted
	e.AdmittedAt = &at
	return nil
}

// Reject transitions the entry from waiting to rejected.
func (e *WaitingRoomEntry) Reject() error {
	if e.Status != WaitingRoomStatusWaiting {
		return fmt.Errorf("cannot reject entry in status %q", e.Status)
	}
	e.Status = WaitingRoomStatusRejected
	return nil
}
