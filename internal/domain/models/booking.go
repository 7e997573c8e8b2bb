// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package models

import "time"

// BookingStatus is the closed set of states a booking can be in.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsValid reports whether the status is one of the known booking states.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Booking is the key-value store representation of a scheduled consultation slot.
type Booking struct {
	UID         string        `json:"uid"`
	ClientName  string        `json:"client_name"`
	ClientEmail string        `json:"client_email"`
	ClientPhone string        `json:"client_phone,omitempty"`
	ServiceType string        `json:"service_type"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Status      BookingStatus `json:"status"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}
