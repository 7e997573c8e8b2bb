// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/infrastructure/auth"
	"github.com/advisorly/consult-service/internal/service"
)

// BookingHandlers serves the admin booking endpoints, including issuing the
// client's meeting access token for a booking.
type BookingHandlers struct {
	BookingService *service.BookingService
	TokenIssuer    *auth.Issuer
}

// NewBookingHandlers creates a new BookingHandlers.
func NewBookingHandlers(bookingService *service.BookingService, tokenIssuer *auth.Issuer) *BookingHandlers {
	return &BookingHandlers{
		BookingService: bookingService,
		TokenIssuer:    tokenIssuer,
	}
}

type createBookingRequest struct {
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ClientPhone string    `json:"client_phone"`
	ServiceType string    `json:"service_type"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// CreateBooking handles POST /bookings.
func (h *BookingHandlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.BookingService.CreateBooking(r.Context(), &models.Booking{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		ServiceType: req.ServiceType,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// GetBookings handles GET /bookings.
func (h *BookingHandlers) GetBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.BookingService.GetBookings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// GetBooking handles GET /bookings/{uid}.
func (h *BookingHandlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.BookingService.GetBooking(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

type updateBookingStatusRequest struct {
	Status models.BookingStatus `json:"status"`
}

// UpdateBookingStatus handles PATCH /bookings/{uid}.
func (h *BookingHandlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req updateBookingStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.BookingService.UpdateBookingStatus(r.Context(), chi.URLParam(r, "uid"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// IssueAccessToken handles POST /bookings/{uid}/access-token. The returned
// token lets the booking's client reach the join surface.
func (h *BookingHandlers) IssueAccessToken(w http.ResponseWriter, r *http.Request) {
	bookingUID := chi.URLParam(r, "uid")

	// The booking must exist before a token is minted for it.
	if _, err := h.BookingService.GetBooking(r.Context(), bookingUID); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.TokenIssuer.IssueMeetingAccessToken(bookingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}
