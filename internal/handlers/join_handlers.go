// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/middleware"
	"github.com/advisorly/consult-service/internal/service"
)

// JoinHandlers serves the client-facing join surface. Every request carries a
// meeting access token; the token proves authenticity, and the handlers check
// that its booking claim matches the booking in the path.
type JoinHandlers struct {
	MeetingService   *service.MeetingService
	AdmissionService *service.AdmissionService
}

// NewJoinHandlers creates a new JoinHandlers.
func NewJoinHandlers(meetingService *service.MeetingService, admissionService *service.AdmissionService) *JoinHandlers {
	return &JoinHandlers{
		MeetingService:   meetingService,
		AdmissionService: admissionService,
	}
}

// scopedBookingUID returns the path booking UID after checking it against the
// token's booking claim.
func scopedBookingUID(r *http.Request) (string, error) {
	bookingUID := chi.URLParam(r, "bookingUID")

	claims, ok := middleware.MeetingAccessClaimsFromContext(r.Context())
	if !ok || claims.BookingUID != bookingUID {
		return "", domain.NewUnauthorizedError("token is not valid for this booking")
	}

	return bookingUID, nil
}

type joinInfoResponse struct {
	MeetingUID        string `json:"meeting_uid"`
	ProviderMeetingID string `json:"provider_meeting_id"`
	Password          string `json:"password,omitempty"`
	Topic             string `json:"topic,omitempty"`
	Signature         string `json:"signature"`
}

// GetJoinInfo handles GET /join/{bookingUID}.
func (h *JoinHandlers) GetJoinInfo(w http.ResponseWriter, r *http.Request) {
	bookingUID, err := scopedBookingUID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	info, err := h.MeetingService.GetJoinInfo(r.Context(), bookingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, joinInfoResponse{
		MeetingUID:        info.Meeting.UID,
		ProviderMeetingID: info.Meeting.ProviderMeetingID,
		Password:          info.Meeting.Password,
		Topic:             info.Meeting.Topic,
		Signature:         info.Signature,
	})
}

type enterWaitingRoomRequest struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// EnterWaitingRoom handles POST /join/{bookingUID}/waiting-room.
func (h *JoinHandlers) EnterWaitingRoom(w http.ResponseWriter, r *http.Request) {
	bookingUID, err := scopedBookingUID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req enterWaitingRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.UserName == "" || req.UserEmail == "" {
		writeError(w, r, domain.NewValidationError("user name and email are required"))
		return
	}

	meeting, err := h.MeetingService.GetActiveMeetingForBooking(r.Context(), bookingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.AdmissionService.EnterWaitingRoom(r.Context(), meeting.UID, bookingUID, req.UserName, req.UserEmail)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// WaitingRoomStatus handles GET /join/{bookingUID}/waiting-room/status.
func (h *JoinHandlers) WaitingRoomStatus(w http.ResponseWriter, r *http.Request) {
	bookingUID, err := scopedBookingUID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	userEmail := r.URL.Query().Get("email")
	if userEmail == "" {
		writeError(w, r, domain.NewValidationError("email query parameter is required"))
		return
	}

	meeting, err := h.MeetingService.GetActiveMeetingForBooking(r.Context(), bookingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.AdmissionService.CheckStatus(r.Context(), meeting.UID, userEmail)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}
