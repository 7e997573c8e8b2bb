// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/advisorly/consult-service/internal/metrics"
	"github.com/advisorly/consult-service/internal/service"
)

// MeetingHandlers serves the advisor-facing meeting lifecycle endpoints.
type MeetingHandlers struct {
	MeetingService *service.MeetingService
	Metrics        *metrics.ServiceMetrics
}

// NewMeetingHandlers creates a new MeetingHandlers.
func NewMeetingHandlers(meetingService *service.MeetingService, serviceMetrics *metrics.ServiceMetrics) *MeetingHandlers {
	return &MeetingHandlers{
		MeetingService: meetingService,
		Metrics:        serviceMetrics,
	}
}

// StartMeeting handles POST /meetings/start/{bookingUID}.
func (h *MeetingHandlers) StartMeeting(w http.ResponseWriter, r *http.Request) {
	bookingUID := chi.URLParam(r, "bookingUID")

	meeting, err := h.MeetingService.StartMeeting(r.Context(), bookingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.Metrics.ObserveMeetingStarted()
	writeJSON(w, http.StatusCreated, meeting)
}

// EndMeeting handles POST /meetings/{uid}/end.
func (h *MeetingHandlers) EndMeeting(w http.ResponseWriter, r *http.Request) {
	meetingUID := chi.URLParam(r, "uid")

	meeting, err := h.MeetingService.EndMeeting(r.Context(), meetingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.Metrics.ObserveMeetingEnded()
	writeJSON(w, http.StatusOK, meeting)
}

// GetMeetings handles GET /meetings.
func (h *MeetingHandlers) GetMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.MeetingService.GetMeetings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meetings)
}

// GetMeeting handles GET /meetings/{uid}.
func (h *MeetingHandlers) GetMeeting(w http.ResponseWriter, r *http.Request) {
	meeting, err := h.MeetingService.GetMeeting(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meeting)
}

// DeleteMeeting handles DELETE /meetings/{uid}.
func (h *MeetingHandlers) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	if err := h.MeetingService.DeleteMeeting(r.Context(), chi.URLParam(r, "uid")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetRecordings handles GET /meetings/{uid}/recordings.
func (h *MeetingHandlers) GetRecordings(w http.ResponseWriter, r *http.Request) {
	recordings, err := h.MeetingService.GetRecordings(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recordings)
}

// GetAnalytics handles GET /analytics.
func (h *MeetingHandlers) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.MeetingService.GetAnalytics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

// GetHostSignature handles POST /meetings/{uid}/host-signature.
func (h *MeetingHandlers) GetHostSignature(w http.ResponseWriter, r *http.Request) {
	signature, err := h.MeetingService.GetHostSignature(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"signature": signature})
}
