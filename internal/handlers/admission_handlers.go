// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/advisorly/consult-service/internal/service"
)

// AdmissionHandlers serves the advisor-facing waiting room endpoints.
type AdmissionHandlers struct {
	AdmissionService *service.AdmissionService
}

// NewAdmissionHandlers creates a new AdmissionHandlers.
func NewAdmissionHandlers(admissionService *service.AdmissionService) *AdmissionHandlers {
	return &AdmissionHandlers{
		AdmissionService: admissionService,
	}
}

// GetQueue handles GET /meetings/{uid}/waiting-room.
func (h *AdmissionHandlers) GetQueue(w http.ResponseWriter, r *http.Request) {
	entries, err := h.AdmissionService.GetQueue(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// Admit handles POST /waiting-room/{entryUID}/admit.
func (h *AdmissionHandlers) Admit(w http.ResponseWriter, r *http.Request) {
	entry, err := h.AdmissionService.Admit(r.Context(), chi.URLParam(r, "entryUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Reject handles POST /waiting-room/{entryUID}/reject.
func (h *AdmissionHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	entry, err := h.AdmissionService.Reject(r.Context(), chi.URLParam(r, "entryUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}
