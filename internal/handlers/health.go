// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"
)

// HealthHandlers serves the liveness and readiness probes.
type HealthHandlers struct {
	// ReadyCheck reports whether downstream dependencies (NATS) are usable.
	ReadyCheck func() bool
}

// NewHealthHandlers creates a new HealthHandlers.
func NewHealthHandlers(readyCheck func() bool) *HealthHandlers {
	return &HealthHandlers{
		ReadyCheck: readyCheck,
	}
}

// Livez handles GET /livez. The process is alive if it can answer at all.
func (h *HealthHandlers) Livez(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readyz handles GET /readyz.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ReadyCheck != nil && !h.ReadyCheck() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("NOT READY"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
