// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/infrastructure/webhook"
	"github.com/advisorly/consult-service/internal/logging"
	"github.com/advisorly/consult-service/internal/metrics"
	"github.com/advisorly/consult-service/internal/middleware"
	"github.com/advisorly/consult-service/internal/service"
)

// Zoom webhook headers carrying the delivery signature.
const (
	zoomSignatureHeader = "x-zm-signature"
	zoomTimestampHeader = "x-zm-request-timestamp"
)

// WebhookHandlers serves the provider webhook endpoint. Every delivery except
// the one-time URL validation handshake must carry a valid HMAC signature.
type WebhookHandlers struct {
	Validator      *webhook.Validator
	WebhookService *service.WebhookService
	Metrics        *metrics.ServiceMetrics
}

// NewWebhookHandlers creates a new WebhookHandlers.
func NewWebhookHandlers(validator *webhook.Validator, webhookService *service.WebhookService, serviceMetrics *metrics.ServiceMetrics) *WebhookHandlers {
	return &WebhookHandlers{
		Validator:      validator,
		WebhookService: webhookService,
		Metrics:        serviceMetrics,
	}
}

// HandleZoomWebhook handles POST /webhooks/zoom.
func (h *WebhookHandlers) HandleZoomWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	rawBody, ok := middleware.GetRawBodyFromContext(ctx)
	if !ok {
		slog.ErrorContext(ctx, "webhook raw body missing from context", logging.PriorityCritical())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var envelope models.WebhookEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		slog.WarnContext(ctx, "malformed webhook body", logging.ErrKey, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ctx = logging.AppendCtx(ctx, slog.String("webhook_event", envelope.Event))

	// The validation handshake happens before the provider has a signature
	// to send, so it is answered without a signature check.
	if envelope.Event == models.WebhookEventURLValidation {
		h.handleURLValidation(ctx, w, &envelope)
		return
	}

	err := h.Validator.ValidateSignature(rawBody, r.Header.Get(zoomSignatureHeader), r.Header.Get(zoomTimestampHeader))
	if err != nil {
		slog.WarnContext(ctx, "webhook signature rejected", logging.ErrKey, err)
		h.Metrics.ObserveSignatureFailure()
		// No detail in the response body for failed verification.
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.WebhookService.ProcessEvent(ctx, &envelope); err != nil {
		h.Metrics.ObserveWebhook(envelope.Event, "error")
		writeError(w, r, err)
		return
	}

	h.Metrics.ObserveWebhook(envelope.Event, "ok")
	h.Metrics.ObserveWebhookLatency(envelope.Event, time.Since(start).Seconds())
	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandlers) handleURLValidation(ctx context.Context, w http.ResponseWriter, envelope *models.WebhookEnvelope) {
	payload, err := envelope.ToURLValidationPayload()
	if err != nil {
		slog.WarnContext(ctx, "malformed url validation payload", logging.ErrKey, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	encryptedToken, err := h.Validator.EncryptValidationToken(payload.PlainToken)
	if err != nil {
		slog.ErrorContext(ctx, "cannot answer url validation challenge", logging.ErrKey, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.URLValidationResponse{
		PlainToken:     payload.PlainToken,
		EncryptedToken: encryptedToken,
	})
}
