// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/mocks"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/infrastructure/auth"
	"github.com/advisorly/consult-service/internal/infrastructure/webhook"
	"github.com/advisorly/consult-service/internal/metrics"
	"github.com/advisorly/consult-service/internal/middleware"
	"github.com/advisorly/consult-service/internal/service"
)

const webhookTestSecret = "test-webhook-secret"

type webhookHandlerMocks struct {
	meetingRepo    *mocks.MockMeetingRepository
	bookingRepo    *mocks.MockBookingRepository
	waitingRepo    *mocks.MockWaitingRoomRepository
	emailService   *mocks.MockEmailService
	messageBuilder *mocks.MockMessageBuilder
}

func newWebhookHandler(t *testing.T) (http.Handler, *webhookHandlerMocks) {
	t.Helper()

	m := &webhookHandlerMocks{
		meetingRepo:    &mocks.MockMeetingRepository{},
		bookingRepo:    &mocks.MockBookingRepository{},
		waitingRepo:    &mocks.MockWaitingRoomRepository{},
		emailService:   &mocks.MockEmailService{},
		messageBuilder: &mocks.MockMessageBuilder{},
	}

	issuer, err := auth.NewIssuer(auth.Config{Secret: "test-signing-secret"})
	require.NoError(t, err)

	admissionService := service.NewAdmissionService(m.meetingRepo, m.waitingRepo)
	meetingService := service.NewMeetingService(
		m.bookingRepo,
		m.meetingRepo,
		&mocks.MockProviderAPI{},
		m.emailService,
		m.messageBuilder,
		issuer,
		admissionService,
		service.ServiceConfig{ClientBaseURL: "https://app.advisorly.example", DefaultMeetingDurationMinutes: 60},
	)
	webhookService := service.NewWebhookService(m.meetingRepo, m.bookingRepo, meetingService, m.emailService, m.messageBuilder)

	h := NewWebhookHandlers(
		webhook.NewValidator(webhookTestSecret),
		webhookService,
		metrics.NewServiceMetrics(prometheus.NewRegistry()),
	)

	return middleware.WebhookBodyCaptureMiddleware()(http.HandlerFunc(h.HandleZoomWebhook)), m
}

func signWebhookBody(body []byte, timestamp string) string {
	h := hmac.New(sha256.New, []byte(webhookTestSecret))
	h.Write([]byte(fmt.Sprintf("v0:%s:%s", timestamp, string(body))))
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}

func postWebhook(t *testing.T, handler http.Handler, body []byte, sign bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/zoom", bytes.NewReader(body))
	if sign {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		req.Header.Set("x-zm-request-timestamp", timestamp)
		req.Header.Set("x-zm-signature", signWebhookBody(body, timestamp))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleZoomWebhook_URLValidation(t *testing.T) {
	handler, _ := newWebhookHandler(t)

	body := []byte(`{"event":"endpoint.url_validation","payload":{"plainToken":"qgg8vlvZRS6UYooatFL8Aw"}}`)
	// The handshake carries no signature.
	rec := postWebhook(t, handler, body, false)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.URLValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "qgg8vlvZRS6UYooatFL8Aw", resp.PlainToken)

	h := hmac.New(sha256.New, []byte(webhookTestSecret))
	h.Write([]byte("qgg8vlvZRS6UYooatFL8Aw"))
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), resp.EncryptedToken)
}

func TestHandleZoomWebhook_InvalidSignature(t *testing.T) {
	handler, _ := newWebhookHandler(t)

	body := []byte(`{"event":"meeting.ended","payload":{"object":{"id":"987654321"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/zoom", bytes.NewReader(body))
	req.Header.Set("x-zm-request-timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	req.Header.Set("x-zm-signature", "v0=deadbeef")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandleZoomWebhook_MissingSignature(t *testing.T) {
	handler, _ := newWebhookHandler(t)

	body := []byte(`{"event":"meeting.ended","payload":{"object":{"id":"987654321"}}}`)
	rec := postWebhook(t, handler, body, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleZoomWebhook_MalformedBody(t *testing.T) {
	handler, _ := newWebhookHandler(t)

	rec := postWebhook(t, handler, []byte(`{not json`), true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleZoomWebhook_MeetingEnded(t *testing.T) {
	handler, m := newWebhookHandler(t)

	meeting := &models.Meeting{
		UID:               "meeting-123",
		BookingUID:        "booking-456",
		ProviderMeetingID: "987654321",
		Status:            models.MeetingStatusActive,
		StartedAt:         time.Now().Add(-time.Hour),
	}
	m.meetingRepo.On("GetByProviderMeetingID", mock.Anything, "987654321").Return(meeting, nil)
	m.meetingRepo.On("GetWithRevision", mock.Anything, "meeting-123").Return(meeting, uint64(1), nil)
	m.meetingRepo.On("Update", mock.Anything, mock.Anything, uint64(1)).Return(nil)
	m.waitingRepo.On("ListByMeeting", mock.Anything, "meeting-123").Return([]*models.WaitingRoomEntry{}, nil)
	m.messageBuilder.On("SendMeetingEnded", mock.Anything, mock.Anything).Return(nil)

	body, err := json.Marshal(map[string]any{
		"event": "meeting.ended",
		"payload": map[string]any{
			"object": map[string]any{
				"id":       "987654321",
				"end_time": time.Now().Format(time.RFC3339),
				"duration": 60,
			},
		},
	})
	require.NoError(t, err)

	rec := postWebhook(t, handler, body, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	m.meetingRepo.AssertExpectations(t)
}

func TestHandleZoomWebhook_ProcessingError(t *testing.T) {
	handler, m := newWebhookHandler(t)

	m.meetingRepo.On("GetByProviderMeetingID", mock.Anything, "987654321").
		Return(nil, domain.ErrServiceUnavailable)

	body, err := json.Marshal(map[string]any{
		"event": "meeting.ended",
		"payload": map[string]any{
			"object": map[string]any{
				"id":       "987654321",
				"end_time": time.Now().Format(time.RFC3339),
			},
		},
	})
	require.NoError(t, err)

	rec := postWebhook(t, handler, body, true)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
