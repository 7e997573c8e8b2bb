// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advisorly/consult-service/internal/infrastructure/auth"
)

func newTestIssuer(t *testing.T) *auth.Issuer {
	t.Helper()

	issuer, err := auth.NewIssuer(auth.Config{Secret: "test-signing-secret"})
	require.NoError(t, err)
	return issuer
}

func TestAdminAuthMiddleware(t *testing.T) {
	issuer := newTestIssuer(t)

	adminToken, err := issuer.IssueAdminToken(auth.AdminIdentity{
		ID:    "admin-1",
		Email: "advisor@advisorly.example",
		Role:  "advisor",
	})
	require.NoError(t, err)

	var gotClaims *auth.AdminClaims
	handler := AdminAuthMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = AdminClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "advisor@advisorly.example", gotClaims.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("meeting access token rejected", func(t *testing.T) {
		clientToken, err := issuer.IssueMeetingAccessToken("booking-456")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
		req.Header.Set("Authorization", "Bearer "+clientToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMeetingAccessAuthMiddleware(t *testing.T) {
	issuer := newTestIssuer(t)

	clientToken, err := issuer.IssueMeetingAccessToken("booking-456")
	require.NoError(t, err)

	var gotClaims *auth.MeetingAccessClaims
	handler := MeetingAccessAuthMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = MeetingAccessClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/join/booking-456", nil)
		req.Header.Set("Authorization", "Bearer "+clientToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "booking-456", gotClaims.BookingUID)
	})

	t.Run("query parameter token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/join/booking-456?access_token="+clientToken, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/join/booking-456", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDualAuthMiddleware(t *testing.T) {
	issuer := newTestIssuer(t)

	handler := DualAuthMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, isAdmin := AdminClaimsFromContext(r.Context())
		_, isClient := MeetingAccessClaimsFromContext(r.Context())
		if isAdmin {
			w.WriteHeader(http.StatusOK)
			return
		}
		if isClient {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	t.Run("admin token", func(t *testing.T) {
		token, err := issuer.IssueAdminToken(auth.AdminIdentity{Email: "advisor@advisorly.example", Role: "advisor"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/meetings/meeting-123/chat/messages", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("meeting access token", func(t *testing.T) {
		token, err := issuer.IssueMeetingAccessToken("booking-456")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/meetings/meeting-123/chat/messages", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/meetings/meeting-123/chat/messages", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
