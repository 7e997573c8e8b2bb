// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/advisorly/consult-service/internal/infrastructure/auth"
	"github.com/advisorly/consult-service/internal/logging"
)

// AdminClaimsContextKey is the context key for verified admin claims.
type AdminClaimsContextKey struct{}

// MeetingAccessClaimsContextKey is the context key for verified meeting access claims.
type MeetingAccessClaimsContextKey struct{}

// bearerToken extracts the credential from the Authorization header, falling
// back to the access_token query parameter for links opened from emails.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("access_token")
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
}

// AdminAuthMiddleware requires a valid admin token on every request.
func AdminAuthMiddleware(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			claims, err := issuer.VerifyAdminToken(token)
			if err != nil {
				slog.DebugContext(r.Context(), "admin token rejected", logging.ErrKey, err)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), AdminClaimsContextKey{}, claims)
			ctx = logging.AppendCtx(ctx, slog.String("principal", claims.Email))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MeetingAccessAuthMiddleware requires a valid meeting access token. The
// token proves authenticity only; handlers must still check that the claimed
// booking matches the resource being accessed.
func MeetingAccessAuthMiddleware(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			claims, err := issuer.VerifyMeetingAccessToken(token)
			if err != nil {
				slog.DebugContext(r.Context(), "meeting access token rejected", logging.ErrKey, err)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), MeetingAccessClaimsContextKey{}, claims)
			ctx = logging.AppendCtx(ctx, slog.String("booking_uid", claims.BookingUID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DualAuthMiddleware accepts either an admin token or a meeting access token.
// Used on surfaces shared by the advisor and the client, like meeting chat.
func DualAuthMiddleware(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			if claims, err := issuer.VerifyAdminToken(token); err == nil {
				ctx := context.WithValue(r.Context(), AdminClaimsContextKey{}, claims)
				ctx = logging.AppendCtx(ctx, slog.String("principal", claims.Email))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			claims, err := issuer.VerifyMeetingAccessToken(token)
			if err != nil {
				slog.DebugContext(r.Context(), "token rejected by both verifiers", logging.ErrKey, err)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), MeetingAccessClaimsContextKey{}, claims)
			ctx = logging.AppendCtx(ctx, slog.String("booking_uid", claims.BookingUID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaimsFromContext extracts verified admin claims from the context.
func AdminClaimsFromContext(ctx context.Context) (*auth.AdminClaims, bool) {
	claims, ok := ctx.Value(AdminClaimsContextKey{}).(*auth.AdminClaims)
	return claims, ok
}

// MeetingAccessClaimsFromContext extracts verified meeting access claims from the context.
func MeetingAccessClaimsFromContext(ctx context.Context) (*auth.MeetingAccessClaims, bool) {
	claims, ok := ctx.Value(MeetingAccessClaimsContextKey{}).(*auth.MeetingAccessClaims)
	return claims, ok
}
