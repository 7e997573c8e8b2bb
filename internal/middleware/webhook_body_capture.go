// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// WebhookBodyContextKey is the context key for storing raw webhook body
type WebhookBodyContextKey struct{}

// WebhookBodyCaptureMiddleware captures the raw request body for webhook
// endpoints and stores it in the request context. Signature validation needs
// the exact bytes on the wire, before any JSON decoding touches them.
func WebhookBodyCaptureMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusBadRequest)
				return
			}

			_ = r.Body.Close()

			// Reset the body so the handler can still decode it
			r.Body = io.NopCloser(bytes.NewReader(body))

			ctx := context.WithValue(r.Context(), WebhookBodyContextKey{}, body)
			r = r.WithContext(ctx)

			next.ServeHTTP(w, r)
		})
	}
}

// GetRawBodyFromContext extracts the raw body from the context
func GetRawBodyFromContext(ctx context.Context) ([]byte, bool) {
	body, ok := ctx.Value(WebhookBodyContextKey{}).([]byte)
	return body, ok
}
