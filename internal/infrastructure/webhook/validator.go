// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

// Package webhook verifies inbound conferencing provider webhooks: the
// per-delivery HMAC signature and the provider's one-time URL validation
// challenge. Verification always runs against the raw request bytes,
// before any JSON parsing.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// maxTimestampAge is the replay protection tolerance for signed deliveries.
const maxTimestampAge = 5 * time.Minute

// Validator handles verification of provider webhook deliveries
type Validator struct {
	secretToken string
}

// NewValidator creates a new webhook validator
func NewValidator(secretToken string) *Validator {
	return &Validator{
		secretToken: secretToken,
	}
}

// ValidateSignature validates a provider webhook signature against the raw
// request body. The expected signature is "v0=" + hex(HMAC-SHA256 of
// "v0:<timestamp>:<body>" keyed with the webhook secret).
func (v *Validator) ValidateSignature(body []byte, signature, timestamp string) error {
	if v.secretToken == "" {
		return fmt.Errorf("webhook secret token not configured")
	}

	if signature == "" {
		return fmt.Errorf("missing webhook signature")
	}

	if timestamp == "" {
		return fmt.Errorf("missing webhook timestamp")
	}

	// Parse timestamp for replay protection
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp format: %w", err)
	}

	// Bound the skew in both directions so neither replayed nor
	// future-dated deliveries pass.
	skew := time.Now().Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(maxTimestampAge.Seconds()) {
		return fmt.Errorf("request timestamp outside allowed window")
	}

	message := fmt.Sprintf("v0:%s:%s", timestamp, string(body))

	h := hmac.New(sha256.New, []byte(v.secretToken))
	h.Write([]byte(message))
	expectedSignature := hex.EncodeToString(h.Sum(nil))

	// Compare without the "v0=" prefix using constant-time comparison
	providedSignature := strings.TrimPrefix(signature, "v0=")
	if !hmac.Equal([]byte(providedSignature), []byte(expectedSignature)) {
		return fmt.Errorf("invalid webhook signature")
	}

	return nil
}

// EncryptValidationToken computes the challenge response for the provider's
// endpoint.url_validation handshake: hex(HMAC-SHA256(plainToken, secret)).
// No signature check applies to the handshake; it precedes secret
// confirmation in the provider's own setup flow.
func (v *Validator) EncryptValidationToken(plainToken string) (string, error) {
	if v.secretToken == "" {
		return "", fmt.Errorf("webhook secret token not configured")
	}

	h := hmac.New(sha256.New, []byte(v.secretToken))
	h.Write([]byte(plainToken))
	return hex.EncodeToString(h.Sum(nil)), nil
}
