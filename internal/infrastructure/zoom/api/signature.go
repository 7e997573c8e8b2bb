// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// signatureBackdate shifts the embedded timestamp slightly into the past so
// a freshly generated signature is not rejected by SDK clock skew.
const signatureBackdate = 30 * time.Second

// GenerateJoinSignature derives the credential the provider's client SDK
// requires to join a remote session in a given role (0 attendee, 1 host).
// The construction is deterministic from the SDK key pair, meeting number,
// role, and embedded timestamp; it involves no network call and can be
// regenerated at any time within the SDK's validity window.
func (c *Client) GenerateJoinSignature(meetingNumber string, role int) (string, error) {
	return generateJoinSignature(c.config.SDKKey, c.config.SDKSecret, meetingNumber, role, time.Now())
}

func generateJoinSignature(sdkKey, sdkSecret, meetingNumber string, role int, now time.Time) (string, error) {
	if sdkKey == "" || sdkSecret == "" {
		return "", fmt.Errorf("SDK credentials not configured")
	}
	if meetingNumber == "" {
		return "", fmt.Errorf("meeting number is required")
	}

	timestamp := now.Add(-signatureBackdate).UnixMilli()

	message := base64.StdEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%s%s%d%d", sdkKey, meetingNumber, timestamp, role)))

	h := hmac.New(sha256.New, []byte(sdkSecret))
	h.Write([]byte(message))
	hash := base64.StdEncoding.EncodeToString(h.Sum(nil))

	signature := base64.StdEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%s.%s.%d.%d.%s", sdkKey, meetingNumber, timestamp, role, hash)))

	return strings.TrimRight(signature, "="), nil
}
