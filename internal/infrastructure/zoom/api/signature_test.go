// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJoinSignature(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	sdkKey := "sdk-key"
	sdkSecret := "sdk-secret"
	meetingNumber := "123456789"

	sig, err := generateJoinSignature(sdkKey, sdkSecret, meetingNumber, 1, now)
	require.NoError(t, err)
	require.NotEmpty(t, sig)
	assert.False(t, strings.HasSuffix(sig, "="))

	// The signature decodes to "key.meeting.timestamp.role.hash" where the
	// hash is HMAC-SHA256 over the base64 of the concatenated fields.
	padded := sig + strings.Repeat("=", (4-len(sig)%4)%4)
	decoded, err := base64.StdEncoding.DecodeString(padded)
	require.NoError(t, err)

	parts := strings.Split(string(decoded), ".")
	require.Len(t, parts, 5)
	assert.Equal(t, sdkKey, parts[0])
	assert.Equal(t, meetingNumber, parts[1])
	assert.Equal(t, fmt.Sprintf("%d", now.Add(-signatureBackdate).UnixMilli()), parts[2])
	assert.Equal(t, "1", parts[3])

	message := base64.StdEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%s%s%s%s", parts[0], parts[1], parts[2], parts[3])))
	h := hmac.New(sha256.New, []byte(sdkSecret))
	h.Write([]byte(message))
	assert.Equal(t, base64.StdEncoding.EncodeToString(h.Sum(nil)), parts[4])
}

func TestGenerateJoinSignatureDeterministic(t *testing.T) {
	now := time.Now()

	first, err := generateJoinSignature("key", "secret", "987654321", 0, now)
	require.NoError(t, err)
	second, err := generateJoinSignature("key", "secret", "987654321", 0, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := generateJoinSignature("key", "secret", "987654321", 1, now)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestGenerateJoinSignatureValidation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		sdkKey        string
		sdkSecret     string
		meetingNumber string
	}{
		{name: "missing SDK key", sdkKey: "", sdkSecret: "secret", meetingNumber: "123"},
		{name: "missing SDK secret", sdkKey: "key", sdkSecret: "", meetingNumber: "123"},
		{name: "missing meeting number", sdkKey: "key", sdkSecret: "secret", meetingNumber: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := generateJoinSignature(tt.sdkKey, tt.sdkSecret, tt.meetingNumber, 0, now)
			assert.Error(t, err)
		})
	}
}
