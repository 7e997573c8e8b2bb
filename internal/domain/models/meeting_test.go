// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingEnd(t *testing.T) {
	started := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name                    string
		endedAt                 time.Time
		providerDurationMinutes int
		expectedDuration        int
	}{
		{
			name:                    "provider duration wins",
			endedAt:                 started.Add(30 * time.Minute),
			providerDurationMinutes: 45,
			expectedDuration:        45,
		},
		{
			name:             "computed from elapsed time",
			endedAt:          started.Add(52 * time.Minute),
			expectedDuration: 52,
		},
		{
			name:             "elapsed time rounds to nearest minute",
			endedAt:          started.Add(29*time.Minute + 40*time.Second),
			expectedDuration: 30,
		},
		{
			name:             "end before start clamps to zero",
			endedAt:          started.Add(-5 * time.Minute),
			expectedDuration: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Meeting{
				UID:       "meeting-123",
				Status:    MeetingStatusActive,
				StartedAt: started,
			}

			err := m.End(tt.endedAt, tt.providerDurationMinutes)
			require.NoError(t, err)
			assert.Equal(t, MeetingStatusEnded, m.Status)
			assert.Equal(t, tt.expectedDuration, m.DurationMinutes)
			require.NotNil(t, m.EndedAt)
			assert.Equal(t, tt.endedAt, *m.EndedAt)
		})
	}
}

func TestMeetingEnd_AlreadyEnded(t *testing.T) {
	m := &Meeting{
		UID:       "meeting-123",
		Status:    MeetingStatusEnded,
		StartedAt: time.Now().Add(-time.Hour),
	}

	err := m.End(time.Now(), 0)
	assert.Error(t, err)
}

func TestMeetingStatus(t *testing.T) {
	assert.True(t, MeetingStatusActive.IsValid())
	assert.True(t, MeetingStatusEnded.IsValid())
	assert.False(t, MeetingStatus("paused").IsValid())

	assert.False(t, MeetingStatusActive.IsTerminal())
	assert.True(t, MeetingStatusEnded.IsTerminal())
}
