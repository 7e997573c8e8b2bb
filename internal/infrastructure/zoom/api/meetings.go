// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/advisorly/consult-service/internal/domain"
)

// Meeting type constants for the provider API
const (
	MeetingTypeInstant   = 1
	MeetingTypeScheduled = 2
)

// StartTimeFormat is the timestamp layout the provider expects for scheduled sessions.
const StartTimeFormat = "2006-01-02T15:04:05Z"

// CreateMeetingRequest represents the request to create a provider meeting
type CreateMeetingRequest struct {
	Topic     string           `json:"topic"`
	Type      int              `json:"type"`
	StartTime string           `json:"start_time,omitempty"`
	Duration  int              `json:"duration,omitempty"`
	Timezone  string           `json:"timezone,omitempty"`
	Agenda    string           `json:"agenda,omitempty"`
	Settings  *MeetingSettings `json:"settings,omitempty"`
}

// MeetingSettings represents provider meeting settings
type MeetingSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	MuteUponEntry    bool   `json:"mute_upon_entry"`
	Audio            string `json:"audio"`
	AutoRecording    string `json:"auto_recording"`
	WaitingRoom      bool   `json:"waiting_room"`
}

// MeetingResponse represents the provider's view of a meeting
type MeetingResponse struct {
	ID        int64            `json:"id"`
	UUID      string           `json:"uuid"`
	HostID    string           `json:"host_id"`
	Topic     string           `json:"topic"`
	Type      int              `json:"type"`
	Status    string           `json:"status"`
	StartTime string           `json:"start_time"`
	Duration  int              `json:"duration"`
	StartURL  string           `json:"start_url"`
	JoinURL   string           `json:"join_url"`
	Password  string           `json:"password"`
	Settings  *MeetingSettings `json:"settings"`
}

func (r *MeetingResponse) toProviderMeeting() *domain.ProviderMeeting {
	return &domain.ProviderMeeting{
		ID:       strconv.FormatInt(r.ID, 10),
		Topic:    r.Topic,
		JoinURL:  r.JoinURL,
		StartURL: r.StartURL,
		Password: r.Password,
		Status:   r.Status,
	}
}

// CreateMeeting schedules a new remote session with the waiting room and
// cloud recording enabled and video on by default for both sides.
func (c *Client) CreateMeeting(ctx context.Context, req domain.CreateProviderMeeting) (*domain.ProviderMeeting, error) {
	request := &CreateMeetingRequest{
		Topic:     req.Topic,
		Type:      MeetingTypeScheduled,
		StartTime: req.StartTime.UTC().Format(StartTimeFormat),
		Duration:  req.DurationMinutes,
		Timezone:  "UTC",
		Agenda:    req.Agenda,
		Settings: &MeetingSettings{
			HostVideo:        true,
			ParticipantVideo: true,
			JoinBeforeHost:   false,
			MuteUponEntry:    false,
			Audio:            "both",
			AutoRecording:    "cloud",
			WaitingRoom:      true,
		},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/users/me/meetings", request)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	var meetingResp MeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&meetingResp); err != nil {
		return nil, fmt.Errorf("failed to decode meeting response: %w", err)
	}

	return meetingResp.toProviderMeeting(), nil
}

// GetMeeting fetches a scheduled session from the provider
func (c *Client) GetMeeting(ctx context.Context, providerMeetingID string) (*domain.ProviderMeeting, error) {
	path := fmt.Sprintf("/meetings/%s", providerMeetingID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewNotFoundError("provider meeting not found")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	var meetingResp MeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&meetingResp); err != nil {
		return nil, fmt.Errorf("failed to decode meeting response: %w", err)
	}

	return meetingResp.toProviderMeeting(), nil
}

// DeleteMeeting deletes a scheduled session from the provider
func (c *Client) DeleteMeeting(ctx context.Context, providerMeetingID string) error {
	path := fmt.Sprintf("/meetings/%s", providerMeetingID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp.StatusCode, body)
	}

	return nil
}

// recordingsResponse is the provider's recordings listing for a meeting
type recordingsResponse struct {
	UUID           string `json:"uuid"`
	ID             int64  `json:"id"`
	Topic          string `json:"topic"`
	TotalSize      int64  `json:"total_size"`
	RecordingCount int    `json:"recording_count"`
	RecordingFiles []struct {
		ID             string    `json:"id"`
		FileType       string    `json:"file_type"`
		FileSize       int64     `json:"file_size"`
		PlayURL        string    `json:"play_url"`
		DownloadURL    string    `json:"download_url"`
		RecordingType  string    `json:"recording_type"`
		RecordingStart time.Time `json:"recording_start"`
		RecordingEnd   time.Time `json:"recording_end"`
	} `json:"recording_files"`
}

// GetRecordings fetches the recording artifacts for a meeting. A provider
// 404 means the recordings are not processed yet and returns nil, nil.
func (c *Client) GetRecordings(ctx context.Context, providerMeetingID string) ([]domain.ProviderRecording, error) {
	path := fmt.Sprintf("/meetings/%s/recordings", providerMeetingID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	var recResp recordingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&recResp); err != nil {
		return nil, fmt.Errorf("failed to decode recordings response: %w", err)
	}

	recordings := make([]domain.ProviderRecording, 0, len(recResp.RecordingFiles))
	for _, file := range recResp.RecordingFiles {
		recordings = append(recordings, domain.ProviderRecording{
			ID:            file.ID,
			FileType:      file.FileType,
			RecordingType: file.RecordingType,
			PlayURL:       file.PlayURL,
			DownloadURL:   file.DownloadURL,
			FileSize:      file.FileSize,
		})
	}

	return recordings, nil
}
