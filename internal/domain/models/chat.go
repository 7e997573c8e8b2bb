// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package models

import "time"

// Sender roles for chat messages.
const (
	ChatRoleAdvisor = "advisor"
	ChatRoleClient  = "client"
)

// ChatMessage is a single message exchanged inside a meeting's chat widget.
type ChatMessage struct {
	UID        string    `json:"uid"`
	MeetingUID string    `json:"meeting_uid"`
	SenderName string    `json:"sender_name"`
	SenderRole string    `json:"sender_role"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sent_at"`
}

// FileAttachment is the metadata of a file shared inside a meeting.
// The service stores metadata only; the file bytes live with the caller.
type FileAttachment struct {
	UID         string    `json:"uid"`
	MeetingUID  string    `json:"meeting_uid"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	FileURL     string    `json:"file_url,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
