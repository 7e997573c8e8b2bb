// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
)

func TestNatsChatRepository_Messages(t *testing.T) {
	messages := newMockNatsKeyValue()
	attachments := newMockNatsKeyValue()
	repo := NewNatsChatRepository(messages, attachments)

	now := time.Now()
	later := &models.ChatMessage{
		UID:        "msg-later",
		MeetingUID: "meeting-123",
		SenderName: "Jane Doe",
		SenderRole: models.ChatRoleClient,
		Body:       "Thanks, that helps.",
		SentAt:     now,
	}
	earlier := &models.ChatMessage{
		UID:        "msg-earlier",
		MeetingUID: "meeting-123",
		SenderName: "Alex Advisor",
		SenderRole: models.ChatRoleAdvisor,
		Body:       "Here is the summary.",
		SentAt:     now.Add(-2 * time.Minute),
	}
	other := &models.ChatMessage{
		UID:        "msg-other",
		MeetingUID: "meeting-999",
		SenderName: "Someone Else",
		SenderRole: models.ChatRoleClient,
		Body:       "Different session.",
		SentAt:     now,
	}
	for _, m := range []*models.ChatMessage{later, earlier, other} {
		if err := repo.CreateMessage(context.Background(), m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := repo.ListMessagesByMeeting(context.Background(), "meeting-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].UID != "msg-earlier" || got[1].UID != "msg-later" {
		t.Errorf("expected messages ordered by send time, got %s then %s", got[0].UID, got[1].UID)
	}
}

func TestNatsChatRepository_Messages_NilStore(t *testing.T) {
	repo := NewNatsChatRepository(nil, nil)

	err := repo.CreateMessage(context.Background(), &models.ChatMessage{UID: "msg-1"})
	if err != domain.ErrServiceUnavailable {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}

	_, err = repo.ListMessagesByMeeting(context.Background(), "meeting-123")
	if err != domain.ErrServiceUnavailable {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestNatsChatRepository_Attachments(t *testing.T) {
	messages := newMockNatsKeyValue()
	attachments := newMockNatsKeyValue()
	repo := NewNatsChatRepository(messages, attachments)

	now := time.Now()
	attachment := &models.FileAttachment{
		UID:         "att-1",
		MeetingUID:  "meeting-123",
		FileName:    "tax-return-2025.pdf",
		ContentType: "application/pdf",
		Size:        204800,
		UploadedBy:  "Jane Doe",
		UploadedAt:  now,
	}
	if err := repo.CreateAttachment(context.Background(), attachment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.ListAttachmentsByMeeting(context.Background(), "meeting-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(got))
	}
	if got[0].FileName != attachment.FileName {
		t.Errorf("expected FileName %s, got %s", attachment.FileName, got[0].FileName)
	}

	none, err := repo.ListAttachmentsByMeeting(context.Background(), "meeting-999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no attachments for other meeting, got %d", len(none))
	}
}
