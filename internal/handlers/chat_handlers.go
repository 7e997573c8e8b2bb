// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/domain/models"
	"github.com/advisorly/consult-service/internal/middleware"
	"github.com/advisorly/consult-service/internal/service"
)

// ChatHandlers serves the in-meeting chat surface shared by the advisor and
// the client. The sender role comes from the token type, never the request
// body, so neither side can impersonate the other.
type ChatHandlers struct {
	MeetingService *service.MeetingService
	ChatService    *service.ChatService
}

// NewChatHandlers creates a new ChatHandlers.
func NewChatHandlers(meetingService *service.MeetingService, chatService *service.ChatService) *ChatHandlers {
	return &ChatHandlers{
		MeetingService: meetingService,
		ChatService:    chatService,
	}
}

// chatPrincipal identifies who is talking based on which token authenticated
// the request, and enforces booking scoping for client tokens.
type chatPrincipal struct {
	role string
	name string
}

func (h *ChatHandlers) principalForMeeting(r *http.Request, meetingUID string) (*chatPrincipal, error) {
	if claims, ok := middleware.AdminClaimsFromContext(r.Context()); ok {
		return &chatPrincipal{role: models.ChatRoleAdvisor, name: claims.Email}, nil
	}

	claims, ok := middleware.MeetingAccessClaimsFromContext(r.Context())
	if !ok {
		return nil, domain.NewUnauthorizedError("missing credentials")
	}

	meeting, err := h.MeetingService.GetMeeting(r.Context(), meetingUID)
	if err != nil {
		return nil, err
	}
	if meeting.BookingUID != claims.BookingUID {
		return nil, domain.NewUnauthorizedError("token is not valid for this meeting")
	}

	return &chatPrincipal{role: models.ChatRoleClient}, nil
}

type sendMessageRequest struct {
	SenderName string `json:"sender_name"`
	Body       string `json:"body"`
}

// SendMessage handles POST /meetings/{uid}/chat.
func (h *ChatHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	meetingUID := chi.URLParam(r, "uid")

	principal, err := h.principalForMeeting(r, meetingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	senderName := principal.name
	if senderName == "" {
		senderName = req.SenderName
	}

	message, err := h.ChatService.SendMessage(r.Context(), meetingUID, senderName, principal.role, req.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

// GetMessages handles GET /meetings/{uid}/chat.
func (h *ChatHandlers) GetMessages(w http.ResponseWriter, r *http.Request) {
	meetingUID := chi.URLParam(r, "uid")

	if _, err := h.principalForMeeting(r, meetingUID); err != nil {
		writeError(w, r, err)
		return
	}

	messages, err := h.ChatService.GetMessages(r.Context(), meetingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

type addAttachmentRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	FileURL     string `json:"file_url"`
	UploadedBy  string `json:"uploaded_by"`
}

// AddAttachment handles POST /meetings/{uid}/chat/attachments. Only metadata
// is stored; the file bytes live wherever the caller uploaded them.
func (h *ChatHandlers) AddAttachment(w http.ResponseWriter, r *http.Request) {
	meetingUID := chi.URLParam(r, "uid")

	principal, err := h.principalForMeeting(r, meetingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req addAttachmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	uploadedBy := principal.name
	if uploadedBy == "" {
		uploadedBy = req.UploadedBy
	}

	attachment, err := h.ChatService.AddAttachment(r.Context(), &models.FileAttachment{
		MeetingUID:  meetingUID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
		FileURL:     req.FileURL,
		UploadedBy:  uploadedBy,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, attachment)
}

// GetAttachments handles GET /meetings/{uid}/chat/attachments.
func (h *ChatHandlers) GetAttachments(w http.ResponseWriter, r *http.Request) {
	meetingUID := chi.URLParam(r, "uid")

	if _, err := h.principalForMeeting(r, meetingUID); err != nil {
		writeError(w, r, err)
		return
	}

	attachments, err := h.ChatService.GetAttachments(r.Context(), meetingUID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, attachments)
}
