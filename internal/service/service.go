// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package service

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// ClientBaseURL is the base URL of the client-facing app, used to build
	// join links embedded in notification emails.
	ClientBaseURL string
	// DefaultMeetingDurationMinutes is the scheduled duration sent to the
	// conferencing provider when creating a session.
	DefaultMeetingDurationMinutes int
}
