// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/advisorly/consult-service/internal/handlers"
	"github.com/advisorly/consult-service/internal/infrastructure/auth"
	"github.com/advisorly/consult-service/internal/logging"
	"github.com/advisorly/consult-service/internal/middleware"
)

// apiHandlers bundles everything the router mounts.
type apiHandlers struct {
	Health    *handlers.HealthHandlers
	Meetings  *handlers.MeetingHandlers
	Admission *handlers.AdmissionHandlers
	Bookings  *handlers.BookingHandlers
	Join      *handlers.JoinHandlers
	Chat      *handlers.ChatHandlers
	Webhooks  *handlers.WebhookHandlers
}

// newRouter builds the chi router with the admin, client, webhook, and
// operational surfaces.
func newRouter(h apiHandlers, issuer *auth.Issuer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLoggerMiddleware())

	r.Get("/livez", h.Health.Livez)
	r.Get("/readyz", h.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Admin surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuthMiddleware(issuer))

		r.Post("/meetings/start/{bookingUID}", h.Meetings.StartMeeting)
		r.Get("/meetings", h.Meetings.GetMeetings)
		r.Get("/meetings/{uid}", h.Meetings.GetMeeting)
		r.Delete("/meetings/{uid}", h.Meetings.DeleteMeeting)
		r.Post("/meetings/{uid}/end", h.Meetings.EndMeeting)
		r.Get("/meetings/{uid}/recordings", h.Meetings.GetRecordings)
		r.Post("/meetings/{uid}/host-signature", h.Meetings.GetHostSignature)
		r.Get("/analytics", h.Meetings.GetAnalytics)

		r.Get("/meetings/{uid}/waiting-room", h.Admission.GetQueue)
		r.Post("/waiting-room/{entryUID}/admit", h.Admission.Admit)
		r.Post("/waiting-room/{entryUID}/reject", h.Admission.Reject)

		r.Post("/bookings", h.Bookings.CreateBooking)
		r.Get("/bookings", h.Bookings.GetBookings)
		r.Get("/bookings/{uid}", h.Bookings.GetBooking)
		r.Patch("/bookings/{uid}", h.Bookings.UpdateBookingStatus)
		r.Post("/bookings/{uid}/access-token", h.Bookings.IssueAccessToken)
	})

	// Client join surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.MeetingAccessAuthMiddleware(issuer))

		r.Get("/join/{bookingUID}", h.Join.GetJoinInfo)
		r.Post("/join/{bookingUID}/waiting-room", h.Join.EnterWaitingRoom)
		r.Get("/join/{bookingUID}/waiting-room/status", h.Join.WaitingRoomStatus)
	})

	// Shared chat surface: advisor or client
	r.Group(func(r chi.Router) {
		r.Use(middleware.DualAuthMiddleware(issuer))

		r.Get("/meetings/{uid}/chat", h.Chat.GetMessages)
		r.Post("/meetings/{uid}/chat", h.Chat.SendMessage)
		r.Get("/meetings/{uid}/chat/attachments", h.Chat.GetAttachments)
		r.Post("/meetings/{uid}/chat/attachments", h.Chat.AddAttachment)
	})

	// Provider webhook
	r.Group(func(r chi.Router) {
		r.Use(middleware.WebhookBodyCaptureMiddleware())

		r.Post("/webhooks/zoom", h.Webhooks.HandleZoomWebhook)
	})

	return r
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, handler http.Handler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}

// gracefulShutdown drains the HTTP server and the NATS connection, waiting
// for both before returning.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if natsConn != nil && !natsConn.IsClosed() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			// Close still fires the closed handler, which releases the wait group.
			natsConn.Close()
		}
	}

	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}
