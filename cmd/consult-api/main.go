// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

// Package main is the consultation service API that brokers live video
// consultations between an advisor and their clients: meeting lifecycle,
// waiting room admission, provider webhooks, and in-meeting chat.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/advisorly/consult-service/internal/handlers"
	"github.com/advisorly/consult-service/internal/infrastructure/auth"
	"github.com/advisorly/consult-service/internal/infrastructure/messaging"
	"github.com/advisorly/consult-service/internal/infrastructure/webhook"
	zoomapi "github.com/advisorly/consult-service/internal/infrastructure/zoom/api"
	"github.com/advisorly/consult-service/internal/logging"
	"github.com/advisorly/consult-service/internal/metrics"
	"github.com/advisorly/consult-service/internal/service"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	tokenIssuer, err := auth.NewIssuer(auth.Config{Secret: env.JWTSecret})
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up token issuer")
		os.Exit(1)
	}

	zoomClient := zoomapi.NewClient(zoomapi.Config{
		AccountID:    env.Zoom.AccountID,
		ClientID:     env.Zoom.ClientID,
		ClientSecret: env.Zoom.ClientSecret,
		SDKKey:       env.Zoom.SDKKey,
		SDKSecret:    env.Zoom.SDKSecret,
	})
	webhookValidator := webhook.NewValidator(env.Zoom.WebhookSecretToken)

	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		return
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	natsConn, err := setupNATS(env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	serviceConfig := service.ServiceConfig{
		ClientBaseURL:                 env.ClientBaseURL,
		DefaultMeetingDurationMinutes: env.MeetingDurationMinutes,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	admissionService := service.NewAdmissionService(repos.Meeting, repos.WaitingRoom)
	meetingService := service.NewMeetingService(
		repos.Booking,
		repos.Meeting,
		zoomClient,
		emailService,
		messageBuilder,
		tokenIssuer,
		admissionService,
		serviceConfig,
	)
	bookingService := service.NewBookingService(repos.Booking)
	chatService := service.NewChatService(repos.Meeting, repos.Chat)
	webhookService := service.NewWebhookService(
		repos.Meeting,
		repos.Booking,
		meetingService,
		emailService,
		messageBuilder,
	)

	serviceMetrics := metrics.NewServiceMetrics(nil)

	api := apiHandlers{
		Health: handlers.NewHealthHandlers(func() bool {
			return natsConn.IsConnected() && meetingService.ServiceReady()
		}),
		Meetings:  handlers.NewMeetingHandlers(meetingService, serviceMetrics),
		Admission: handlers.NewAdmissionHandlers(admissionService),
		Bookings:  handlers.NewBookingHandlers(bookingService, tokenIssuer),
		Join:      handlers.NewJoinHandlers(meetingService, admissionService),
		Chat:      handlers.NewChatHandlers(meetingService, chatService),
		Webhooks:  handlers.NewWebhookHandlers(webhookValidator, webhookService, serviceMetrics),
	}

	httpServer := setupHTTPServer(flags, newRouter(api, tokenIssuer), &gracefulCloseWG)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}
