// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/advisorly/consult-service/internal/logging"
)

// flags are the command line flags for the consultation service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the consultation service.
type environment struct {
	Port                   string
	NatsURL                string
	JWTSecret              string
	ClientBaseURL          string
	MeetingDurationMinutes int
	Zoom                   zoomConfig
	SMTP                   smtpConfig
}

// zoomConfig holds the conferencing provider credentials.
type zoomConfig struct {
	AccountID          string
	ClientID           string
	ClientSecret       string
	SDKKey             string
	SDKSecret          string
	WebhookSecretToken string
}

// smtpConfig holds the outbound email configuration. Leaving Host empty
// disables email sending.
type smtpConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// parseFlags parses command line flags for the consultation service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the consultation service.
// A .env file in the working directory is loaded first when present.
func parseEnv() environment {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.With(logging.ErrKey, err).Warn("could not load .env file")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	clientBaseURL := os.Getenv("CLIENT_BASE_URL")
	if clientBaseURL == "" {
		clientBaseURL = "http://localhost:3000"
	}

	durationMinutes := 60
	if raw := os.Getenv("DEFAULT_MEETING_DURATION_MINUTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			slog.With("value", raw).Error("invalid DEFAULT_MEETING_DURATION_MINUTES")
			os.Exit(1)
		}
		durationMinutes = parsed
	}

	return environment{
		Port:                   port,
		NatsURL:                natsURL,
		JWTSecret:              jwtSecret,
		ClientBaseURL:          clientBaseURL,
		MeetingDurationMinutes: durationMinutes,
		Zoom:                   parseZoomConfig(),
		SMTP:                   parseSMTPConfig(),
	}
}

// parseZoomConfig parses the conferencing provider configuration from environment variables
func parseZoomConfig() zoomConfig {
	accountID := os.Getenv("ZOOM_ACCOUNT_ID")
	if accountID == "" {
		slog.Error("ZOOM_ACCOUNT_ID environment variable is required but not set")
		os.Exit(1)
	}

	clientID := os.Getenv("ZOOM_CLIENT_ID")
	if clientID == "" {
		slog.Error("ZOOM_CLIENT_ID environment variable is required but not set")
		os.Exit(1)
	}

	clientSecret := os.Getenv("ZOOM_CLIENT_SECRET")
	if clientSecret == "" {
		slog.Error("ZOOM_CLIENT_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	return zoomConfig{
		AccountID:          accountID,
		ClientID:           clientID,
		ClientSecret:       clientSecret,
		SDKKey:             os.Getenv("ZOOM_SDK_KEY"),
		SDKSecret:          os.Getenv("ZOOM_SDK_SECRET"),
		WebhookSecretToken: os.Getenv("ZOOM_WEBHOOK_SECRET_TOKEN"),
	}
}

// parseSMTPConfig parses the email configuration from environment variables
func parseSMTPConfig() smtpConfig {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return smtpConfig{}
	}

	port := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			slog.With("value", raw).Error("invalid SMTP_PORT")
			os.Exit(1)
		}
		port = parsed
	}

	return smtpConfig{
		Host:     host,
		Port:     port,
		From:     os.Getenv("SMTP_FROM"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
}
