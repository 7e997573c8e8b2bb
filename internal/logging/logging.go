// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

// Package logging configures the service-wide slog handler and carries
// request-scoped attributes through context so every downstream log line of a
// request shares its identifiers.
package logging

import (
	"context"
	"log"
	"log/slog"
	"os"
)

type ctxKey string

// ErrKey is the attribute key every error log line uses so errors are
// queryable under a single field.
const ErrKey = "error"

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	// LOG_LEVEL values
	debug = "debug"
	warn  = "warn"
	err   = "error"
	info  = "info"

	// TODO: alert on logs carrying this field once the alerting pipeline exists.
	priorityCritical = "critical"
)

type contextHandler struct {
	slog.Handler
}

// Handle folds the context-carried attributes into the record before the
// wrapped handler emits it.
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// AppendCtx returns a child context whose log records will carry attr. Used to
// pin identifiers like booking_uid or meeting_uid for the rest of a request.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		v = append(v, attr)
		return context.WithValue(parent, slogFields, v)
	}

	v := []slog.Attr{}
	v = append(v, attr)
	return context.WithValue(parent, slogFields, v)
}

// InitStructureLogConfig installs the JSON slog handler as the process
// default, with level and source inclusion taken from the environment.
func InitStructureLogConfig() slog.Handler {
	logOptions := &slog.HandlerOptions{}
	var h slog.Handler

	logLevel := os.Getenv("LOG_LEVEL")
	switch logLevel {
	case debug:
		logOptions.Level = slog.LevelDebug
	case warn:
		logOptions.Level = slog.LevelWarn
	case err:
		logOptions.Level = slog.LevelError
	case info:
		logOptions.Level = slog.LevelInfo
	default:
		logOptions.Level = logLevelDefault
	}

	addSource := os.Getenv("LOG_ADD_SOURCE")
	logOptions.AddSource = addSource == "true" || addSource == "t" || addSource == "1"

	h = slog.NewJSONHandler(os.Stdout, logOptions)
	log.SetFlags(log.Llongfile)
	logger := contextHandler{h}
	slog.SetDefault(slog.New(logger))

	slog.Info("log config",
		"logLevel", logOptions.Level,
		"addSource", logOptions.AddSource,
	)

	return h
}

// Priority creates a slog.Attr for error priority classification
func Priority(level string) slog.Attr {
	return slog.String("priority", level)
}

// PriorityCritical marks a log line as needing operator attention, for
// example a provider session that exists without a local meeting record.
func PriorityCritical() slog.Attr {
	return Priority(priorityCritical)
}
