// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

// TemplateSet holds HTML and text versions of a template
type TemplateSet struct {
	HTML *template.Template
	Text *template.Template
}

// Templates holds all notification templates
type Templates struct {
	MeetingStarted TemplateSet
	RecordingReady TemplateSet
}

// templateConfig defines a template to be loaded
type templateConfig struct {
	name string
	path string
}

// loadTemplates parses every embedded template with the shared function map.
func loadTemplates() (Templates, error) {
	templateConfigs := map[string]templateConfig{
		"meetingStartedHTML": {"meeting_started.html", "templates/meeting_started.html"},
		"meetingStartedText": {"meeting_started.txt", "templates/meeting_started.txt"},
		"recordingReadyHTML": {"recording_ready.html", "templates/recording_ready.html"},
		"recordingReadyText": {"recording_ready.txt", "templates/recording_ready.txt"},
	}

	loadedTemplates := make(map[string]*template.Template)
	for key, cfg := range templateConfigs {
		tmpl, err := loadTemplate(cfg)
		if err != nil {
			return Templates{}, err
		}
		loadedTemplates[key] = tmpl
	}

	return Templates{
		MeetingStarted: TemplateSet{
			HTML: loadedTemplates["meetingStartedHTML"],
			Text: loadedTemplates["meetingStartedText"],
		},
		RecordingReady: TemplateSet{
			HTML: loadedTemplates["recordingReadyHTML"],
			Text: loadedTemplates["recordingReadyText"],
		},
	}, nil
}

// loadTemplate loads a single template with the shared function map
func loadTemplate(config templateConfig) (*template.Template, error) {
	tmpl, err := template.New(config.name).Funcs(template.FuncMap{
		"formatTime": formatTime,
		"capitalize": capitalize,
	}).ParseFS(templateFS, config.path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", config.name, err)
	}
	return tmpl, nil
}

// renderTemplate renders any template with the provided data
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatTime formats a time for display in emails
func formatTime(t time.Time) string {
	return t.UTC().Format("Monday, January 2, 2006 at 15:04 UTC")
}

// capitalize capitalizes the first letter of a string
func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
