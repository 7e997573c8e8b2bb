// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

// Package api is the HTTP client for the conferencing provider's management
// API. It is a pure transport layer: no business logic, no retries. Non-2xx
// responses, network failures, and timeouts all surface as Unavailable
// DomainErrors so the advisor UI can present them as retryable.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/advisorly/consult-service/internal/domain"
	"github.com/advisorly/consult-service/internal/logging"
)

const (
	// BaseURL is the base URL for the provider management API
	BaseURL = "https://api.zoom.us/v2"
	// AuthURL is the OAuth token endpoint
	AuthURL = "https://zoom.us/oauth/token"
	// DefaultClientTimeout is the default HTTP client timeout for provider API requests
	DefaultClientTimeout = 30 * time.Second
	// TokenRefreshMargin is how long before expiry the cached access token is refreshed
	TokenRefreshMargin = 60 * time.Second
)

// Config holds the configuration for the provider client
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	// SDK credentials used only for join signature generation
	SDKKey    string
	SDKSecret string
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override auth URL for testing
	AuthURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
}

// Client represents a provider API client
type Client struct {
	httpClient  *http.Client
	config      Config
	oauthConfig *clientcredentials.Config
	tokenSource oauth2.TokenSource
}

// Ensure that Client implements domain.ProviderAPI
var _ domain.ProviderAPI = (*Client)(nil)

// NewClient creates a new provider API client
func NewClient(config Config) *Client {
	// Set defaults if not provided
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = AuthURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}

	// Set up OAuth2 client credentials config for the provider's
	// server-to-server flow, which requires a specific grant_type and account_id
	oauthConfig := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.AuthURL,
		EndpointParams: url.Values{
			"grant_type": []string{"account_credentials"},
			"account_id": []string{config.AccountID},
		},
		AuthStyle: oauth2.AuthStyleInParams,
	}

	// The reuse token source caches the token in process memory behind a
	// mutex and refreshes it TokenRefreshMargin before expiry, so concurrent
	// callers never see a token valid for less than the margin and cannot
	// corrupt the cache.
	tokenSource := oauth2.ReuseTokenSourceWithExpiry(nil, oauthConfig.TokenSource(context.Background()), TokenRefreshMargin)

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		oauthConfig: oauthConfig,
		tokenSource: tokenSource,
	}
}

// GetAccessToken returns a valid bearer token for the provider API,
// exchanging credentials only when the cached token is missing or near expiry.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	token, err := c.tokenSource.Token()
	if err != nil {
		slog.ErrorContext(ctx, "failed to obtain provider access token", logging.ErrKey, err)
		return "", domain.NewUnavailableError("failed to obtain provider access token", err)
	}
	return token.AccessToken, nil
}

// getAuthenticatedClient returns an HTTP client that automatically attaches
// the cached OAuth2 token to each request
func (c *Client) getAuthenticatedClient() *http.Client {
	return &http.Client{
		Timeout: c.config.Timeout,
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: c.tokenSource,
		},
	}
}

// doRequest performs an authenticated HTTP request to the provider API
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.DebugContext(ctx, "making provider API request",
		"method", method,
		"path", path,
	)

	startTime := time.Now()
	resp, err := c.getAuthenticatedClient().Do(req)
	duration := time.Since(startTime)
	if err != nil {
		slog.ErrorContext(ctx, "provider API request failed",
			"method", method,
			"path", path,
			"duration", duration.String(),
			logging.ErrKey, err)
		return nil, domain.NewUnavailableError("conferencing provider unreachable", err)
	}

	slog.InfoContext(ctx, "provider API request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", duration.String(),
	)

	return resp, nil
}

// parseErrorResponse attempts to parse a provider API error response
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return domain.NewUnavailableError(
			fmt.Sprintf("provider API error (status %d, code %d): %s", statusCode, errResp.Code, errResp.Message))
	}
	return domain.NewUnavailableError(fmt.Sprintf("provider API error (status %d)", statusCode))
}
