// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the sensa backend. It covers the auth,
// chat, recommendation, and quotation endpoints and maps failures onto
// typed errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"

	"github.com/morganforge/sensa/internal/config"
	"github.com/morganforge/sensa/internal/model"
)

// ============================================================================
// Constants
// ============================================================================

const (
	// MaxResponseSize caps JSON response bodies.
	MaxResponseSize = 10 * 1024 * 1024

	// MaxPDFSize caps quotation PDF downloads.
	MaxPDFSize = 50 * 1024 * 1024

	// retryBaseDelay is the first backoff step; each retry doubles it.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the backoff.
	retryMaxDelay = 10 * time.Second

	userAgent = "sensa-cli"
)

// TokenProvider supplies the bearer token for authenticated requests. An
// empty string means no credentials are attached.
type TokenProvider interface {
	Token() string
}

// Client talks to the sensa backend over HTTP. Construct it with NewClient;
// the zero value is not usable.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
	maxRetries int
	limiter    *rate.Limiter
}

// NewClient creates a client for the configured backend. The limiter keeps
// rapid repeated recommendation queries from hammering the server.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxRetries: cfg.API.MaxRetries,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// WithTokenProvider attaches a credential source and returns the client.
func (c *Client) WithTokenProvider(tp TokenProvider) *Client {
	c.tokens = tp
	return c
}

// WithHTTPClient swaps the underlying HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ============================================================================
// Auth endpoints
// ============================================================================

// Login exchanges credentials for an access token. The endpoint takes an
// OAuth2 password form where username carries the email address.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	body, err := c.do(req, MaxResponseSize)
	if err != nil {
		return "", err
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return resp.AccessToken, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (model.User, error) {
	payload := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}
	var user model.User
	if err := c.postJSON(ctx, "/auth/register", payload, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Me returns the account record for the current token.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, "/auth/users/me", &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// ============================================================================
// Chat endpoints
// ============================================================================

// ListSessions returns the user's sessions in the backend's order.
func (c *Client) ListSessions(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	if err := c.getJSON(ctx, "/chat/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CreateSession creates a session with the given title and returns the
// server-assigned record.
func (c *Client) CreateSession(ctx context.Context, title string) (model.Session, error) {
	var session model.Session
	if err := c.postJSON(ctx, "/chat/sessions", map[string]string{"title": title}, &session); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// ListMessages returns a session's thread in chronological order.
func (c *Client) ListMessages(ctx context.Context, sessionID int64) ([]model.Message, error) {
	var messages []model.Message
	path := fmt.Sprintf("/chat/sessions/%d/messages", sessionID)
	if err := c.getJSON(ctx, path, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a user message to a session and returns the assistant's
// reply text. Outgoing text is NFC-normalized so composed and decomposed
// input compare equal server-side.
func (c *Client) SendMessage(ctx context.Context, sessionID int64, msg model.Message) (string, error) {
	msg.Content = norm.NFC.String(msg.Content)

	var resp struct {
		Response string `json:"response"`
	}
	path := fmt.Sprintf("/chat/sessions/%d/chat", sessionID)
	if err := c.postJSON(ctx, path, msg, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// ============================================================================
// Recommendation endpoint
// ============================================================================

// RecommendSource is one product reference backing a recommendation.
type RecommendSource struct {
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// RecommendResponse is the recommendation answer plus its product sources.
type RecommendResponse struct {
	Answer  string            `json:"answer"`
	Sources []RecommendSource `json:"sources"`
}

// Recommend sends an unauthenticated recommendation query. The client-side
// limiter spaces out rapid repeated queries.
func (c *Client) Recommend(ctx context.Context, query string, topK int) (RecommendResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return RecommendResponse{}, err
	}

	payload := map[string]any{
		"query": norm.NFC.String(query),
		"top_k": topK,
	}
	var resp RecommendResponse
	if err := c.postJSON(ctx, "/recommend", payload, &resp); err != nil {
		return RecommendResponse{}, err
	}
	return resp, nil
}

// ============================================================================
// Quotation endpoint
// ============================================================================

// GenerateQuotation submits a quote request and returns the PDF bytes.
func (c *Client) GenerateQuotation(ctx context.Context, quote model.QuoteRequest) ([]byte, error) {
	data, err := json.Marshal(quote)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/quotations", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, "application/json")

	return c.do(req, MaxPDFSize)
}

// ============================================================================
// Request plumbing
// ============================================================================

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		c.setHeaders(req, "")

		body, err := c.do(req, MaxResponseSize)
		if err != nil {
			lastErr = err
			if retryable(err) {
				continue
			}
			return err
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}
	return lastErr
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, "application/json")

	body, err := c.do(req, MaxResponseSize)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// do executes the request and returns the body on 2xx, or a typed error.
func (c *Client) do(req *http.Request, sizeLimit int64) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("API request failed: %s %s: %v", req.Method, req.URL.Path, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	log.Printf("API %s %s -> %d (%v)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	// Read one byte past the limit to distinguish at-limit from over.
	body, err := io.ReadAll(io.LimitReader(resp.Body, sizeLimit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > sizeLimit {
		return nil, ErrResponseTooLarge
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request, contentType string) {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// errorFromResponse builds a typed error from a non-2xx response. FastAPI
// style bodies carry the message under "detail".
func errorFromResponse(status int, body []byte) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &detail)

	return &Error{Status: status, Message: detail.Detail}
}

// retryable reports whether a failure is worth another attempt. Only
// transport errors and 5xx responses qualify; 4xx results are final.
func retryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return !errors.Is(err, ErrResponseTooLarge)
}

func sleepBackoff(ctx context.Context, attempt int) error {
	delay := retryBaseDelay * time.Duration(1<<(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
