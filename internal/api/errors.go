// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// ============================================================================
// Error types
// ============================================================================

// Common errors returned by the API client.
var (
	// ErrUnauthorized indicates a missing, expired, or rejected token.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation indicates the backend rejected the request payload.
	ErrValidation = errors.New("request validation failed")

	// ErrRateLimited indicates the backend asked us to slow down.
	ErrRateLimited = errors.New("rate limited")

	// ErrServer indicates a backend-side failure.
	ErrServer = errors.New("server error")

	// ErrResponseTooLarge indicates the response exceeded the size cap.
	ErrResponseTooLarge = errors.New("response too large")
)

// Error is a typed error carrying the HTTP status and the backend's detail
// message.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Is maps the status code onto the sentinel errors so callers can use
// errors.Is for policy decisions without inspecting status codes.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401 || e.Status == 403
	case ErrNotFound:
		return e.Status == 404
	case ErrValidation:
		return e.Status == 400 || e.Status == 422
	case ErrRateLimited:
		return e.Status == 429
	case ErrServer:
		return e.Status >= 500
	}
	return false
}

// UserMessage converts an error from the client into the single line shown
// to the user. Every surface presents failures through this one mapping.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "Session expired. Please log in again."
	case errors.Is(err, ErrValidation):
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return "The request was rejected. Check your input and try again."
	case errors.Is(err, ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, ErrNotFound):
		return "Not found."
	case errors.Is(err, ErrServer):
		return "The server had a problem. Please try again."
	default:
		return "Could not reach the server. Check your connection and try again."
	}
}
