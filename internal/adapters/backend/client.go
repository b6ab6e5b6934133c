// Package backend is the HTTP client for the remote finance REST API. The
// gateway consumes this API, it never implements it: all account, category
// and transaction data is owned by the backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finflow-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// Client talks to the finance backend
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a backend client for the given base URL
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a backend rejection carrying the user-displayable message
// from the error payload when the backend provided one. It unwraps to a
// domain sentinel so callers can dispatch with errors.Is.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// do performs one backend round trip. A non-empty credential is sent as a
// bearer token; every request carries a correlation id.
func (c *Client) do(ctx context.Context, method, path, credential string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode backend response: %w", err)
		}
	}
	return nil
}

// apiError maps an HTTP rejection to a domain sentinel, keeping the
// backend's message field for display.
func apiError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	message := payload.Message
	if message == "" {
		message = payload.Error
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusNotFound:
		kind = domain.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = domain.ErrUnauthorized
	case resp.StatusCode >= 500:
		kind = domain.ErrNetwork
	default:
		kind = domain.ErrInvalidInput
	}

	return &APIError{Status: resp.StatusCode, Message: message, kind: kind}
}

// reject rewraps a backend rejection under a more specific sentinel,
// preserving status and message.
func reject(err, kind error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &APIError{Status: apiErr.Status, Message: apiErr.Message, kind: kind}
	}
	return err
}
