// internal/pkg/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/ricecart/internal/config"
)

// Error represents a non-success response from the storefront API
type Error struct {
	Status int
	Body   []byte
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API call failed with status %d: %s", e.Status, string(e.Body))
}

// Message extracts the server-provided error message, falling back to the
// HTTP status text when the body carries no "error" field
func (e *Error) Message() string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return http.StatusText(e.Status)
}

// Client makes HTTP calls to the remote storefront API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.API.RequestTimeout,
		},
		logger: logger,
	}
}

// Do performs a single blocking round trip against the storefront API.
// token may be empty for unauthenticated endpoints. data is marshaled as
// the JSON request body when non-nil; out is filled from the JSON response
// body when non-nil. A non-2xx status is returned as *Error with the body
// preserved; no retry is attempted.
func (c *Client) Do(ctx context.Context, method, endpoint, token string, data, out interface{}) error {
	var reqBody []byte
	var err error

	if data != nil {
		reqBody, err = json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	url := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method":   method,
			"endpoint": endpoint,
		}).WithError(err).Warn("storefront API request failed")
		return fmt.Errorf("failed to reach storefront API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"endpoint": endpoint,
		"status":   resp.StatusCode,
	}).Debug("storefront API request completed")

	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Body: respBody}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs an authenticated GET request
func (c *Client) Get(ctx context.Context, endpoint, token string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, endpoint, token, nil, out)
}

// Post performs an authenticated POST request
func (c *Client) Post(ctx context.Context, endpoint, token string, data, out interface{}) error {
	return c.Do(ctx, http.MethodPost, endpoint, token, data, out)
}

// Put performs an authenticated PUT request
func (c *Client) Put(ctx context.Context, endpoint, token string, data, out interface{}) error {
	return c.Do(ctx, http.MethodPut, endpoint, token, data, out)
}

// Delete performs an authenticated DELETE request
func (c *Client) Delete(ctx context.Context, endpoint, token string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, endpoint, token, nil, out)
}
