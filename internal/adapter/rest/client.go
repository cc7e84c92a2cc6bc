// Package rest implements the remote stock and dashboard API clients.
// Calls are bare request/response exchanges: no retries, no timeout configuration and no auth.
// Cancellation is left to the caller's context.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/stocktracker/internal/domain"
)

// RequestIDHeader carries a per-call id so client and server logs can be correlated
const RequestIDHeader = "X-Request-Id"

// Client performs JSON requests against a remote API
type Client struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new JSON client. A nil httpClient uses a plain http.Client.
func NewClient(httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		log:        log.With().Str("component", "rest-client").Logger(),
	}
}

// do sends body (if any) as JSON and hands the response body to decode (if any).
// Transport failures and non-2xx statuses become *domain.TransportError,
// decode failures become *domain.FormatError.
func (c *Client) do(ctx context.Context, op, method, url string, body any, decode func(io.Reader) error) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &domain.TransportError{Op: op, Method: method, URL: url, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("url", url).
		Str("request_id", requestID).
		Msg("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &domain.TransportError{
			Op:         op,
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if decode == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := decode(resp.Body); err != nil {
		return &domain.FormatError{Op: op, Err: err}
	}
	return nil
}

// decodeJSON returns a decode func that unmarshals the body into target
func decodeJSON(target any) func(io.Reader) error {
	return func(r io.Reader) error {
		return json.NewDecoder(r).Decode(target)
	}
}
