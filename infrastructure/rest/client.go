// Package rest implements the authenticated JSON transport for the Discorde
// backend.
//
// The backend authenticates requests with "Authorization: Bearer <username>".
// That bearer value is the literal username, not a cryptographic token; it is
// kept as-is because it is the credential the backend actually checks.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"discorde/errors"
	"discorde/observability"
)

type Client struct {
	base    string
	http    *http.Client
	monitor *observability.Monitor
	log     *slog.Logger
}

func New(base string, timeout time.Duration, monitor *observability.Monitor, log *slog.Logger) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
		monitor: monitor,
		log:     log,
	}
}

// Get issues an authenticated GET and decodes a 2xx body into out.
// A 404 maps to errors.ErrNotFound; any other non-2xx status wraps
// errors.ErrBackend with the backend-provided text.
func (c *Client) Get(ctx context.Context, path, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req, bearer)

	res, err := c.http.Do(req)
	if err != nil {
		c.monitor.IncrRESTFailures()
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		c.monitor.IncrRESTFailures()
		return fmt.Errorf("GET %s: %w", path, errors.ErrNotFound)
	}
	if res.StatusCode/100 != 2 {
		c.monitor.IncrRESTFailures()
		return fmt.Errorf("GET %s: %w: %s", path, errors.ErrBackend, readText(res.Body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// Post issues an authenticated JSON POST and returns the response status.
// When out is non-nil and the status is 2xx, the body is decoded into it.
// Non-2xx statuses are returned to the caller, not converted to errors:
// acceptance semantics differ per endpoint.
func (c *Client) Post(ctx context.Context, path, bearer string, payload, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, bearer)

	res, err := c.http.Do(req)
	if err != nil {
		c.monitor.IncrRESTFailures()
		return 0, fmt.Errorf("POST %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 == 2 && out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return res.StatusCode, fmt.Errorf("POST %s: decoding response: %w", path, err)
		}
	}
	return res.StatusCode, nil
}

func (c *Client) authorize(req *http.Request, bearer string) {
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
}

func readText(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(b) == 0 {
		return "no detail"
	}
	return string(b)
}
