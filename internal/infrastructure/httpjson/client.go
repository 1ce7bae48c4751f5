package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "CryptoNewsPublisher/1.0"

// StatusError reports a non-2xx response together with a snippet of its body.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

// Client sends JSON or form requests and decodes JSON responses.
type Client struct {
	http *http.Client
}

// New wraps an HTTP client; a nil client gets the provided timeout.
func New(client *http.Client, timeout time.Duration) *Client {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Client{http: client}
}

// GetJSON issues a GET and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, endpoint string, header http.Header, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	return c.do(req, header, v)
}

// PostJSON marshals payload, POSTs it and decodes the JSON body into v.
func (c *Client) PostJSON(ctx context.Context, endpoint string, header http.Header, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, header, v)
}

// PostForm POSTs url-encoded form values and decodes the JSON body into v.
func (c *Client) PostForm(ctx context.Context, endpoint string, header http.Header, form url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, header, v)
}

// Bearer builds an Authorization header for token auth.
func Bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

func (c *Client) do(req *http.Request, header http.Header, v any) error {
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		_ = resp.Body.Close()
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if v == nil {
		if err := resp.Body.Close(); err != nil {
			return fmt.Errorf("close response body: %w", err)
		}
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
