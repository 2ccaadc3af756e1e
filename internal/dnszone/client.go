// Package dnszone provides a client for pushing DNS records to the
// bunny.net zone API.
package dnszone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.bunny.net"
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnauthorized indicates the API key is invalid or lacks access.
	ErrUnauthorized = errors.New("dnszone: unauthorized (invalid API key)")
	// ErrNotFound indicates the zone does not exist.
	ErrNotFound = errors.New("dnszone: zone not found")
)

// Client talks to the bunny.net DNS zone API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// NewClient creates a client for the given API key.
// Returns nil if the key is empty.
func NewClient(apiKey string, opts ...Option) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddRecord adds one record to a zone and returns the created record.
func (c *Client) AddRecord(ctx context.Context, zoneID int64, req AddRecordRequest) (*Record, error) {
	body, err := c.put(ctx, fmt.Sprintf("/dnszone/%d/records", zoneID), req)
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("dnszone: parsing record response: %w", err)
	}
	return &rec, nil
}

// put performs an authenticated PUT request and returns the response body.
func (c *Client) put(ctx context.Context, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("dnszone: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dnszone: creating request: %w", err)
	}

	req.Header.Set("AccessKey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/tokenscan/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dnszone: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("dnszone: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("dnszone: reading response: %w", err)
	}
	return body, nil
}
