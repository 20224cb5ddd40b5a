// Package ibkr is a thin REST client for the IBKR Client Portal Gateway.
// It resolves the active ES future, pulls historical bars and live quotes,
// and snapshots an option chain with greeks; the chart engine only ever
// sees the resulting values.
package ibkr

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL assumes the Client Portal Gateway runs locally on its
// standard port.
const DefaultBaseURL = "https://localhost:5001/v1/api"

// snapshotSettle is how long the gateway needs between the preflight and
// the actual market-data snapshot request.
const snapshotSettle = 300 * time.Millisecond

// Client talks to one gateway instance.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *slog.Logger
}

// NewClient builds a client for the given gateway base URL. The gateway
// serves a self-signed certificate on localhost, so verification is
// skipped.
func NewClient(baseURL string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	return &Client{
		httpClient: &http.Client{Transport: tr, Timeout: 30 * time.Second},
		baseURL:    baseURL,
		log:        log,
	}
}

// get performs a GET against the gateway and returns the raw body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned %s: %s", resp.Status, truncateBody(body))
	}
	return body, nil
}

// getJSON performs a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// Authenticated reports whether the gateway session is live.
func (c *Client) Authenticated(ctx context.Context) (bool, error) {
	var status struct {
		Authenticated bool `json:"authenticated"`
		Connected     bool `json:"connected"`
	}
	if err := c.getJSON(ctx, "/iserver/auth/status", &status); err != nil {
		return false, fmt.Errorf("auth status: %w", err)
	}
	return status.Authenticated && status.Connected, nil
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}
