// Package api is the REST client for the progress backend. It owns bearer
// authentication, per-endpoint timeouts, and payload validation; callers
// get typed snapshots or typed errors, never raw HTTP details.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/streak"
)

// Config holds the backend connection settings.
type Config struct {
	BaseURL string
	Token   string

	// RealtimeTimeout bounds the realtime snapshot request. Default: 5s.
	RealtimeTimeout time.Duration
	// DashboardTimeout bounds the dashboard request. Default: 10s.
	DashboardTimeout time.Duration
}

// DefaultConfig returns a Config with the reference timeouts.
func DefaultConfig() Config {
	return Config{
		RealtimeTimeout:  5 * time.Second,
		DashboardTimeout: 10 * time.Second,
	}
}

// Validate checks that the client can be constructed.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("API base URL is required (set LINGUA_API_URL or api.base_url)")
	}
	return nil
}

// Client talks to the progress backend. It satisfies progress.Fetcher and
// streak.Mirror.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client. Per-request timeouts come from Config, so
// the underlying http.Client carries none.
func NewClient(cfg Config) *Client {
	if cfg.RealtimeTimeout <= 0 {
		cfg.RealtimeTimeout = 5 * time.Second
	}
	if cfg.DashboardTimeout <= 0 {
		cfg.DashboardTimeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{}}
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// FetchRealtime retrieves the lightweight realtime snapshot.
func (c *Client) FetchRealtime(ctx context.Context) (*progress.Snapshot, error) {
	data, err := c.get(ctx, "/progress/optimized/realtime", c.cfg.RealtimeTimeout)
	if err != nil {
		return nil, err
	}
	if err := validateSnapshot(data); err != nil {
		return nil, err
	}
	var snap progress.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &PayloadError{Content: data, Err: err}
	}
	return &snap, nil
}

// FetchDashboard retrieves the heavier dashboard snapshot.
func (c *Client) FetchDashboard(ctx context.Context) (*progress.Dashboard, error) {
	data, err := c.get(ctx, "/progress/optimized/dashboard", c.cfg.DashboardTimeout)
	if err != nil {
		return nil, err
	}
	var dash progress.Dashboard
	if err := json.Unmarshal(data, &dash); err != nil {
		return nil, &PayloadError{Content: data, Err: err}
	}
	return &dash, nil
}

// BatchStats reports the backend's write-batching state. Operational, not
// on the hot path.
type BatchStats struct {
	PendingUsers int        `json:"pendingUsers"`
	QueuedWrites int        `json:"queuedWrites"`
	LastFlush    *time.Time `json:"lastFlush,omitempty"`
}

// FetchBatchStats retrieves backend batching statistics.
func (c *Client) FetchBatchStats(ctx context.Context) (*BatchStats, error) {
	data, err := c.get(ctx, "/progress/optimized/batch-stats", c.cfg.DashboardTimeout)
	if err != nil {
		return nil, err
	}
	var stats BatchStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, &PayloadError{Content: data, Err: err}
	}
	return &stats, nil
}

// ForceFlush asks the backend to flush batched progress writes.
func (c *Client) ForceFlush(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/progress/optimized/force-flush", nil, c.cfg.DashboardTimeout)
	return err
}

// MirrorStreak pushes the locally authoritative streak record to the
// backend. Best effort: callers log and swallow the error, local state
// remains the source of truth.
func (c *Client) MirrorStreak(ctx context.Context, rec streak.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode streak record: %w", err)
	}
	_, err = c.do(ctx, http.MethodPut, "/progress/streak", body, c.cfg.RealtimeTimeout)
	return err
}

func (c *Client) get(ctx context.Context, path string, timeout time.Duration) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil, timeout)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, timeout time.Duration) (json.RawMessage, error) {
	if c.cfg.Token == "" {
		return nil, ErrAuthRequired
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrAuthRequired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: resp.StatusCode, Path: path}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &PayloadError{Content: raw, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if !env.Success {
		return nil, &PayloadError{Content: raw, Err: fmt.Errorf("backend reported failure")}
	}
	return env.Data, nil
}
