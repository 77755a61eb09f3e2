// Package remote hydrates the workspace from, and publishes it to, the remote
// configuration service.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/interaction-drafts/internal/config"
	"github.com/Rrens/interaction-drafts/internal/domain"
)

const interactionsPath = "/agent-interactions"

// maxErrorBody bounds how much of an error response is kept for messages
const maxErrorBody = 512

const defaultMaxBody = 10 << 20

// Client talks to the remote configuration service over HTTP
type Client struct {
	url     string
	maxBody int64
	client  *http.Client
}

// NewClient creates a new remote configuration client
func NewClient(cfg config.RemoteConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}

	url := strings.TrimRight(cfg.Endpoint, "/")
	if !strings.HasSuffix(url, interactionsPath) {
		url += interactionsPath
	}

	return &Client{
		url:     url,
		maxBody: maxBody,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL returns the resolved interactions URL
func (c *Client) URL() string {
	return c.url
}

// Fetch returns the remote workspace. A 204, an empty array or a body whose top level
// is not an array all mean there is nothing to hydrate and yield no inputs.
func (c *Client) Fetch(ctx context.Context) ([]domain.InteractionInput, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: "hydrate", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.HTTPError{Op: "hydrate", Status: resp.StatusCode, Body: truncate(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &domain.NetworkError{Op: "hydrate", Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("hydrate: %w (limit %d bytes)", domain.ErrResponseTooLarge, c.maxBody)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	inputs, err := domain.DecodeDocument(body)
	if err != nil {
		return nil, fmt.Errorf("hydrate: %w", err)
	}
	return inputs, nil
}

// Put replaces the remote workspace with ws
func (c *Client) Put(ctx context.Context, ws domain.Workspace) error {
	data, err := domain.EncodeDocument(ws, false)
	if err != nil {
		return fmt.Errorf("failed to encode workspace: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: "publish", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.HTTPError{Op: "publish", Status: resp.StatusCode, Body: truncate(body)}
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// Close releases idle connections
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
