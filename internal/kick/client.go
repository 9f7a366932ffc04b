package kick

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/streamsider/streamsider/internal/config"
)

// maxBodySize bounds how much of an upstream response body is read.
const maxBodySize = 2 << 20

// Client talks to Kick's public channel endpoints. Each logical operation has
// several historical endpoint generations; the client tries them newest-first
// and returns the first parseable JSON body.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
}

// New builds a Client from the Kick section of the config.
// The HTTP client is built once and reused across calls.
func New(cfg config.KickConfig) *Client {
	return &Client{
		http:      &http.Client{},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.RequestTimeout,
	}
}

// ChannelInfo fetches raw channel metadata for username. A nil result means
// every endpoint generation was exhausted; individual failures are logged,
// never surfaced.
func (c *Client) ChannelInfo(ctx context.Context, username string) json.RawMessage {
	u := url.PathEscape(username)
	return c.fetchFirst(ctx, username, []string{
		c.baseURL + "/api/v2/channels/" + u,
		c.baseURL + "/api/v1/channels/" + u,
		c.baseURL + "/api/channels/" + u,
	})
}

// LivestreamInfo fetches raw livestream data for username. Same fallback and
// failure semantics as ChannelInfo.
func (c *Client) LivestreamInfo(ctx context.Context, username string) json.RawMessage {
	u := url.PathEscape(username)
	return c.fetchFirst(ctx, username, []string{
		c.baseURL + "/api/v1/channels/" + u + "/livestream",
		c.baseURL + "/api/v2/channels/" + u + "/livestream",
		c.baseURL + "/api/channels/" + u + "/livestream",
	})
}

// fetchFirst tries each candidate in priority order and returns the first
// JSON body obtained, or nil when all candidates fail.
func (c *Client) fetchFirst(ctx context.Context, username string, candidates []string) json.RawMessage {
	for _, endpoint := range candidates {
		body, err := c.fetch(ctx, endpoint)
		if err != nil {
			slog.Warn("kick: endpoint candidate failed",
				"username", username, "endpoint", endpoint, "err", err)
			continue
		}
		return body
	}
	return nil
}

// fetch performs one GET attempt against endpoint, bounded by the per-attempt
// timeout. It rejects non-2xx statuses, HTML bodies disguised as success
// responses, and unparseable JSON.
func (c *Client) fetch(ctx context.Context, endpoint string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// Kick serves a challenge page to clients that don't look like a browser
	// visiting from its own site.
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("Origin", c.baseURL)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if looksLikeHTML(body) {
		return nil, fmt.Errorf("html page disguised as status %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("unparseable json body")
	}
	return body, nil
}

// looksLikeHTML reports whether body starts with an HTML document marker.
func looksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 16 {
		trimmed = trimmed[:16]
	}
	lower := bytes.ToLower(trimmed)
	return bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.HasPrefix(lower, []byte("<html"))
}
