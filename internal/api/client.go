// Package api is the HTTP transport client for the supercloud backend. It
// owns the session cookie and anti-forgery token, decodes JSON payloads,
// and converts every failure into a typed error; nothing ever panics across
// this boundary.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/supercloudfm/supercloud/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "supercloud-tui/1.0"
	xsrfCookie     = "XSRF-TOKEN"
	xsrfHeader     = "XSRF-Token"
)

// Client implements domain.SongAPI, domain.LikeAPI, domain.CommentAPI,
// domain.UserAPI, domain.SessionAPI, and domain.UploadAPI against the
// supercloud JSON routes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.RWMutex
	xsrfToken string
}

// NewClient creates a new API client. The cookie jar carries the session
// token between requests the same way a browser would.
func NewClient(baseURL string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		logger: logger,
	}, nil
}

// Bootstrap primes the anti-forgery token. The server refuses mutating
// requests until the client has been handed an XSRF-TOKEN cookie, so this
// runs once at startup before any POST/PUT/DELETE.
func (c *Client) Bootstrap(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/csrf/restore", nil, nil)
}

// do performs one request against the backend: encodes the body, attaches
// the anti-forgery header on mutating methods, and decodes the response
// into out (when non-nil). Non-2xx responses become *domain.RequestError
// carrying the server's errors list; transport failures map to
// domain.ErrServerOffline.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		c.mu.RLock()
		if c.xsrfToken != "" {
			req.Header.Set(xsrfHeader, c.xsrfToken)
		}
		c.mu.RUnlock()
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrServerOffline)
	}
	defer resp.Body.Close()

	c.captureXSRFToken(resp)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &domain.RequestError{Status: resp.StatusCode}
		var payload struct {
			Errors []string `json:"errors"`
			Message string  `json:"message"`
		}
		if json.Unmarshal(respBody, &payload) == nil {
			reqErr.Errors = payload.Errors
			if len(reqErr.Errors) == 0 && payload.Message != "" {
				reqErr.Errors = []string{payload.Message}
			}
		}
		c.logger.Error("api request error", "method", method, "path", path, "status", resp.StatusCode, "errors", reqErr.Errors)
		return reqErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Error("JSON parse error", "path", path, "error", err, "bodyLen", len(respBody))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// captureXSRFToken keeps the anti-forgery token current. The server rotates
// it via Set-Cookie; the most recent value wins.
func (c *Client) captureXSRFToken(resp *http.Response) {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == xsrfCookie && cookie.Value != "" {
			c.mu.Lock()
			c.xsrfToken = cookie.Value
			c.mu.Unlock()
		}
	}
}

func pathWithID(format string, ids ...domain.ID) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
