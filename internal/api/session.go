package api

import (
	"context"
	"net/http"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// Login exchanges credentials for a session cookie. The response embeds the
// account's likes (each with its song and that song's artist), songs, and
// comments so the client can render the profile without further requests.
func (c *Client) Login(ctx context.Context, credential, password string) (domain.SessionUser, error) {
	body := struct {
		Credential string `json:"credential"`
		Password   string `json:"password"`
	}{Credential: credential, Password: password}

	var payload struct {
		User userJSON `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/session", body, &payload); err != nil {
		return domain.SessionUser{}, err
	}
	return mapSessionUser(payload.User), nil
}

// Logout clears the session cookie server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/session", nil, nil)
}

// Restore returns the current session's account graph, or nil when the
// client holds no valid session (the server answers `{}` rather than an
// error for anonymous callers).
func (c *Client) Restore(ctx context.Context) (*domain.SessionUser, error) {
	var payload struct {
		User *userJSON `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, &payload); err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, nil
	}
	session := mapSessionUser(*payload.User)
	return &session, nil
}
