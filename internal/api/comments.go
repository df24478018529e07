package api

import (
	"context"
	"net/http"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// ListSongComments returns the comments on one song, oldest first.
func (c *Client) ListSongComments(ctx context.Context, songID domain.ID) ([]domain.Comment, error) {
	var payload []commentJSON
	if err := c.do(ctx, http.MethodGet, pathWithID("/api/songs/%d/comments", songID), nil, &payload); err != nil {
		return nil, err
	}
	return mapComments(payload), nil
}

// CreateComment posts a comment on a song; authorship comes from the
// session.
func (c *Client) CreateComment(ctx context.Context, songID domain.ID, body string) (domain.Comment, error) {
	reqBody := struct {
		SongID domain.ID `json:"songId"`
		Body   string    `json:"body"`
	}{SongID: songID, Body: body}

	var payload commentJSON
	if err := c.do(ctx, http.MethodPost, "/api/comments", reqBody, &payload); err != nil {
		return domain.Comment{}, err
	}
	return mapComment(payload), nil
}

// DeleteComment removes a comment. The server responds with the bare id.
func (c *Client) DeleteComment(ctx context.Context, id domain.ID) (domain.ID, error) {
	var deletedID domain.ID
	if err := c.do(ctx, http.MethodDelete, pathWithID("/api/comments/%d", id), nil, &deletedID); err != nil {
		return 0, err
	}
	return deletedID, nil
}
