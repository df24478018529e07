package api

import (
	"context"
	"net/http"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// ListLikes returns every like on the service.
func (c *Client) ListLikes(ctx context.Context) ([]domain.Like, error) {
	var payload []likeJSON
	if err := c.do(ctx, http.MethodGet, "/api/likes", nil, &payload); err != nil {
		return nil, err
	}
	return mapLikes(payload), nil
}

// ListSongLikes returns the likes on one song.
func (c *Client) ListSongLikes(ctx context.Context, songID domain.ID) ([]domain.Like, error) {
	var payload []likeJSON
	if err := c.do(ctx, http.MethodGet, pathWithID("/api/likes/%d", songID), nil, &payload); err != nil {
		return nil, err
	}
	return mapLikes(payload), nil
}

// CreateLike posts a like and returns the created entity with its
// server-assigned id.
func (c *Client) CreateLike(ctx context.Context, userID, songID domain.ID) (domain.Like, error) {
	body := map[string]domain.ID{"userId": userID, "songId": songID}
	var payload likeJSON
	if err := c.do(ctx, http.MethodPost, "/api/likes", body, &payload); err != nil {
		return domain.Like{}, err
	}
	return mapLike(payload), nil
}

// DeleteLike removes a like addressed by its (user, song) pair. The server
// responds with the deleted entity body, which carries the id the store
// needs for removal.
func (c *Client) DeleteLike(ctx context.Context, userID, songID domain.ID) (domain.Like, error) {
	var payload likeJSON
	if err := c.do(ctx, http.MethodDelete, pathWithID("/api/likes/%d/%d", userID, songID), nil, &payload); err != nil {
		return domain.Like{}, err
	}
	return mapLike(payload), nil
}
