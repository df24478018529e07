package api

import (
	"context"
	"net/http"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// ListSongs returns every song, each with its owning artist embedded.
func (c *Client) ListSongs(ctx context.Context) ([]domain.SongDetail, error) {
	var payload []songJSON
	if err := c.do(ctx, http.MethodGet, "/api/songs", nil, &payload); err != nil {
		return nil, err
	}
	return mapSongDetails(payload), nil
}

// GetSong returns one song with artist, likes, and comments embedded.
func (c *Client) GetSong(ctx context.Context, id domain.ID) (domain.SongDetail, error) {
	var payload songJSON
	if err := c.do(ctx, http.MethodGet, pathWithID("/api/songs/%d", id), nil, &payload); err != nil {
		return domain.SongDetail{}, err
	}
	return mapSongDetail(payload), nil
}

// ListArtistSongs returns the songs owned by one user.
func (c *Client) ListArtistSongs(ctx context.Context, userID domain.ID) ([]domain.Song, error) {
	var payload []songJSON
	if err := c.do(ctx, http.MethodGet, pathWithID("/api/users/%d/songs", userID), nil, &payload); err != nil {
		return nil, err
	}
	return mapSongs(payload), nil
}

// ListArtistLikedSongs returns the songs a user has liked, newest like
// first, each with its artist embedded.
func (c *Client) ListArtistLikedSongs(ctx context.Context, userID domain.ID) ([]domain.SongDetail, error) {
	var payload []songJSON
	if err := c.do(ctx, http.MethodGet, pathWithID("/api/users/%d/likes/songs", userID), nil, &payload); err != nil {
		return nil, err
	}
	return mapSongDetails(payload), nil
}

// CreateSong posts a new song. The server stamps ownership from the session
// and responds with the created entity.
func (c *Client) CreateSong(ctx context.Context, draft domain.SongDraft) (domain.Song, error) {
	var payload songJSON
	if err := c.do(ctx, http.MethodPost, "/api/songs", draft, &payload); err != nil {
		return domain.Song{}, err
	}
	return mapSong(payload), nil
}

// UpdateSong edits a song and returns the full updated entity.
func (c *Client) UpdateSong(ctx context.Context, id domain.ID, draft domain.SongDraft) (domain.Song, error) {
	var payload songJSON
	if err := c.do(ctx, http.MethodPut, pathWithID("/api/songs/%d", id), draft, &payload); err != nil {
		return domain.Song{}, err
	}
	return mapSong(payload), nil
}

// DeleteSong removes a song. The server responds with the bare deleted id,
// not the entity body.
func (c *Client) DeleteSong(ctx context.Context, id domain.ID) (domain.ID, error) {
	var deletedID domain.ID
	if err := c.do(ctx, http.MethodDelete, pathWithID("/api/songs/%d", id), nil, &deletedID); err != nil {
		return 0, err
	}
	return deletedID, nil
}
