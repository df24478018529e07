package api

import (
	"context"
	"net/http"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// GetUser returns one user's profile with their likes and comments
// embedded.
func (c *Client) GetUser(ctx context.Context, id domain.ID) (domain.UserProfile, error) {
	var payload userJSON
	if err := c.do(ctx, http.MethodGet, pathWithID("/api/users/%d", id), nil, &payload); err != nil {
		return domain.UserProfile{}, err
	}
	return domain.UserProfile{
		User:     mapUser(payload),
		Likes:    mapLikes(payload.Likes),
		Comments: mapComments(payload.Comments),
	}, nil
}
