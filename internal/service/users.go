package service

import (
	"context"
	"log/slog"

	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/store"
)

// UserService loads artist profiles.
type UserService struct {
	api    domain.UserAPI
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(api domain.UserAPI, st *store.Store, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{api: api, store: st, logger: logger}
}

// Load fetches one user's profile and commits it with the embedded likes
// and comments, which are authoritative for that user's buckets.
func (s *UserService) Load(ctx context.Context, id domain.ID) (domain.User, error) {
	profile, err := s.api.GetUser(ctx, id)
	if err != nil {
		s.logger.Error("failed to load user", "error", err, "userID", id)
		return domain.User{}, err
	}

	s.store.Apply(store.Batch{
		Users: []store.Mutation[domain.User]{store.Insert[domain.User]{Entity: profile.User}},
		Likes: []store.Mutation[domain.Like]{store.BulkLoad[domain.Like]{
			Entities: profile.Likes,
			Scope:    &store.Scope{Index: store.IndexByUser, Key: id},
		}},
		Comments: []store.Mutation[domain.Comment]{store.BulkLoad[domain.Comment]{
			Entities: profile.Comments,
			Scope:    &store.Scope{Index: store.IndexByUser, Key: id},
		}},
	})
	s.logger.Debug("loaded user", "userID", id, "likes", len(profile.Likes), "comments", len(profile.Comments))
	return profile.User, nil
}
