package service

import (
	"context"
	"log/slog"

	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/store"
)

// LikeService bridges like/unlike intents to the backend and the store.
type LikeService struct {
	api     domain.LikeAPI
	store   *store.Store
	session *SessionService
	logger  *slog.Logger
}

// NewLikeService creates a new like service.
func NewLikeService(api domain.LikeAPI, st *store.Store, session *SessionService, logger *slog.Logger) *LikeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LikeService{api: api, store: st, session: session, logger: logger}
}

// LoadAll fetches every like and replaces the likes table.
func (s *LikeService) LoadAll(ctx context.Context) error {
	likes, err := s.api.ListLikes(ctx)
	if err != nil {
		s.logger.Error("failed to load likes", "error", err)
		return err
	}

	s.store.Apply(store.Batch{
		Likes: []store.Mutation[domain.Like]{store.BulkLoad[domain.Like]{Entities: likes}},
	})
	s.logger.Debug("loaded likes", "count", len(likes))
	return nil
}

// LoadForSong fetches one song's likes; the response is authoritative for
// that song's bucket only.
func (s *LikeService) LoadForSong(ctx context.Context, songID domain.ID) error {
	likes, err := s.api.ListSongLikes(ctx, songID)
	if err != nil {
		s.logger.Error("failed to load song likes", "error", err, "songID", songID)
		return err
	}

	s.store.Apply(store.Batch{
		Likes: []store.Mutation[domain.Like]{store.BulkLoad[domain.Like]{
			Entities: likes,
			Scope:    &store.Scope{Index: store.IndexBySong, Key: songID},
		}},
	})
	s.logger.Debug("loaded song likes", "songID", songID, "count", len(likes))
	return nil
}

// Like records the current user's like on a song. The store insert happens
// only after the server confirms and assigns an id.
func (s *LikeService) Like(ctx context.Context, songID domain.ID) (domain.Like, error) {
	userID, err := s.session.requireUser()
	if err != nil {
		return domain.Like{}, err
	}

	like, err := s.api.CreateLike(ctx, userID, songID)
	if err != nil {
		s.logger.Error("failed to like song", "error", err, "songID", songID)
		return domain.Like{}, err
	}

	s.store.Apply(store.Batch{
		Likes: []store.Mutation[domain.Like]{store.Insert[domain.Like]{Entity: like}},
	})
	s.logger.Debug("liked song", "songID", songID, "likeID", like.ID)
	return like, nil
}

// Unlike removes the current user's like on a song. The server addresses
// likes by (user, song) and answers with the deleted entity, whose id
// drives the store removal.
func (s *LikeService) Unlike(ctx context.Context, songID domain.ID) error {
	userID, err := s.session.requireUser()
	if err != nil {
		return err
	}

	like, err := s.api.DeleteLike(ctx, userID, songID)
	if err != nil {
		s.logger.Error("failed to unlike song", "error", err, "songID", songID)
		return err
	}

	s.store.Apply(store.Batch{
		Likes: []store.Mutation[domain.Like]{store.Remove[domain.Like]{ID: like.ID}},
	})
	s.logger.Debug("unliked song", "songID", songID, "likeID", like.ID)
	return nil
}
