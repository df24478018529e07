package service

import (
	"context"
	"log/slog"

	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/store"
)

// CommentService bridges comment intents to the backend and the store.
type CommentService struct {
	api     domain.CommentAPI
	store   *store.Store
	session *SessionService
	logger  *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(api domain.CommentAPI, st *store.Store, session *SessionService, logger *slog.Logger) *CommentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentService{api: api, store: st, session: session, logger: logger}
}

// LoadForSong fetches one song's comments; the response is authoritative
// for that song's bucket only.
func (s *CommentService) LoadForSong(ctx context.Context, songID domain.ID) error {
	comments, err := s.api.ListSongComments(ctx, songID)
	if err != nil {
		s.logger.Error("failed to load comments", "error", err, "songID", songID)
		return err
	}

	s.store.Apply(store.Batch{
		Comments: []store.Mutation[domain.Comment]{store.BulkLoad[domain.Comment]{
			Entities: comments,
			Scope:    &store.Scope{Index: store.IndexBySong, Key: songID},
		}},
	})
	s.logger.Debug("loaded comments", "songID", songID, "count", len(comments))
	return nil
}

// Create posts a comment and inserts the confirmed entity.
func (s *CommentService) Create(ctx context.Context, songID domain.ID, body string) (domain.Comment, error) {
	if _, err := s.session.requireUser(); err != nil {
		return domain.Comment{}, err
	}
	if msgs := ValidateComment(body); len(msgs) > 0 {
		return domain.Comment{}, validationError(msgs)
	}

	comment, err := s.api.CreateComment(ctx, songID, body)
	if err != nil {
		s.logger.Error("failed to create comment", "error", err, "songID", songID)
		return domain.Comment{}, err
	}

	s.store.Apply(store.Batch{
		Comments: []store.Mutation[domain.Comment]{store.Insert[domain.Comment]{Entity: comment}},
	})
	s.logger.Debug("created comment", "songID", songID, "commentID", comment.ID)
	return comment, nil
}

// Remove deletes a comment by id.
func (s *CommentService) Remove(ctx context.Context, id domain.ID) error {
	if _, err := s.session.requireUser(); err != nil {
		return err
	}

	deletedID, err := s.api.DeleteComment(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete comment", "error", err, "commentID", id)
		return err
	}

	s.store.Apply(store.Batch{
		Comments: []store.Mutation[domain.Comment]{store.Remove[domain.Comment]{ID: deletedID}},
	})
	s.logger.Debug("deleted comment", "commentID", deletedID)
	return nil
}
