// Package service is the mutation pipeline: each operation performs one
// network call and, only on a confirmed success, commits exactly one store
// batch. Failures leave the store untouched and surface as typed errors.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/store"
)

// SessionService owns the session lifecycle and is the session guard the
// other services consult before mutating calls.
type SessionService struct {
	api    domain.SessionAPI
	store  *store.Store
	logger *slog.Logger
	userID atomic.Int64 // 0 means anonymous
}

// NewSessionService creates a new session service.
func NewSessionService(api domain.SessionAPI, st *store.Store, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{api: api, store: st, logger: logger}
}

// CurrentUserID returns the authenticated user's id. The second return is
// false while anonymous; mutating operations must not be attempted then.
func (s *SessionService) CurrentUserID() (domain.ID, bool) {
	id := s.userID.Load()
	return id, id != 0
}

// Login authenticates and commits the account's eager-loaded graph (songs,
// likes, liked songs with their artists, comments) in one atomic batch.
func (s *SessionService) Login(ctx context.Context, credential, password string) (domain.User, error) {
	if msgs := ValidateLogin(credential, password); len(msgs) > 0 {
		return domain.User{}, validationError(msgs)
	}

	session, err := s.api.Login(ctx, credential, password)
	if err != nil {
		s.logger.Error("login failed", "error", err)
		return domain.User{}, err
	}

	s.store.Apply(sessionBatch(session))
	s.userID.Store(session.User.ID)
	s.logger.Info("logged in", "userID", session.User.ID, "username", session.User.Username)
	return session.User, nil
}

// Restore re-establishes a session from the cookie the client already
// holds. Returns false without error when the server answers anonymously.
func (s *SessionService) Restore(ctx context.Context) (bool, error) {
	session, err := s.api.Restore(ctx)
	if err != nil {
		s.logger.Error("session restore failed", "error", err)
		return false, err
	}
	if session == nil {
		s.logger.Debug("no session to restore")
		return false, nil
	}

	s.store.Apply(sessionBatch(*session))
	s.userID.Store(session.User.ID)
	s.logger.Info("session restored", "userID", session.User.ID)
	return true, nil
}

// Logout tears down the session and resets the store so the next account
// starts from an empty working copy.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Error("logout failed", "error", err)
		return err
	}
	s.userID.Store(0)
	s.store.Reset()
	s.logger.Info("logged out")
	return nil
}

// sessionBatch turns a login/restore response into one commit. The response
// is authoritative for the account's own likes, songs, and comments, so
// those load scoped; liked songs and their artists merge in by key.
func sessionBatch(session domain.SessionUser) store.Batch {
	userID := session.User.ID

	users := []store.Mutation[domain.User]{store.Insert[domain.User]{Entity: session.User}}
	for _, artist := range session.Artists {
		users = append(users, store.Insert[domain.User]{Entity: artist})
	}

	songs := []store.Mutation[domain.Song]{store.BulkLoad[domain.Song]{
		Entities: session.Songs,
		Scope:    &store.Scope{Index: store.IndexByArtist, Key: userID},
	}}
	for _, song := range session.LikedSongs {
		songs = append(songs, store.Insert[domain.Song]{Entity: song})
	}

	return store.Batch{
		Users: users,
		Songs: songs,
		Likes: []store.Mutation[domain.Like]{store.BulkLoad[domain.Like]{
			Entities: session.Likes,
			Scope:    &store.Scope{Index: store.IndexByUser, Key: userID},
		}},
		Comments: []store.Mutation[domain.Comment]{store.BulkLoad[domain.Comment]{
			Entities: session.Comments,
			Scope:    &store.Scope{Index: store.IndexByUser, Key: userID},
		}},
	}
}

// requireUser is the session-guard check mutating operations run before
// touching the network.
func (s *SessionService) requireUser() (domain.ID, error) {
	id, ok := s.CurrentUserID()
	if !ok {
		return 0, domain.ErrNotAuthenticated
	}
	return id, nil
}
