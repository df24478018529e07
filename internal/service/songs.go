package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/store"
)

// SongService bridges song intents to the backend and the store.
type SongService struct {
	api     domain.SongAPI
	uploads domain.UploadAPI
	store   *store.Store
	session *SessionService
	logger  *slog.Logger
}

// NewSongService creates a new song service.
func NewSongService(api domain.SongAPI, uploads domain.UploadAPI, st *store.Store, session *SessionService, logger *slog.Logger) *SongService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SongService{api: api, uploads: uploads, store: st, session: session, logger: logger}
}

// LoadFeed fetches every song and replaces the songs table; embedded
// artists merge into the users table in the same commit.
func (s *SongService) LoadFeed(ctx context.Context) error {
	details, err := s.api.ListSongs(ctx)
	if err != nil {
		s.logger.Error("failed to load feed", "error", err)
		return err
	}

	songs := make([]domain.Song, len(details))
	var users []store.Mutation[domain.User]
	for i, d := range details {
		songs[i] = d.Song
		if d.Artist != nil {
			users = append(users, store.Insert[domain.User]{Entity: *d.Artist})
		}
	}

	s.store.Apply(store.Batch{
		Songs: []store.Mutation[domain.Song]{store.BulkLoad[domain.Song]{Entities: songs}},
		Users: users,
	})
	s.logger.Debug("loaded feed", "count", len(songs))
	return nil
}

// Load fetches one song with its relations and commits the whole graph
// atomically: the song and artist upsert, and the response is authoritative
// for the song's like and comment buckets.
func (s *SongService) Load(ctx context.Context, id domain.ID) error {
	detail, err := s.api.GetSong(ctx, id)
	if err != nil {
		s.logger.Error("failed to load song", "error", err, "songID", id)
		return err
	}

	batch := store.Batch{
		Songs: []store.Mutation[domain.Song]{store.Insert[domain.Song]{Entity: detail.Song}},
		Likes: []store.Mutation[domain.Like]{store.BulkLoad[domain.Like]{
			Entities: detail.Likes,
			Scope:    &store.Scope{Index: store.IndexBySong, Key: id},
		}},
		Comments: []store.Mutation[domain.Comment]{store.BulkLoad[domain.Comment]{
			Entities: detail.Comments,
			Scope:    &store.Scope{Index: store.IndexBySong, Key: id},
		}},
	}
	if detail.Artist != nil {
		batch.Users = []store.Mutation[domain.User]{store.Insert[domain.User]{Entity: *detail.Artist}}
	}

	s.store.Apply(batch)
	s.logger.Debug("loaded song", "songID", id, "likes", len(detail.Likes), "comments", len(detail.Comments))
	return nil
}

// LoadByArtist fetches one artist's songs; the response is authoritative
// for that artist's bucket only.
func (s *SongService) LoadByArtist(ctx context.Context, userID domain.ID) error {
	songs, err := s.api.ListArtistSongs(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load artist songs", "error", err, "userID", userID)
		return err
	}

	s.store.Apply(store.Batch{
		Songs: []store.Mutation[domain.Song]{store.BulkLoad[domain.Song]{
			Entities: songs,
			Scope:    &store.Scope{Index: store.IndexByArtist, Key: userID},
		}},
	})
	s.logger.Debug("loaded artist songs", "userID", userID, "count", len(songs))
	return nil
}

// LoadLikedByArtist fetches the songs a user has liked and merges them (and
// their artists) into the store. Returns the songs in like order for the
// profile sidebar, which wants newest-liked first.
func (s *SongService) LoadLikedByArtist(ctx context.Context, userID domain.ID) ([]domain.Song, error) {
	details, err := s.api.ListArtistLikedSongs(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load liked songs", "error", err, "userID", userID)
		return nil, err
	}

	var batch store.Batch
	songs := make([]domain.Song, len(details))
	for i, d := range details {
		songs[i] = d.Song
		batch.Songs = append(batch.Songs, store.Insert[domain.Song]{Entity: d.Song})
		if d.Artist != nil {
			batch.Users = append(batch.Users, store.Insert[domain.User]{Entity: *d.Artist})
		}
	}

	s.store.Apply(batch)
	s.logger.Debug("loaded liked songs", "userID", userID, "count", len(songs))
	return songs, nil
}

// Upload pushes a local file to object storage via a single-use URL and
// returns the permanent URL for the draft. No store mutation: nothing is
// server-confirmed until the song create itself succeeds.
func (s *SongService) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	if _, err := s.session.requireUser(); err != nil {
		return "", err
	}

	uploadURL, err := s.uploads.RequestUploadURL(ctx)
	if err != nil {
		s.logger.Error("failed to request upload URL", "error", err)
		return "", err
	}

	fileURL, err := s.uploads.PutFile(ctx, uploadURL, contentType, body, size)
	if err != nil {
		s.logger.Error("file upload failed", "error", err, "filename", filename)
		return "", err
	}

	s.logger.Info("uploaded file", "filename", filename, "url", fileURL)
	return fileURL, nil
}

// Create posts a new song and inserts the confirmed entity. Pessimistic:
// nothing reaches the store until the server has assigned an id.
func (s *SongService) Create(ctx context.Context, draft domain.SongDraft) (domain.Song, error) {
	if _, err := s.session.requireUser(); err != nil {
		return domain.Song{}, err
	}
	if msgs := ValidateSongDraft(draft); len(msgs) > 0 {
		return domain.Song{}, validationError(msgs)
	}

	song, err := s.api.CreateSong(ctx, draft)
	if err != nil {
		s.logger.Error("failed to create song", "error", err, "title", draft.Title)
		return domain.Song{}, err
	}

	s.store.Apply(store.Batch{
		Songs: []store.Mutation[domain.Song]{store.Insert[domain.Song]{Entity: song}},
	})
	s.logger.Info("created song", "songID", song.ID, "title", song.Title)
	return song, nil
}

// Edit updates a song and overwrites the stored entity with the server's
// full response.
func (s *SongService) Edit(ctx context.Context, id domain.ID, draft domain.SongDraft) (domain.Song, error) {
	if _, err := s.session.requireUser(); err != nil {
		return domain.Song{}, err
	}
	if msgs := ValidateSongEdit(draft); len(msgs) > 0 {
		return domain.Song{}, validationError(msgs)
	}

	song, err := s.api.UpdateSong(ctx, id, draft)
	if err != nil {
		s.logger.Error("failed to edit song", "error", err, "songID", id)
		return domain.Song{}, err
	}

	s.store.Apply(store.Batch{
		Songs: []store.Mutation[domain.Song]{store.Insert[domain.Song]{Entity: song}},
	})
	s.logger.Info("edited song", "songID", song.ID)
	return song, nil
}

// Remove deletes a song. Only the explicit delete confirmation removes the
// entity; a not-found on some other call never does.
func (s *SongService) Remove(ctx context.Context, id domain.ID) error {
	if _, err := s.session.requireUser(); err != nil {
		return err
	}

	deletedID, err := s.api.DeleteSong(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete song", "error", err, "songID", id)
		return err
	}

	s.store.Apply(store.Batch{
		Songs: []store.Mutation[domain.Song]{store.Remove[domain.Song]{ID: deletedID}},
	})
	s.logger.Info("deleted song", "songID", deletedID)
	return nil
}
