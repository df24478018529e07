package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/log"
	"github.com/supercloudfm/supercloud/internal/store"
)

func equalIDs(a, b []domain.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// authedSession logs a stub user in so mutating operations pass the session
// guard.
func authedSession(t *testing.T, st *store.Store, userID domain.ID) *SessionService {
	t.Helper()
	api := &stubSessionAPI{
		login: func(ctx context.Context, credential, password string) (domain.SessionUser, error) {
			return domain.SessionUser{User: domain.User{ID: userID, Username: "tester"}}, nil
		},
	}
	svc := NewSessionService(api, st, log.NullLogger())
	if _, err := svc.Login(context.Background(), "tester", "password"); err != nil {
		t.Fatalf("stub login failed: %v", err)
	}
	return svc
}

func anonymousSession(st *store.Store) *SessionService {
	return NewSessionService(&stubSessionAPI{}, st, log.NullLogger())
}

func TestSongService(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateCommitsOwnershipIndex", func(t *testing.T) {
		st := store.New(log.NullLogger())
		session := authedSession(t, st, 42)

		api := &stubSongAPI{
			createSong: func(ctx context.Context, draft domain.SongDraft) (domain.Song, error) {
				return domain.Song{ID: 99, UserID: 42, Title: draft.Title, SongURL: draft.SongURL}, nil
			},
		}
		svc := NewSongService(api, nil, st, session, log.NullLogger())

		song, err := svc.Create(ctx, domain.SongDraft{Title: "night drive", SongURL: "https://cdn/x.mp3"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if song.ID != 99 {
			t.Errorf("created song id = %d, want 99", song.ID)
		}

		snap := st.Snapshot()
		if _, ok := snap.Songs.Get(99); !ok {
			t.Error("created song not in store")
		}
		if got := snap.Songs.IDsByIndex(store.IndexByArtist, 42); !equalIDs(got, []domain.ID{99}) {
			t.Errorf("byArtist[42] = %v, want [99]", got)
		}
	})

	t.Run("CreateFailureLeavesStoreUntouched", func(t *testing.T) {
		st := store.New(log.NullLogger())
		session := authedSession(t, st, 42)

		api := &stubSongAPI{
			createSong: func(ctx context.Context, draft domain.SongDraft) (domain.Song, error) {
				return domain.Song{}, &domain.RequestError{Status: 400, Errors: []string{"bad"}}
			},
		}
		svc := NewSongService(api, nil, st, session, log.NullLogger())

		before := st.Snapshot()
		_, err := svc.Create(ctx, domain.SongDraft{Title: "x", SongURL: "https://cdn/x.mp3"})
		if err == nil {
			t.Fatal("create succeeded against a 400 stub")
		}
		if st.Snapshot() != before {
			t.Error("failed create mutated the store")
		}
		if got := domain.ErrorList(err); len(got) != 1 || got[0] != "bad" {
			t.Errorf("error list = %v, want [bad]", got)
		}
	})

	t.Run("CreateRequiresSession", func(t *testing.T) {
		st := store.New(log.NullLogger())
		// No createSong override: reaching the network would panic.
		svc := NewSongService(&stubSongAPI{}, nil, st, anonymousSession(st), log.NullLogger())

		_, err := svc.Create(ctx, domain.SongDraft{Title: "x", SongURL: "https://cdn/x.mp3"})
		if !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Errorf("err = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("CreateValidatesDraft", func(t *testing.T) {
		st := store.New(log.NullLogger())
		session := authedSession(t, st, 42)
		svc := NewSongService(&stubSongAPI{}, nil, st, session, log.NullLogger())

		before := st.Snapshot()
		_, err := svc.Create(ctx, domain.SongDraft{})
		if err == nil {
			t.Fatal("create accepted an empty draft")
		}
		msgs := domain.ErrorList(err)
		if len(msgs) == 0 || msgs[0] != "please upload a song first" {
			t.Errorf("validation messages = %v", msgs)
		}
		if st.Snapshot() != before {
			t.Error("validation failure mutated the store")
		}
	})

	t.Run("LoadFeedReplacesSongsAndMergesArtists", func(t *testing.T) {
		st := store.New(log.NullLogger())
		st.Apply(store.Batch{Songs: []store.Mutation[domain.Song]{
			store.Insert[domain.Song]{Entity: domain.Song{ID: 77, UserID: 1, Title: "stale"}},
		}})

		api := &stubSongAPI{
			listSongs: func(ctx context.Context) ([]domain.SongDetail, error) {
				return []domain.SongDetail{
					{Song: domain.Song{ID: 1, UserID: 10, Title: "a"}, Artist: &domain.User{ID: 10, Username: "ada"}},
					{Song: domain.Song{ID: 2, UserID: 11, Title: "b"}, Artist: &domain.User{ID: 11, Username: "ben"}},
				}, nil
			},
		}
		svc := NewSongService(api, nil, st, anonymousSession(st), log.NullLogger())

		if err := svc.LoadFeed(ctx); err != nil {
			t.Fatalf("load feed failed: %v", err)
		}

		snap := st.Snapshot()
		if snap.Songs.Has(77) {
			t.Error("full feed load kept a song absent from the response")
		}
		if snap.Songs.Len() != 2 {
			t.Errorf("songs table has %d entities, want 2", snap.Songs.Len())
		}
		if _, ok := snap.Users.Get(10); !ok {
			t.Error("embedded artist not merged into users table")
		}
	})

	t.Run("LoadCommitsSongGraphAtomically", func(t *testing.T) {
		st := store.New(log.NullLogger())
		api := &stubSongAPI{
			getSong: func(ctx context.Context, id domain.ID) (domain.SongDetail, error) {
				return domain.SongDetail{
					Song:     domain.Song{ID: 5, UserID: 10, Title: "a"},
					Artist:   &domain.User{ID: 10, Username: "ada"},
					Likes:    []domain.Like{{ID: 1, UserID: 7, SongID: 5}},
					Comments: []domain.Comment{{ID: 3, UserID: 7, SongID: 5, Body: "nice"}},
				}, nil
			},
		}
		svc := NewSongService(api, nil, st, anonymousSession(st), log.NullLogger())

		if err := svc.Load(ctx, 5); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		snap := st.Snapshot()
		if got := snap.Likes.IDsByIndex(store.IndexBySong, 5); !equalIDs(got, []domain.ID{1}) {
			t.Errorf("likes bySong[5] = %v, want [1]", got)
		}
		if got := snap.Comments.IDsByIndex(store.IndexBySong, 5); !equalIDs(got, []domain.ID{3}) {
			t.Errorf("comments bySong[5] = %v, want [3]", got)
		}
		if _, ok := snap.Users.Get(10); !ok {
			t.Error("artist missing from users table")
		}
	})

	t.Run("RemoveDeletesFromStore", func(t *testing.T) {
		st := store.New(log.NullLogger())
		session := authedSession(t, st, 42)
		st.Apply(store.Batch{Songs: []store.Mutation[domain.Song]{
			store.Insert[domain.Song]{Entity: domain.Song{ID: 5, UserID: 42, Title: "a"}},
		}})

		api := &stubSongAPI{
			deleteSong: func(ctx context.Context, id domain.ID) (domain.ID, error) { return id, nil },
		}
		svc := NewSongService(api, nil, st, session, log.NullLogger())

		if err := svc.Remove(ctx, 5); err != nil {
			t.Fatalf("remove failed: %v", err)
		}

		snap := st.Snapshot()
		if snap.Songs.Has(5) {
			t.Error("deleted song still in store")
		}
		if got := snap.Songs.IDsByIndex(store.IndexByArtist, 42); len(got) != 0 {
			t.Errorf("byArtist[42] = %v after delete, want empty", got)
		}
	})

	t.Run("UploadReturnsPermanentURL", func(t *testing.T) {
		st := store.New(log.NullLogger())
		session := authedSession(t, st, 42)

		uploads := &stubUploadAPI{
			requestUploadURL: func(ctx context.Context) (string, error) {
				return "https://bucket.s3.amazonaws.com/abc123?sig=xyz", nil
			},
			putFile: func(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) (string, error) {
				return strings.SplitN(uploadURL, "?", 2)[0], nil
			},
		}
		svc := NewSongService(&stubSongAPI{}, uploads, st, session, log.NullLogger())

		url, err := svc.Upload(ctx, "track.mp3", "audio/mpeg", strings.NewReader("bytes"), 5)
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if url != "https://bucket.s3.amazonaws.com/abc123" {
			t.Errorf("permanent URL = %q", url)
		}
	})
}
