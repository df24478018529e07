package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/log"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, log.NullLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client, server
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("BootstrapPrimesAntiForgeryToken", func(t *testing.T) {
		var gotToken string
		mux := http.NewServeMux()
		mux.HandleFunc("/api/csrf/restore", func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "tok-123"})
			w.Write([]byte(`{}`))
		})
		mux.HandleFunc("/api/likes", func(w http.ResponseWriter, r *http.Request) {
			gotToken = r.Header.Get("XSRF-Token")
			w.Write([]byte(`{"id":1,"userId":7,"songId":3}`))
		})

		client, _ := newTestClient(t, mux)
		if err := client.Bootstrap(ctx); err != nil {
			t.Fatalf("bootstrap failed: %v", err)
		}
		if _, err := client.CreateLike(ctx, 7, 3); err != nil {
			t.Fatalf("create like failed: %v", err)
		}
		if gotToken != "tok-123" {
			t.Errorf("XSRF-Token header = %q, want tok-123", gotToken)
		}
	})

	t.Run("ValidationFailureCarriesErrorList", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"title":"Bad request.","errors":["please enter a title"]}`))
		}))

		_, err := client.CreateSong(ctx, domain.SongDraft{})
		var reqErr *domain.RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("err = %v, want *RequestError", err)
		}
		if !reqErr.IsValidation() {
			t.Error("400 not classified as validation")
		}
		if len(reqErr.Errors) != 1 || reqErr.Errors[0] != "please enter a title" {
			t.Errorf("errors = %v", reqErr.Errors)
		}
	})

	t.Run("NotFoundMapsToSentinel", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Song not found"}`))
		}))

		_, err := client.GetSong(ctx, 99)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound via errors.Is", err)
		}
		if got := domain.ErrorList(err); len(got) != 1 || got[0] != "Song not found" {
			t.Errorf("error list = %v", got)
		}
	})

	t.Run("TransportFailureMapsToServerOffline", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close() // Nothing listening.

		client, err := NewClient(server.URL, log.NullLogger())
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		if _, err := client.ListSongs(ctx); !errors.Is(err, domain.ErrServerOffline) {
			t.Errorf("err = %v, want ErrServerOffline", err)
		}
	})

	t.Run("GetSongDecodesEmbeddedGraph", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/songs/5" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`{
				"id": 5, "userId": 10, "title": "night drive", "createdAt": "3 days ago",
				"User": {"id": 10, "username": "ada"},
				"Likes": [{"id": 1, "userId": 7, "songId": 5, "createdAt": "2024-05-01T12:00:00.000Z"}],
				"Comments": [{"id": 3, "userId": 7, "songId": 5, "body": "nice", "createdAt": "2024-05-02T12:00:00.000Z"}]
			}`))
		}))

		detail, err := client.GetSong(ctx, 5)
		if err != nil {
			t.Fatalf("get song failed: %v", err)
		}
		if detail.Song.Title != "night drive" || detail.Song.CreatedAt != "3 days ago" {
			t.Errorf("song = %+v", detail.Song)
		}
		if detail.Artist == nil || detail.Artist.Username != "ada" {
			t.Errorf("artist = %+v", detail.Artist)
		}
		if len(detail.Likes) != 1 || detail.Likes[0].ID != 1 {
			t.Errorf("likes = %+v", detail.Likes)
		}
		if len(detail.Comments) != 1 || detail.Comments[0].Body != "nice" {
			t.Errorf("comments = %+v", detail.Comments)
		}
	})

	t.Run("DeleteSongReturnsBareID", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("method = %s, want DELETE", r.Method)
			}
			w.Write([]byte(`5`))
		}))

		id, err := client.DeleteSong(ctx, 5)
		if err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if id != 5 {
			t.Errorf("deleted id = %d, want 5", id)
		}
	})

	t.Run("LoginDecodesSessionGraph", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"user": {
				"id": 42, "username": "ada",
				"Songs": [{"id": 1, "userId": 42, "title": "mine"}],
				"Likes": [{"id": 5, "userId": 42, "songId": 9,
					"Song": {"id": 9, "userId": 50, "title": "theirs", "User": {"id": 50, "username": "ben"}}}],
				"Comments": [{"id": 3, "userId": 42, "songId": 9, "body": "hey"}]
			}}`))
		}))

		session, err := client.Login(ctx, "ada", "secret")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if session.User.ID != 42 {
			t.Errorf("user id = %d", session.User.ID)
		}
		if len(session.Songs) != 1 || len(session.Likes) != 1 || len(session.Comments) != 1 {
			t.Errorf("graph sizes: songs=%d likes=%d comments=%d", len(session.Songs), len(session.Likes), len(session.Comments))
		}
		if len(session.LikedSongs) != 1 || session.LikedSongs[0].ID != 9 {
			t.Errorf("liked songs = %+v", session.LikedSongs)
		}
		if len(session.Artists) != 1 || session.Artists[0].Username != "ben" {
			t.Errorf("artists = %+v", session.Artists)
		}
	})

	t.Run("RestoreAnonymousReturnsNil", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))

		session, err := client.Restore(ctx)
		if err != nil {
			t.Fatalf("restore failed: %v", err)
		}
		if session != nil {
			t.Errorf("session = %+v, want nil", session)
		}
	})

	t.Run("SessionCookiePersistsAcrossRequests", func(t *testing.T) {
		var sawCookie bool
		mux := http.NewServeMux()
		mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "jwt-abc", Path: "/"})
			w.Write([]byte(`{"user":{"id":42,"username":"ada"}}`))
		})
		mux.HandleFunc("/api/songs", func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie("token"); err == nil && c.Value == "jwt-abc" {
				sawCookie = true
			}
			w.Write([]byte(`[]`))
		})

		client, _ := newTestClient(t, mux)
		if _, err := client.Login(ctx, "ada", "secret"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if _, err := client.ListSongs(ctx); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !sawCookie {
			t.Error("session cookie not replayed on later request")
		}
	})
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("PutFileStripsSigningQuery", func(t *testing.T) {
		var gotBody string
		var gotContentType string
		bucket := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("method = %s, want PUT", r.Method)
			}
			buf := make([]byte, r.ContentLength)
			r.Body.Read(buf)
			gotBody = string(buf)
			gotContentType = r.Header.Get("Content-Type")
		}))
		defer bucket.Close()

		client, _ := newTestClient(t, http.NotFoundHandler())

		url, err := client.PutFile(ctx, bucket.URL+"/abc123?sig=xyz", "audio/mpeg", strings.NewReader("bytes"), 5)
		if err != nil {
			t.Fatalf("put failed: %v", err)
		}
		if url != bucket.URL+"/abc123" {
			t.Errorf("permanent URL = %q", url)
		}
		if gotBody != "bytes" || gotContentType != "audio/mpeg" {
			t.Errorf("upload body = %q, content type = %q", gotBody, gotContentType)
		}
	})

	t.Run("RequestUploadURL", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/s3URL" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`{"url":"https://bucket/abc?sig=1"}`))
		}))

		url, err := client.RequestUploadURL(ctx)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if url != "https://bucket/abc?sig=1" {
			t.Errorf("url = %q", url)
		}
	})

	t.Run("ContentTypeForFilename", func(t *testing.T) {
		cases := map[string]string{
			"track.mp3":  "audio/mpeg",
			"TRACK.WAV":  "audio/wav",
			"cover.png":  "image/png",
			"cover.jpeg": "image/jpeg",
			"notes.txt":  "application/octet-stream",
		}
		for name, want := range cases {
			if got := ContentTypeForFilename(name); got != want {
				t.Errorf("ContentTypeForFilename(%q) = %q, want %q", name, got, want)
			}
		}
	})
}
