package domain

import (
	"context"
	"io"
)

// SongAPI covers the song routes of the backend entity service.
type SongAPI interface {
	// ListSongs returns every song with its owning artist embedded.
	ListSongs(ctx context.Context) ([]SongDetail, error)

	// GetSong returns one song with artist, likes, and comments embedded.
	GetSong(ctx context.Context, id ID) (SongDetail, error)

	// ListArtistSongs returns the songs owned by one user.
	ListArtistSongs(ctx context.Context, userID ID) ([]Song, error)

	// ListArtistLikedSongs returns the songs a user has liked, newest like
	// first, each with its artist embedded.
	ListArtistLikedSongs(ctx context.Context, userID ID) ([]SongDetail, error)

	// CreateSong uploads a new song record; ownership comes from the session.
	CreateSong(ctx context.Context, draft SongDraft) (Song, error)

	// UpdateSong edits an existing song and returns the full updated entity.
	UpdateSong(ctx context.Context, id ID, draft SongDraft) (Song, error)

	// DeleteSong removes a song. The server responds with the bare id.
	DeleteSong(ctx context.Context, id ID) (ID, error)
}

// LikeAPI covers the like routes.
type LikeAPI interface {
	ListLikes(ctx context.Context) ([]Like, error)
	ListSongLikes(ctx context.Context, songID ID) ([]Like, error)
	CreateLike(ctx context.Context, userID, songID ID) (Like, error)

	// DeleteLike removes a like by its (user, song) pair and returns the
	// deleted entity body.
	DeleteLike(ctx context.Context, userID, songID ID) (Like, error)
}

// CommentAPI covers the comment routes.
type CommentAPI interface {
	ListSongComments(ctx context.Context, songID ID) ([]Comment, error)
	CreateComment(ctx context.Context, songID ID, body string) (Comment, error)
	DeleteComment(ctx context.Context, id ID) (ID, error)
}

// UserAPI covers the user/profile routes.
type UserAPI interface {
	GetUser(ctx context.Context, id ID) (UserProfile, error)
}

// SessionAPI covers session establishment and teardown.
type SessionAPI interface {
	// Login exchanges credentials for a session cookie and the eager-loaded
	// account graph.
	Login(ctx context.Context, credential, password string) (SessionUser, error)

	// Logout clears the session cookie server-side.
	Logout(ctx context.Context) error

	// Restore returns the current session's account graph, or nil when the
	// client holds no valid session.
	Restore(ctx context.Context) (*SessionUser, error)
}

// UploadAPI covers the object-storage upload flow: fetch a single-use URL,
// then PUT the file bytes to it. The URL expires about a minute after issue
// and is bound to a random opaque key.
type UploadAPI interface {
	RequestUploadURL(ctx context.Context) (string, error)
	PutFile(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) (string, error)
}
