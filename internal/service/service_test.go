package service

import (
	"context"
	"io"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// Stub backends for pipeline tests. Each field overrides one route; calls
// without an override fail loudly so a test never silently exercises the
// wrong path.

type stubSongAPI struct {
	listSongs            func(ctx context.Context) ([]domain.SongDetail, error)
	getSong              func(ctx context.Context, id domain.ID) (domain.SongDetail, error)
	listArtistSongs      func(ctx context.Context, userID domain.ID) ([]domain.Song, error)
	listArtistLikedSongs func(ctx context.Context, userID domain.ID) ([]domain.SongDetail, error)
	createSong           func(ctx context.Context, draft domain.SongDraft) (domain.Song, error)
	updateSong           func(ctx context.Context, id domain.ID, draft domain.SongDraft) (domain.Song, error)
	deleteSong           func(ctx context.Context, id domain.ID) (domain.ID, error)
}

func (s *stubSongAPI) ListSongs(ctx context.Context) ([]domain.SongDetail, error) {
	return s.listSongs(ctx)
}

func (s *stubSongAPI) GetSong(ctx context.Context, id domain.ID) (domain.SongDetail, error) {
	return s.getSong(ctx, id)
}

func (s *stubSongAPI) ListArtistSongs(ctx context.Context, userID domain.ID) ([]domain.Song, error) {
	return s.listArtistSongs(ctx, userID)
}

func (s *stubSongAPI) ListArtistLikedSongs(ctx context.Context, userID domain.ID) ([]domain.SongDetail, error) {
	return s.listArtistLikedSongs(ctx, userID)
}

func (s *stubSongAPI) CreateSong(ctx context.Context, draft domain.SongDraft) (domain.Song, error) {
	return s.createSong(ctx, draft)
}

func (s *stubSongAPI) UpdateSong(ctx context.Context, id domain.ID, draft domain.SongDraft) (domain.Song, error) {
	return s.updateSong(ctx, id, draft)
}

func (s *stubSongAPI) DeleteSong(ctx context.Context, id domain.ID) (domain.ID, error) {
	return s.deleteSong(ctx, id)
}

type stubLikeAPI struct {
	listLikes     func(ctx context.Context) ([]domain.Like, error)
	listSongLikes func(ctx context.Context, songID domain.ID) ([]domain.Like, error)
	createLike    func(ctx context.Context, userID, songID domain.ID) (domain.Like, error)
	deleteLike    func(ctx context.Context, userID, songID domain.ID) (domain.Like, error)
}

func (s *stubLikeAPI) ListLikes(ctx context.Context) ([]domain.Like, error) {
	return s.listLikes(ctx)
}

func (s *stubLikeAPI) ListSongLikes(ctx context.Context, songID domain.ID) ([]domain.Like, error) {
	return s.listSongLikes(ctx, songID)
}

func (s *stubLikeAPI) CreateLike(ctx context.Context, userID, songID domain.ID) (domain.Like, error) {
	return s.createLike(ctx, userID, songID)
}

func (s *stubLikeAPI) DeleteLike(ctx context.Context, userID, songID domain.ID) (domain.Like, error) {
	return s.deleteLike(ctx, userID, songID)
}

type stubCommentAPI struct {
	listSongComments func(ctx context.Context, songID domain.ID) ([]domain.Comment, error)
	createComment    func(ctx context.Context, songID domain.ID, body string) (domain.Comment, error)
	deleteComment    func(ctx context.Context, id domain.ID) (domain.ID, error)
}

func (s *stubCommentAPI) ListSongComments(ctx context.Context, songID domain.ID) ([]domain.Comment, error) {
	return s.listSongComments(ctx, songID)
}

func (s *stubCommentAPI) CreateComment(ctx context.Context, songID domain.ID, body string) (domain.Comment, error) {
	return s.createComment(ctx, songID, body)
}

func (s *stubCommentAPI) DeleteComment(ctx context.Context, id domain.ID) (domain.ID, error) {
	return s.deleteComment(ctx, id)
}

type stubUserAPI struct {
	getUser func(ctx context.Context, id domain.ID) (domain.UserProfile, error)
}

func (s *stubUserAPI) GetUser(ctx context.Context, id domain.ID) (domain.UserProfile, error) {
	return s.getUser(ctx, id)
}

type stubSessionAPI struct {
	login   func(ctx context.Context, credential, password string) (domain.SessionUser, error)
	logout  func(ctx context.Context) error
	restore func(ctx context.Context) (*domain.SessionUser, error)
}

func (s *stubSessionAPI) Login(ctx context.Context, credential, password string) (domain.SessionUser, error) {
	return s.login(ctx, credential, password)
}

func (s *stubSessionAPI) Logout(ctx context.Context) error {
	return s.logout(ctx)
}

func (s *stubSessionAPI) Restore(ctx context.Context) (*domain.SessionUser, error) {
	return s.restore(ctx)
}

type stubUploadAPI struct {
	requestUploadURL func(ctx context.Context) (string, error)
	putFile          func(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) (string, error)
}

func (s *stubUploadAPI) RequestUploadURL(ctx context.Context) (string, error) {
	return s.requestUploadURL(ctx)
}

func (s *stubUploadAPI) PutFile(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) (string, error) {
	return s.putFile(ctx, uploadURL, contentType, body, size)
}
