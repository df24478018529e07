package api

import (
	"time"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// Wire representations. The backend is a Sequelize app: embedded relations
// arrive under capitalized model names ("User", "Likes", "Comments") and
// Song.createdAt is pre-formatted server-side as a relative age string.

type userJSON struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Bio             string `json:"bio"`
	Location        string `json:"location"`
	ProfileImageURL string `json:"profileImageURL"`
	BannerImageURL  string `json:"bannerImageURL"`

	Likes    []likeJSON    `json:"Likes,omitempty"`
	Songs    []songJSON    `json:"Songs,omitempty"`
	Comments []commentJSON `json:"Comments,omitempty"`
}

type songJSON struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	SongURL     string `json:"songURL"`
	ArtworkURL  string `json:"artworkURL"`
	PlayCount   int    `json:"playCount"`
	CreatedAt   string `json:"createdAt"`

	User     *userJSON     `json:"User,omitempty"`
	Likes    []likeJSON    `json:"Likes,omitempty"`
	Comments []commentJSON `json:"Comments,omitempty"`
}

type likeJSON struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	SongID    int64     `json:"songId"`
	CreatedAt time.Time `json:"createdAt"`

	Song *songJSON `json:"Song,omitempty"`
}

type commentJSON struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	SongID    int64     `json:"songId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`

	Song *songJSON `json:"Song,omitempty"`
}

// Mappers from wire shapes to domain entities.

func mapUser(u userJSON) domain.User {
	return domain.User{
		ID:              u.ID,
		Username:        u.Username,
		Bio:             u.Bio,
		Location:        u.Location,
		ProfileImageURL: u.ProfileImageURL,
		BannerImageURL:  u.BannerImageURL,
	}
}

func mapSong(s songJSON) domain.Song {
	return domain.Song{
		ID:          s.ID,
		UserID:      s.UserID,
		Title:       s.Title,
		Genre:       s.Genre,
		Description: s.Description,
		SongURL:     s.SongURL,
		ArtworkURL:  s.ArtworkURL,
		PlayCount:   s.PlayCount,
		CreatedAt:   s.CreatedAt,
	}
}

func mapSongs(ss []songJSON) []domain.Song {
	out := make([]domain.Song, len(ss))
	for i, s := range ss {
		out[i] = mapSong(s)
	}
	return out
}

func mapLike(l likeJSON) domain.Like {
	return domain.Like{
		ID:        l.ID,
		UserID:    l.UserID,
		SongID:    l.SongID,
		CreatedAt: l.CreatedAt,
	}
}

func mapLikes(ls []likeJSON) []domain.Like {
	out := make([]domain.Like, len(ls))
	for i, l := range ls {
		out[i] = mapLike(l)
	}
	return out
}

func mapComment(c commentJSON) domain.Comment {
	return domain.Comment{
		ID:        c.ID,
		UserID:    c.UserID,
		SongID:    c.SongID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func mapComments(cs []commentJSON) []domain.Comment {
	out := make([]domain.Comment, len(cs))
	for i, c := range cs {
		out[i] = mapComment(c)
	}
	return out
}

func mapSongDetail(s songJSON) domain.SongDetail {
	detail := domain.SongDetail{
		Song:     mapSong(s),
		Likes:    mapLikes(s.Likes),
		Comments: mapComments(s.Comments),
	}
	if s.User != nil {
		artist := mapUser(*s.User)
		detail.Artist = &artist
	}
	return detail
}

func mapSongDetails(ss []songJSON) []domain.SongDetail {
	out := make([]domain.SongDetail, len(ss))
	for i, s := range ss {
		out[i] = mapSongDetail(s)
	}
	return out
}

func mapSessionUser(u userJSON) domain.SessionUser {
	session := domain.SessionUser{
		User:     mapUser(u),
		Songs:    mapSongs(u.Songs),
		Likes:    mapLikes(u.Likes),
		Comments: mapComments(u.Comments),
	}
	// Liked songs ride on the likes, each with its artist embedded.
	for _, l := range u.Likes {
		if l.Song == nil {
			continue
		}
		session.LikedSongs = append(session.LikedSongs, mapSong(*l.Song))
		if l.Song.User != nil {
			session.Artists = append(session.Artists, mapUser(*l.Song.User))
		}
	}
	return session
}
