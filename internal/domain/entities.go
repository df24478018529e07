package domain

import (
	"fmt"
	"time"
)

// ID is a server-assigned entity identifier. The backend never reuses ids,
// so an id uniquely names one entity for the lifetime of the process.
type ID = int64

// User represents an account on the supercloud service. On profile pages a
// user doubles as an "artist" owning songs.
type User struct {
	ID              ID     `json:"id"`
	Username        string `json:"username"`
	Bio             string `json:"bio"`
	Location        string `json:"location"`
	ProfileImageURL string `json:"profileImageURL"`
	BannerImageURL  string `json:"bannerImageURL"`
}

// EntityID implements Entity.
func (u User) EntityID() ID { return u.ID }

// Song represents an uploaded track.
//
// CreatedAt holds the display string the server pre-formats for list and
// detail responses ("3 days ago"), not a timestamp.
type Song struct {
	ID          ID     `json:"id"`
	UserID      ID     `json:"userId"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	SongURL     string `json:"songURL"`
	ArtworkURL  string `json:"artworkURL"`
	PlayCount   int    `json:"playCount"`
	CreatedAt   string `json:"createdAt"`
}

// EntityID implements Entity.
func (s Song) EntityID() ID { return s.ID }

// Like records that a user liked a song. The service treats the
// (UserID, SongID) pair as unique; the store enforces it on insert.
type Like struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"userId"`
	SongID    ID        `json:"songId"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityID implements Entity.
func (l Like) EntityID() ID { return l.ID }

// Comment is a user's comment on a song.
type Comment struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"userId"`
	SongID    ID        `json:"songId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityID implements Entity.
func (c Comment) EntityID() ID { return c.ID }

// Entity is any server-held record with a stable id.
type Entity interface {
	EntityID() ID
}

// SongDraft carries the user-editable fields for song create/edit calls.
// Ownership is stamped server-side from the session.
type SongDraft struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	SongURL     string `json:"songURL"`
	ArtworkURL  string `json:"artworkURL"`
}

// SongDetail is a song with the relations the server eager-loads onto song
// responses. Artist is present on list and detail responses; Likes and
// Comments only on detail responses.
type SongDetail struct {
	Song     Song
	Artist   *User
	Likes    []Like
	Comments []Comment
}

// SessionUser is the eager-loaded graph the server returns on login and
// session restore: the account plus everything needed to render its profile
// without further requests.
type SessionUser struct {
	User       User
	Songs      []Song
	Likes      []Like
	LikedSongs []Song
	Artists    []User // owners of the liked songs
	Comments   []Comment
}

// UserProfile is a user with the relations embedded on profile responses.
type UserProfile struct {
	User     User
	Likes    []Like
	Comments []Comment
}

// RelativeAge formats a timestamp the way the server formats Song.CreatedAt,
// so likes and comments render consistently with songs.
func RelativeAge(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/(24*30)), "month")
	default:
		return plural(int(d.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
