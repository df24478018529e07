package tui

import (
	"github.com/supercloudfm/supercloud/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// FeedLoadedMsg signals that the song feed has been committed to the store
type FeedLoadedMsg struct{}

// SongLoadedMsg signals that a song's detail graph has been committed
type SongLoadedMsg struct {
	ID domain.ID
}

// ProfileLoadedMsg signals that an artist profile has been committed
type ProfileLoadedMsg struct {
	UserID     domain.ID
	LikedSongs []domain.Song
}

// SessionRestoredMsg signals the startup session check finished
type SessionRestoredMsg struct {
	LoggedIn bool
}

// LoggedInMsg signals a successful login
type LoggedInMsg struct {
	User domain.User
}

// LoggedOutMsg signals the session ended and the store was reset
type LoggedOutMsg struct{}

// LikeToggledMsg signals a like or unlike committed
type LikeToggledMsg struct {
	SongID domain.ID
	Liked  bool
}

// CommentPostedMsg signals a new comment committed
type CommentPostedMsg struct {
	SongID domain.ID
}

// CommentDeletedMsg signals a comment removal committed
type CommentDeletedMsg struct {
	ID domain.ID
}

// SongSavedMsg signals a create or edit committed
type SongSavedMsg struct {
	Song    domain.Song
	Created bool
}

// SongDeletedMsg signals a song removal committed
type SongDeletedMsg struct {
	ID domain.ID
}

// UploadedMsg carries the permanent URL of an uploaded file
type UploadedMsg struct {
	URL string
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// TickMsg is a general tick message for the spinner
type TickMsg struct{}
