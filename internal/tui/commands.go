package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/supercloudfm/supercloud/internal/api"
	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/service"
)

// Command factories for async operations

// LoadFeedCmd loads the song feed
func LoadFeedCmd(svc *service.SongService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := svc.LoadFeed(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading feed"}
		}
		return FeedLoadedMsg{}
	}
}

// LoadSongCmd loads one song with its likes and comments
func LoadSongCmd(svc *service.SongService, id domain.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := svc.Load(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "loading song"}
		}
		return SongLoadedMsg{ID: id}
	}
}

// LoadProfileCmd loads an artist page: the account, their songs, and the
// songs they have liked
func LoadProfileCmd(users *service.UserService, songs *service.SongService, userID domain.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := users.Load(ctx, userID); err != nil {
			return ErrMsg{Err: err, Context: "loading artist"}
		}
		if err := songs.LoadByArtist(ctx, userID); err != nil {
			return ErrMsg{Err: err, Context: "loading artist songs"}
		}
		liked, err := songs.LoadLikedByArtist(ctx, userID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading liked songs"}
		}
		return ProfileLoadedMsg{UserID: userID, LikedSongs: liked}
	}
}

// RestoreSessionCmd checks for an existing session at startup
func RestoreSessionCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		loggedIn, err := svc.Restore(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "restoring session"}
		}
		return SessionRestoredMsg{LoggedIn: loggedIn}
	}
}

// LoginCmd logs in with the given credential
func LoginCmd(svc *service.SessionService, credential, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		user, err := svc.Login(ctx, credential, password)
		if err != nil {
			return ErrMsg{Err: err, Context: "logging in"}
		}
		return LoggedInMsg{User: user}
	}
}

// LogoutCmd ends the session
func LogoutCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := svc.Logout(ctx); err != nil {
			return ErrMsg{Err: err, Context: "logging out"}
		}
		return LoggedOutMsg{}
	}
}

// ToggleLikeCmd likes the song when the current user has no like on it,
// otherwise unlikes it
func ToggleLikeCmd(svc *service.LikeService, liked bool, songID domain.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if liked {
			if err := svc.Unlike(ctx, songID); err != nil {
				return ErrMsg{Err: err, Context: "removing like"}
			}
			return LikeToggledMsg{SongID: songID, Liked: false}
		}
		if _, err := svc.Like(ctx, songID); err != nil {
			return ErrMsg{Err: err, Context: "liking song"}
		}
		return LikeToggledMsg{SongID: songID, Liked: true}
	}
}

// PostCommentCmd creates a comment on a song
func PostCommentCmd(svc *service.CommentService, songID domain.ID, body string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if _, err := svc.Create(ctx, songID, body); err != nil {
			return ErrMsg{Err: err, Context: "posting comment"}
		}
		return CommentPostedMsg{SongID: songID}
	}
}

// DeleteCommentCmd removes a comment
func DeleteCommentCmd(svc *service.CommentService, id domain.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := svc.Remove(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "deleting comment"}
		}
		return CommentDeletedMsg{ID: id}
	}
}

// UploadFileCmd streams a local audio file to object storage and reports
// its permanent URL
func UploadFileCmd(svc *service.SongService, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		f, err := os.Open(path)
		if err != nil {
			return ErrMsg{Err: err, Context: "opening file"}
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return ErrMsg{Err: err, Context: "reading file"}
		}

		name := filepath.Base(path)
		url, err := svc.Upload(ctx, name, api.ContentTypeForFilename(name), f, info.Size())
		if err != nil {
			return ErrMsg{Err: err, Context: "uploading file"}
		}
		return UploadedMsg{URL: url}
	}
}

// CreateSongCmd publishes a new song
func CreateSongCmd(svc *service.SongService, draft domain.SongDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		song, err := svc.Create(ctx, draft)
		if err != nil {
			return ErrMsg{Err: err, Context: "publishing song"}
		}
		return SongSavedMsg{Song: song, Created: true}
	}
}

// EditSongCmd updates an existing song
func EditSongCmd(svc *service.SongService, id domain.ID, draft domain.SongDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		song, err := svc.Edit(ctx, id, draft)
		if err != nil {
			return ErrMsg{Err: err, Context: "saving song"}
		}
		return SongSavedMsg{Song: song}
	}
}

// DeleteSongCmd removes a song
func DeleteSongCmd(svc *service.SongService, id domain.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := svc.Remove(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "deleting song"}
		}
		return SongDeletedMsg{ID: id}
	}
}

// TickCmd sends a tick after the given duration
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears the status bar after a delay
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
