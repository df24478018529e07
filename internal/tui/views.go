package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/store"
	"github.com/supercloudfm/supercloud/internal/tui/styles"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "loading..."
	}

	var body string
	switch m.State {
	case StateFeed:
		body = m.viewFeed()
	case StateSong:
		body = m.viewSong()
	case StateProfile:
		body = m.viewProfile()
	case StateSearch:
		body = m.viewSearch()
	case StateLogin:
		body = m.viewLogin()
	case StateSongForm:
		body = m.viewSongForm()
	case StateConfirmDelete:
		body = m.viewConfirm()
	case StateHelp:
		body = m.viewHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatusBar())
}

func (m Model) viewFeed() string {
	var b strings.Builder

	title := "supercloud"
	if m.Loading {
		title += " " + styles.SpinnerStyle.Render(spinnerFrames[m.SpinnerFrame%len(spinnerFrames)])
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	if m.filtering || m.filterInput.Value() != "" {
		b.WriteString(m.filterInput.View())
		b.WriteString("\n\n")
	}

	visible := m.visibleFeed()
	if len(visible) == 0 {
		if m.filterInput.Value() != "" {
			b.WriteString(styles.DimStyle.Render("no songs match the filter"))
		} else {
			b.WriteString(styles.DimStyle.Render("no songs yet, press r to refresh"))
		}
		return b.String()
	}

	snap := m.Store.Snapshot()
	rows := m.listHeight()
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := start + rows
	if end > len(visible) {
		end = len(visible)
	}

	for i := start; i < end; i++ {
		song := visible[i]
		artist, _ := snap.Users.Get(song.UserID)
		likeCount := len(snap.Likes.IDsByIndex(store.IndexBySong, song.ID))

		row := fmt.Sprintf("%s %s %s %s",
			styles.RenderLike(m.likedByMe(song.ID)),
			styles.Truncate(song.Title, 40),
			styles.DimStyle.Render("by "+artist.Username),
			styles.DimStyle.Render(fmt.Sprintf("%s · %d likes", song.CreatedAt, likeCount)),
		)
		if i == m.cursor {
			b.WriteString(styles.SelectedItemStyle.Render(row))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(row))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewSong() string {
	song, ok := m.currentSong()
	if !ok {
		return styles.DimStyle.Render("song no longer available")
	}

	snap := m.Store.Snapshot()
	artist, _ := snap.Users.Get(song.UserID)
	likes := m.songLikes()
	comments := m.songComments()

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(song.Title))
	b.WriteString("  ")
	b.WriteString(styles.SubtitleStyle.Render("by " + artist.Username))
	b.WriteString("\n")
	meta := song.CreatedAt
	if song.Genre != "" {
		meta = song.Genre + " · " + meta
	}
	b.WriteString(styles.DimStyle.Render(meta))
	b.WriteString("\n\n")

	if song.Description != "" {
		b.WriteString(styles.SubtitleStyle.Render(song.Description))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("%s %d likes\n\n", styles.RenderLike(m.likedByMe(song.ID)), len(likes)))

	b.WriteString(styles.AccentStyle.Render(fmt.Sprintf("comments (%d)", len(comments))))
	b.WriteString("\n")
	if len(comments) == 0 {
		b.WriteString(styles.DimStyle.Render("  no comments yet"))
		b.WriteString("\n")
	}
	for i, comment := range comments {
		author, _ := snap.Users.Get(comment.UserID)
		name := author.Username
		if name == "" {
			name = fmt.Sprintf("user %d", comment.UserID)
		}
		age := domain.RelativeAge(comment.CreatedAt, time.Now())
		row := fmt.Sprintf("%s: %s %s", name, comment.Body, styles.DimStyle.Render(age))
		if i == m.commentCursor && !m.commenting {
			b.WriteString(styles.SelectedItemStyle.Render(row))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if m.commenting {
		b.WriteString("\n")
		b.WriteString(m.commentInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.viewFormErrors())
	return b.String()
}

func (m Model) viewProfile() string {
	snap := m.Store.Snapshot()
	user, ok := snap.Users.Get(m.profileID)
	if !ok {
		return styles.DimStyle.Render("artist no longer available")
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(user.Username))
	b.WriteString("\n")
	if user.Location != "" {
		b.WriteString(styles.DimStyle.Render(user.Location))
		b.WriteString("\n")
	}
	if user.Bio != "" {
		b.WriteString(styles.SubtitleStyle.Render(user.Bio))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	tabs := []string{"songs", "likes"}
	for i, tab := range tabs {
		if i == m.profileTab {
			b.WriteString(styles.AccentStyle.Bold(true).Render("[" + tab + "]"))
		} else {
			b.WriteString(styles.DimStyle.Render(" " + tab + " "))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	songs := m.profileSongs()
	if len(songs) == 0 {
		b.WriteString(styles.DimStyle.Render("nothing here yet"))
		return b.String()
	}
	for i, song := range songs {
		likeCount := len(snap.Likes.IDsByIndex(store.IndexBySong, song.ID))
		row := fmt.Sprintf("%s %s %s",
			styles.RenderLike(m.likedByMe(song.ID)),
			styles.Truncate(song.Title, 40),
			styles.DimStyle.Render(fmt.Sprintf("%d likes", likeCount)),
		)
		if i == m.profileCursor {
			b.WriteString(styles.SelectedItemStyle.Render(row))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(row))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("search"))
	b.WriteString("\n\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	tabs := []string{"songs", "artists"}
	for i, tab := range tabs {
		if i == m.searchTab {
			b.WriteString(styles.AccentStyle.Bold(true).Render("[" + tab + "]"))
		} else {
			b.WriteString(styles.DimStyle.Render(" " + tab + " "))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	if m.searchInput.Value() == "" {
		b.WriteString(styles.DimStyle.Render("type to search the loaded catalog"))
		return b.String()
	}
	if m.searchRowCount() == 0 {
		b.WriteString(styles.DimStyle.Render("no matches"))
		return b.String()
	}

	if m.searchTab == searchTabArtists {
		for i, artist := range m.searchArtists {
			row := artist.Username
			if artist.Location != "" {
				row += " " + styles.DimStyle.Render(artist.Location)
			}
			if i == m.searchCursor {
				b.WriteString(styles.SelectedItemStyle.Render(row))
			} else {
				b.WriteString(styles.NormalItemStyle.Render(row))
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	for i, result := range m.searchResults {
		row := fmt.Sprintf("%s %s",
			styles.Truncate(result.Song.Title, 40),
			styles.DimStyle.Render("by "+result.Artist.Username),
		)
		if result.Song.Genre != "" {
			row += " " + styles.DimStyle.Render(result.Song.Genre)
		}
		if i == m.searchCursor {
			b.WriteString(styles.SelectedItemStyle.Render(row))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(row))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("log in"))
	b.WriteString("\n")
	for i := range m.loginInputs {
		b.WriteString(m.loginInputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString(m.viewFormErrors())
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("enter to submit, esc to cancel"))

	return styles.ModalStyle.Render(b.String())
}

func (m Model) viewSongForm() string {
	var b strings.Builder
	if m.editingID != 0 {
		b.WriteString(styles.ModalTitleStyle.Render("edit song"))
	} else {
		b.WriteString(styles.ModalTitleStyle.Render("upload song"))
	}
	b.WriteString("\n")

	labels := [fieldCount]string{"file", "title", "genre", "description"}
	for i := range m.formInputs {
		if m.editingID != 0 && i == fieldFile {
			continue
		}
		b.WriteString(styles.DimStyle.Render(styles.Pad(labels[i], 12)))
		b.WriteString(m.formInputs[i].View())
		b.WriteString("\n")
	}

	if m.uploading {
		b.WriteString("\n")
		b.WriteString(styles.SpinnerStyle.Render(spinnerFrames[m.SpinnerFrame%len(spinnerFrames)]))
		b.WriteString(styles.SubtitleStyle.Render(" uploading..."))
		b.WriteString("\n")
	}

	b.WriteString(m.viewFormErrors())
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("tab to move, enter on the last field to submit, esc to cancel"))

	return styles.ModalStyle.Render(b.String())
}

func (m Model) viewConfirm() string {
	var what string
	switch m.confirmTarget {
	case confirmSong:
		what = "delete this song?"
	case confirmComment:
		what = "delete this comment?"
	}
	body := styles.ModalTitleStyle.Render(what) + "\n" +
		styles.HelpKeyStyle.Render("y") + styles.HelpDescStyle.Render(" yes   ") +
		styles.HelpKeyStyle.Render("n") + styles.HelpDescStyle.Render(" no")
	return styles.ModalStyle.Render(body)
}

func (m Model) viewHelp() string {
	bindings := []struct{ key, desc string }{
		{"j/k", "move"},
		{"enter", "open song"},
		{"h", "back"},
		{"/", "filter feed"},
		{"s", "search catalog"},
		{"space", "like / unlike"},
		{"c", "comment"},
		{"p", "artist profile"},
		{"n", "upload song"},
		{"e", "edit song"},
		{"x", "delete"},
		{"r", "refresh"},
		{"L", "log in"},
		{"O", "log out"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("keys"))
	b.WriteString("\n")
	for _, bind := range bindings {
		b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(bind.key, 8)))
		b.WriteString(styles.HelpDescStyle.Render(bind.desc))
		b.WriteString("\n")
	}
	return styles.ModalStyle.Render(b.String())
}

func (m Model) viewStatusBar() string {
	left := m.StatusMsg
	style := styles.DimStyle
	if m.StatusIsErr {
		style = styles.ErrorStyle
	}

	right := "not logged in · L to log in"
	if userID, ok := m.Session.CurrentUserID(); ok {
		if user, found := m.Store.Snapshot().Users.Get(userID); found {
			right = user.Username
		} else {
			right = fmt.Sprintf("user %d", userID)
		}
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + style.Render(left) + strings.Repeat(" ", gap) + styles.DimStyle.Render(right)
}

// viewFormErrors renders the server's validation messages under a form
func (m Model) viewFormErrors() string {
	if len(m.formErrors) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, msg := range m.formErrors {
		b.WriteString(styles.ErrorStyle.Render("• " + msg))
		b.WriteString("\n")
	}
	return b.String()
}

// listHeight is the number of feed rows that fit on screen
func (m Model) listHeight() int {
	h := m.Height - 6
	if h < 3 {
		h = 3
	}
	return h
}
