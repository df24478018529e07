package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/supercloudfm/supercloud/internal/service"
)

// handleKey dispatches key presses for the current application state
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, regardless of focused inputs
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.State {
	case StateFeed:
		return m.handleFeedKey(msg)
	case StateSong:
		return m.handleSongKey(msg)
	case StateProfile:
		return m.handleProfileKey(msg)
	case StateSearch:
		return m.handleSearchKey(msg)
	case StateLogin:
		return m.handleLoginKey(msg)
	case StateSongForm:
		return m.handleSongFormKey(msg)
	case StateConfirmDelete:
		return m.handleConfirmKey(msg)
	case StateHelp:
		m.State = m.prevState
		return m, nil
	}
	return m, nil
}

func (m Model) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter input owns the keyboard while editing
	if m.filtering {
		switch {
		case key.Matches(msg, Keys.Escape):
			m.filtering = false
			m.filterInput.Blur()
			m.filterInput.SetValue("")
			m.applyFilter()
			return m, nil
		case key.Matches(msg, Keys.Enter):
			m.filtering = false
			m.filterInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		if m.cursor < len(m.visibleFeed())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, Keys.End):
		if n := len(m.visibleFeed()); n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.filtering = true
		m.filterInput.Focus()
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.openSearch()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.Loading = true
		return m, tea.Batch(LoadFeedCmd(m.Songs), TickCmd(100*time.Millisecond))

	case key.Matches(msg, Keys.Enter):
		if song, ok := m.selectedSong(); ok {
			m.Loading = true
			return m, tea.Batch(LoadSongCmd(m.Songs, song.ID), TickCmd(100*time.Millisecond))
		}
		return m, nil

	case key.Matches(msg, Keys.Like):
		if song, ok := m.selectedSong(); ok {
			return m, ToggleLikeCmd(m.Likes, m.likedByMe(song.ID), song.ID)
		}
		return m, nil

	case key.Matches(msg, Keys.Profile):
		if song, ok := m.selectedSong(); ok {
			m.Loading = true
			return m, tea.Batch(LoadProfileCmd(m.Users, m.Songs, song.UserID), TickCmd(100*time.Millisecond))
		}
		return m, nil

	case key.Matches(msg, Keys.NewSong):
		if _, ok := m.Session.CurrentUserID(); !ok {
			m.prevState = m.State
			m.State = StateLogin
			m.focusLogin(0)
			return m, m.setStatus("log in to upload songs", true)
		}
		m.openSongForm(nil)
		return m, nil

	case key.Matches(msg, Keys.Delete):
		if song, ok := m.selectedSong(); ok && m.ownedByMe(song.UserID) {
			m.prevState = m.State
			m.State = StateConfirmDelete
			m.confirmTarget = confirmSong
			m.confirmID = song.ID
		}
		return m, nil

	case key.Matches(msg, Keys.Login):
		if _, ok := m.Session.CurrentUserID(); !ok {
			m.prevState = m.State
			m.State = StateLogin
			m.focusLogin(0)
		}
		return m, nil

	case key.Matches(msg, Keys.Logout):
		if _, ok := m.Session.CurrentUserID(); ok {
			return m, LogoutCmd(m.Session)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSongKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Comment input owns the keyboard while composing
	if m.commenting {
		switch {
		case key.Matches(msg, Keys.Escape):
			m.commenting = false
			m.commentInput.Blur()
			m.commentInput.SetValue("")
			m.formErrors = nil
			return m, nil
		case key.Matches(msg, Keys.Enter):
			return m, PostCommentCmd(m.Comments, m.songID, m.commentInput.Value())
		}
		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(msg)
		return m, cmd
	}

	comments := m.songComments()

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.State = StateFeed
		m.formErrors = nil
		m.refreshFeed()
		return m, nil

	case key.Matches(msg, Keys.Up):
		if m.commentCursor > 0 {
			m.commentCursor--
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		if m.commentCursor < len(comments)-1 {
			m.commentCursor++
		}
		return m, nil

	case key.Matches(msg, Keys.Like):
		return m, ToggleLikeCmd(m.Likes, m.likedByMe(m.songID), m.songID)

	case key.Matches(msg, Keys.Comment):
		if _, ok := m.Session.CurrentUserID(); !ok {
			m.prevState = m.State
			m.State = StateLogin
			m.focusLogin(0)
			return m, m.setStatus("log in to comment", true)
		}
		m.commenting = true
		m.commentInput.Focus()
		return m, nil

	case key.Matches(msg, Keys.Profile):
		if song, ok := m.currentSong(); ok {
			m.Loading = true
			return m, tea.Batch(LoadProfileCmd(m.Users, m.Songs, song.UserID), TickCmd(100*time.Millisecond))
		}
		return m, nil

	case key.Matches(msg, Keys.EditSong):
		if song, ok := m.currentSong(); ok && m.ownedByMe(song.UserID) {
			m.openSongForm(&song)
		}
		return m, nil

	case key.Matches(msg, Keys.Delete):
		if m.commentCursor < len(comments) {
			comment := comments[m.commentCursor]
			if m.ownedByMe(comment.UserID) {
				m.prevState = m.State
				m.State = StateConfirmDelete
				m.confirmTarget = confirmComment
				m.confirmID = comment.ID
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	songs := m.profileSongs()

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.State = StateFeed
		m.refreshFeed()
		return m, nil

	case key.Matches(msg, Keys.Tab):
		m.profileTab = 1 - m.profileTab
		m.profileCursor = 0
		return m, nil

	case key.Matches(msg, Keys.Up):
		if m.profileCursor > 0 {
			m.profileCursor--
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		if m.profileCursor < len(songs)-1 {
			m.profileCursor++
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if m.profileCursor < len(songs) {
			m.Loading = true
			return m, tea.Batch(LoadSongCmd(m.Songs, songs[m.profileCursor].ID), TickCmd(100*time.Millisecond))
		}
		return m, nil

	case key.Matches(msg, Keys.Like):
		if m.profileCursor < len(songs) {
			id := songs[m.profileCursor].ID
			return m, ToggleLikeCmd(m.Likes, m.likedByMe(id), id)
		}
		return m, nil
	}

	return m, nil
}

// handleSearchKey keeps the query input focused the whole time; navigation
// keys steer the result list, everything else edits the query
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		m.closeSearch()
		return m, nil

	case key.Matches(msg, Keys.Tab):
		m.searchTab = 1 - m.searchTab
		m.searchCursor = 0
		return m, nil

	// Only the arrow keys steer the list; "k" and "j" stay typeable
	case msg.String() == "up":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case msg.String() == "down":
		if m.searchCursor < m.searchRowCount()-1 {
			m.searchCursor++
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if m.searchTab == searchTabArtists {
			if m.searchCursor < len(m.searchArtists) {
				artist := m.searchArtists[m.searchCursor]
				m.Loading = true
				return m, tea.Batch(LoadProfileCmd(m.Users, m.Songs, artist.ID), TickCmd(100*time.Millisecond))
			}
			return m, nil
		}
		if m.searchCursor < len(m.searchResults) {
			m.Loading = true
			return m, tea.Batch(LoadSongCmd(m.Songs, m.searchResults[m.searchCursor].Song.ID), TickCmd(100*time.Millisecond))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.runSearch()
	return m, cmd
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		m.State = m.prevState
		m.formErrors = nil
		m.resetLoginForm()
		return m, nil

	case key.Matches(msg, Keys.Tab), key.Matches(msg, Keys.Down):
		m.focusLogin((m.loginFocus + 1) % len(m.loginInputs))
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.focusLogin((m.loginFocus + len(m.loginInputs) - 1) % len(m.loginInputs))
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if m.loginFocus < len(m.loginInputs)-1 {
			m.focusLogin(m.loginFocus + 1)
			return m, nil
		}
		m.Loading = true
		return m, tea.Batch(
			LoginCmd(m.Session, m.loginInputs[0].Value(), m.loginInputs[1].Value()),
			TickCmd(100*time.Millisecond),
		)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m Model) handleSongFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.uploading {
		// Submission already in flight
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Escape):
		if m.editingID != 0 {
			m.State = StateSong
		} else {
			m.State = StateFeed
		}
		m.formErrors = nil
		m.resetSongForm()
		return m, nil

	case key.Matches(msg, Keys.Tab), key.Matches(msg, Keys.Down):
		m.focusForm(m.nextFormField(1))
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.focusForm(m.nextFormField(-1))
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if m.formFocus < fieldDescription {
			m.focusForm(m.nextFormField(1))
			return m, nil
		}
		return m.submitSongForm()
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// nextFormField steps the form focus, skipping the file field when editing
// since the audio file cannot be replaced
func (m Model) nextFormField(dir int) int {
	next := (m.formFocus + dir + fieldCount) % fieldCount
	if m.editingID != 0 && next == fieldFile {
		next = (next + dir + fieldCount) % fieldCount
	}
	return next
}

func (m Model) submitSongForm() (tea.Model, tea.Cmd) {
	if m.editingID != 0 {
		draft := m.draftFromForm()
		if song, ok := m.Store.Snapshot().Songs.Get(m.editingID); ok {
			draft.SongURL = song.SongURL
			draft.ArtworkURL = song.ArtworkURL
		}
		m.Loading = true
		return m, tea.Batch(EditSongCmd(m.Songs, m.editingID, draft), TickCmd(100*time.Millisecond))
	}

	path := m.formInputs[fieldFile].Value()
	if path == "" {
		m.formErrors = []string{"please upload a song first"}
		return m, nil
	}
	// Check the text fields before paying for the upload
	if msgs := service.ValidateSongEdit(m.draftFromForm()); len(msgs) > 0 {
		m.formErrors = msgs
		return m, nil
	}
	m.uploading = true
	m.formErrors = nil
	return m, tea.Batch(UploadFileCmd(m.Songs, path), TickCmd(100*time.Millisecond))
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		m.State = m.prevState
		switch m.confirmTarget {
		case confirmSong:
			m.Loading = true
			return m, tea.Batch(DeleteSongCmd(m.Songs, m.confirmID), TickCmd(100*time.Millisecond))
		case confirmComment:
			return m, DeleteCommentCmd(m.Comments, m.confirmID)
		}
		return m, nil

	case key.Matches(msg, Keys.Deny):
		m.State = m.prevState
		return m, nil
	}
	return m, nil
}
