// Package tui is the terminal front end. It renders whatever the store
// currently holds and dispatches every user action through the service
// layer, so the screen never shows state the server has not confirmed.
package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/search"
	"github.com/supercloudfm/supercloud/internal/service"
	"github.com/supercloudfm/supercloud/internal/store"
	"github.com/supercloudfm/supercloud/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateFeed ApplicationState = iota
	StateSong
	StateProfile
	StateSearch
	StateLogin
	StateSongForm
	StateConfirmDelete
	StateHelp
)

// Search result tabs
const (
	searchTabSongs = iota
	searchTabArtists
)

// confirmKind says what a pending delete confirmation targets
type confirmKind int

const (
	confirmSong confirmKind = iota
	confirmComment
)

// Song form field order
const (
	fieldFile = iota
	fieldTitle
	fieldGenre
	fieldDescription
	fieldCount
)

const statusTimeout = 4 * time.Second

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Store    *store.Store
	Songs    *service.SongService
	Likes    *service.LikeService
	Comments *service.CommentService
	Users    *service.UserService
	Session  *service.SessionService
	Searcher *search.Service

	// Dimensions
	Width  int
	Height int

	// Feed
	feed        []domain.Song
	cursor      int
	filterInput textinput.Model
	filtering   bool
	filteredIdx []int

	// Song detail
	songID        domain.ID
	commentInput  textinput.Model
	commenting    bool
	commentCursor int

	// Catalog search
	searchInput   textinput.Model
	searchTab     int // songs or artists
	searchCursor  int
	searchResults []search.Result
	searchArtists []domain.User

	// Artist profile
	profileID     domain.ID
	profileTab    int // 0 = songs, 1 = likes
	profileLiked  []domain.Song
	profileCursor int

	// Login form
	loginInputs [2]textinput.Model
	loginFocus  int

	// Song form
	formInputs [fieldCount]textinput.Model
	formFocus  int
	editingID  domain.ID // 0 = creating
	uploading  bool

	// Validation messages for whichever form is on screen
	formErrors []string

	// Delete confirmation
	confirmTarget confirmKind
	confirmID     domain.ID

	// Where to return from help and login
	prevState ApplicationState

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Loading      bool
	SpinnerFrame int
}

// NewModel creates a new application model
func NewModel(
	st *store.Store,
	songs *service.SongService,
	likes *service.LikeService,
	comments *service.CommentService,
	users *service.UserService,
	session *service.SessionService,
	searcher *search.Service,
) Model {
	filter := textinput.New()
	filter.Placeholder = "filter songs..."
	filter.Prompt = "/ "
	filter.PromptStyle = styles.FilterPromptStyle
	filter.CharLimit = 100

	searchQuery := textinput.New()
	searchQuery.Placeholder = "songs, genres, artists..."
	searchQuery.Prompt = "search: "
	searchQuery.PromptStyle = styles.FilterPromptStyle
	searchQuery.CharLimit = 100

	comment := textinput.New()
	comment.Placeholder = "say something about this track..."
	comment.Prompt = "> "
	comment.CharLimit = 500

	var login [2]textinput.Model
	login[0] = textinput.New()
	login[0].Placeholder = "username or email"
	login[0].CharLimit = 255
	login[1] = textinput.New()
	login[1].Placeholder = "password"
	login[1].EchoMode = textinput.EchoPassword
	login[1].EchoCharacter = '•'
	login[1].CharLimit = 255

	var form [fieldCount]textinput.Model
	placeholders := [fieldCount]string{
		"path to an mp3 or wav file",
		"title",
		"genre (optional)",
		"description (optional)",
	}
	limits := [fieldCount]int{1024, 255, 25, 500}
	for i := range form {
		form[i] = textinput.New()
		form[i].Placeholder = placeholders[i]
		form[i].CharLimit = limits[i]
	}

	return Model{
		State:        StateFeed,
		Loading:      true,
		Store:        st,
		Songs:        songs,
		Likes:        likes,
		Comments:     comments,
		Users:        users,
		Session:      session,
		Searcher:     searcher,
		filterInput:  filter,
		searchInput:  searchQuery,
		commentInput: comment,
		loginInputs:  login,
		formInputs:   form,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		RestoreSessionCmd(m.Session),
		LoadFeedCmd(m.Songs),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.filterInput.Width = msg.Width - 6
		m.commentInput.Width = msg.Width - 6
		m.searchInput.Width = msg.Width - 6
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.SpinnerFrame++
		if m.Loading || m.uploading {
			return m, TickCmd(100 * time.Millisecond)
		}
		return m, nil

	case FeedLoadedMsg:
		m.Loading = false
		m.refreshFeed()
		return m, nil

	case SongLoadedMsg:
		m.Loading = false
		m.songID = msg.ID
		m.commentCursor = 0
		m.State = StateSong
		return m, nil

	case ProfileLoadedMsg:
		m.Loading = false
		m.profileID = msg.UserID
		m.profileLiked = msg.LikedSongs
		m.profileTab = 0
		m.profileCursor = 0
		m.State = StateProfile
		return m, nil

	case SessionRestoredMsg:
		if msg.LoggedIn {
			return m, m.setStatus("welcome back", false)
		}
		return m, nil

	case LoggedInMsg:
		m.Loading = false
		m.formErrors = nil
		m.resetLoginForm()
		m.State = m.prevState
		m.refreshFeed()
		return m, tea.Batch(
			LoadFeedCmd(m.Songs),
			m.setStatus("logged in as "+msg.User.Username, false),
		)

	case LoggedOutMsg:
		m.State = StateFeed
		m.cursor = 0
		m.refreshFeed()
		return m, tea.Batch(
			LoadFeedCmd(m.Songs),
			m.setStatus("logged out", false),
		)

	case LikeToggledMsg:
		m.refreshFeed()
		return m, nil

	case CommentPostedMsg:
		m.commentInput.SetValue("")
		m.commentInput.Blur()
		m.commenting = false
		m.formErrors = nil
		return m, nil

	case CommentDeletedMsg:
		if m.commentCursor > 0 {
			m.commentCursor--
		}
		return m, nil

	case UploadedMsg:
		m.uploading = false
		draft := m.draftFromForm()
		draft.SongURL = msg.URL
		return m, CreateSongCmd(m.Songs, draft)

	case SongSavedMsg:
		m.Loading = false
		m.formErrors = nil
		m.resetSongForm()
		m.refreshFeed()
		if msg.Created {
			m.State = StateFeed
			return m, m.setStatus("published "+msg.Song.Title, false)
		}
		m.State = StateSong
		m.songID = msg.Song.ID
		return m, m.setStatus("saved changes", false)

	case SongDeletedMsg:
		m.State = StateFeed
		m.refreshFeed()
		if m.cursor >= len(m.visibleFeed()) && m.cursor > 0 {
			m.cursor--
		}
		return m, m.setStatus("song deleted", false)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		return m.handleError(msg)
	}

	return m, nil
}

// handleError routes failures: validation messages stick to the form that
// caused them, auth failures bounce to the login screen, everything else
// lands in the status bar.
func (m Model) handleError(msg ErrMsg) (tea.Model, tea.Cmd) {
	m.Loading = false
	m.uploading = false

	var reqErr *domain.RequestError
	switch {
	case errors.Is(msg.Err, domain.ErrNotAuthenticated),
		errors.As(msg.Err, &reqErr) && reqErr.IsAuthorization():
		if m.State != StateLogin {
			m.prevState = m.State
			m.State = StateLogin
			m.focusLogin(0)
		}
		return m, m.setStatus("please log in first", true)

	case errors.As(msg.Err, &reqErr) && reqErr.IsValidation():
		m.formErrors = reqErr.Errors
		return m, nil

	case errors.Is(msg.Err, domain.ErrServerOffline):
		return m, m.setStatus("server unreachable", true)
	}

	return m, m.setStatus(msg.Error(), true)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

// refreshFeed re-reads the catalog from the store, newest first.
func (m *Model) refreshFeed() {
	songs := m.Store.Snapshot().Songs.All()
	for i, j := 0, len(songs)-1; i < j; i, j = i+1, j-1 {
		songs[i], songs[j] = songs[j], songs[i]
	}
	m.feed = songs
	m.applyFilter()
	if m.cursor >= len(m.visibleFeed()) {
		m.cursor = 0
	}
}

// selectedSong returns the song under the feed cursor
func (m Model) selectedSong() (domain.Song, bool) {
	visible := m.visibleFeed()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return domain.Song{}, false
	}
	return visible[m.cursor], true
}

// currentSong returns the song open in the detail view
func (m Model) currentSong() (domain.Song, bool) {
	return m.Store.Snapshot().Songs.Get(m.songID)
}

// likedByMe reports whether the current user has a like on the song
func (m Model) likedByMe(songID domain.ID) bool {
	userID, ok := m.Session.CurrentUserID()
	if !ok {
		return false
	}
	_, liked := m.Store.Snapshot().LikeBySongAndUser(songID, userID)
	return liked
}

// ownedByMe reports whether the current user owns the entity
func (m Model) ownedByMe(ownerID domain.ID) bool {
	userID, ok := m.Session.CurrentUserID()
	return ok && userID == ownerID
}

func (m *Model) resetLoginForm() {
	for i := range m.loginInputs {
		m.loginInputs[i].SetValue("")
		m.loginInputs[i].Blur()
	}
	m.loginFocus = 0
}

func (m *Model) focusLogin(i int) {
	m.loginFocus = i
	for j := range m.loginInputs {
		if j == i {
			m.loginInputs[j].Focus()
		} else {
			m.loginInputs[j].Blur()
		}
	}
}

func (m *Model) resetSongForm() {
	for i := range m.formInputs {
		m.formInputs[i].SetValue("")
		m.formInputs[i].Blur()
	}
	m.formFocus = 0
	m.editingID = 0
	m.uploading = false
}

func (m *Model) focusForm(i int) {
	m.formFocus = i
	for j := range m.formInputs {
		if j == i {
			m.formInputs[j].Focus()
		} else {
			m.formInputs[j].Blur()
		}
	}
}

// openSearch switches to the catalog search view with a fresh query
func (m *Model) openSearch() {
	m.prevState = m.State
	m.searchInput.SetValue("")
	m.searchInput.Focus()
	m.searchTab = searchTabSongs
	m.searchCursor = 0
	m.searchResults = nil
	m.searchArtists = nil
	m.State = StateSearch
}

func (m *Model) closeSearch() {
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.State = m.prevState
	m.refreshFeed()
}

// openSongForm prepares the form for editing an existing song, or for a
// fresh upload when song is nil
func (m *Model) openSongForm(song *domain.Song) {
	m.resetSongForm()
	m.formErrors = nil
	if song != nil {
		m.editingID = song.ID
		m.formInputs[fieldTitle].SetValue(song.Title)
		m.formInputs[fieldGenre].SetValue(song.Genre)
		m.formInputs[fieldDescription].SetValue(song.Description)
		m.focusForm(fieldTitle)
	} else {
		m.focusForm(fieldFile)
	}
	m.State = StateSongForm
}

func (m Model) draftFromForm() domain.SongDraft {
	return domain.SongDraft{
		Title:       m.formInputs[fieldTitle].Value(),
		Genre:       m.formInputs[fieldGenre].Value(),
		Description: m.formInputs[fieldDescription].Value(),
	}
}
