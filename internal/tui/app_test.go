package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/log"
	"github.com/supercloudfm/supercloud/internal/search"
	"github.com/supercloudfm/supercloud/internal/service"
	"github.com/supercloudfm/supercloud/internal/store"
)

func newCatalogModel(t *testing.T) Model {
	t.Helper()

	st := store.New(log.NullLogger())
	st.Apply(store.Batch{
		Users: []store.Mutation[domain.User]{
			store.Insert[domain.User]{Entity: domain.User{ID: 42, Username: "ada"}},
			store.Insert[domain.User]{Entity: domain.User{ID: 43, Username: "benji", Location: "berlin"}},
		},
		Songs: []store.Mutation[domain.Song]{
			store.Insert[domain.Song]{Entity: domain.Song{ID: 3, UserID: 42, Title: "night drive", Genre: "synthwave"}},
			store.Insert[domain.Song]{Entity: domain.Song{ID: 4, UserID: 43, Title: "daylight"}},
		},
	})

	session := service.NewSessionService(nil, st, log.NullLogger())
	return NewModel(st, nil, nil, nil, nil, session, search.NewService(st, log.NullLogger()))
}

func pressKey(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("update returned %T, want Model", next)
	}
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestCatalogSearch(t *testing.T) {
	t.Run("OpensFromFeed", func(t *testing.T) {
		m := newCatalogModel(t)
		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		if m.State != StateSearch {
			t.Fatalf("state = %v, want StateSearch", m.State)
		}
		if m.searchTab != searchTabSongs {
			t.Errorf("search opened on tab %d, want songs", m.searchTab)
		}
	})

	t.Run("QueryRanksCachedSongs", func(t *testing.T) {
		m := newCatalogModel(t)
		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		m = typeText(t, m, "night")

		if len(m.searchResults) == 0 {
			t.Fatal("no results for a title the catalog holds")
		}
		if m.searchResults[0].Song.ID != 3 {
			t.Errorf("top result = song %d, want 3", m.searchResults[0].Song.ID)
		}
		if m.searchResults[0].Artist.Username != "ada" {
			t.Errorf("top result artist = %q, want ada", m.searchResults[0].Artist.Username)
		}
	})

	t.Run("EnterOpensSelectedSong", func(t *testing.T) {
		m := newCatalogModel(t)
		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		m = typeText(t, m, "night")

		m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("enter on a result produced no command")
		}
		if !m.Loading {
			t.Error("opening a result did not set the loading state")
		}
	})

	t.Run("ArrowKeysSteerResults", func(t *testing.T) {
		m := newCatalogModel(t)
		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		// "d" admits both songs: "daylight" by prefix, "night drive" by substring
		m = typeText(t, m, "d")
		if len(m.searchResults) != 2 {
			t.Fatalf("results = %d, want 2", len(m.searchResults))
		}

		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyDown})
		if m.searchCursor != 1 {
			t.Errorf("cursor after down = %d, want 1", m.searchCursor)
		}
		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyUp})
		if m.searchCursor != 0 {
			t.Errorf("cursor after up = %d, want 0", m.searchCursor)
		}
	})

	t.Run("TabSwitchesToArtists", func(t *testing.T) {
		m := newCatalogModel(t)
		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		m = typeText(t, m, "benji")

		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.searchTab != searchTabArtists {
			t.Fatalf("tab did not switch to artists")
		}
		if len(m.searchArtists) == 0 || m.searchArtists[0].ID != 43 {
			t.Fatalf("artist results = %v, want user 43 first", m.searchArtists)
		}

		m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("enter on an artist produced no command")
		}
		if !m.Loading {
			t.Error("opening an artist did not set the loading state")
		}
	})

	t.Run("EscapeReturnsToFeed", func(t *testing.T) {
		m := newCatalogModel(t)
		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		m = typeText(t, m, "night")

		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEscape})
		if m.State != StateFeed {
			t.Fatalf("state after escape = %v, want StateFeed", m.State)
		}
		if m.searchInput.Value() != "" {
			t.Error("query survived closing the search view")
		}
	})
}
