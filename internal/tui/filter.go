package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/store"
)

// applyFilter recomputes the fuzzy-filtered view of the feed from the
// current filter query
func (m *Model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	if query == "" {
		m.filteredIdx = nil
		return
	}

	// Match against "title artist" so either surfaces the row
	snap := m.Store.Snapshot()
	haystack := make([]string, len(m.feed))
	for i, song := range m.feed {
		artist, _ := snap.Users.Get(song.UserID)
		haystack[i] = strings.ToLower(song.Title + " " + artist.Username)
	}

	matches := fuzzy.Find(query, haystack)
	m.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		m.filteredIdx[i] = match.Index
	}
	m.cursor = 0
}

// visibleFeed returns the feed rows the filter currently admits
func (m Model) visibleFeed() []domain.Song {
	if m.filteredIdx == nil {
		return m.feed
	}
	visible := make([]domain.Song, len(m.filteredIdx))
	for i, idx := range m.filteredIdx {
		visible[i] = m.feed[idx]
	}
	return visible
}

// runSearch recomputes both result tabs from the current search query
func (m *Model) runSearch() {
	query := m.searchInput.Value()
	m.searchResults = m.Searcher.Songs(query)
	m.searchArtists = m.Searcher.Artists(query)
	m.searchCursor = 0
}

// searchRowCount is the length of the active search tab's result list
func (m Model) searchRowCount() int {
	if m.searchTab == searchTabArtists {
		return len(m.searchArtists)
	}
	return len(m.searchResults)
}

// songComments returns the open song's comments in server order
func (m Model) songComments() []domain.Comment {
	return m.Store.Snapshot().Comments.ByIndex(store.IndexBySong, m.songID)
}

// songLikes returns the open song's likes
func (m Model) songLikes() []domain.Like {
	return m.Store.Snapshot().Likes.ByIndex(store.IndexBySong, m.songID)
}

// profileSongs returns the list for the active profile tab
func (m Model) profileSongs() []domain.Song {
	if m.profileTab == 1 {
		return m.profileLiked
	}
	return m.Store.Snapshot().Songs.ByIndex(store.IndexByArtist, m.profileID)
}
