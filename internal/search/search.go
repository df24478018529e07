// Package search provides fuzzy matching over the locally cached catalog.
// It reads store snapshots directly, so results reflect whatever the app
// has loaded without any extra network traffic.
package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/supercloudfm/supercloud/internal/domain"
	"github.com/supercloudfm/supercloud/internal/store"
)

// Result pairs a matched song with its artist for display.
type Result struct {
	Song   domain.Song
	Artist domain.User
	Score  int
}

// Service handles fuzzy search across the cached catalog.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// NewService creates a new search service.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// Songs returns cached songs ranked against the query. Titles are matched
// fuzzily; genre and artist name matches are folded into the score so
// "lofi" surfaces the genre even when no title contains it.
func (s *Service) Songs(query string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	snap := s.store.Snapshot()
	songs := snap.Songs.All()
	if len(songs) == 0 {
		return nil
	}

	titles := make([]string, len(songs))
	for i, song := range songs {
		titles[i] = strings.ToLower(song.Title)
	}

	matched := make(map[string]bool)
	for _, match := range fuzzy.RankFindFold(query, titles) {
		matched[match.Target] = true
	}

	results := make([]Result, 0, len(matched))
	for i, song := range songs {
		artist, _ := snap.Users.Get(song.UserID)
		score, ok := matchScore(query, titles[i], song, artist)
		if !ok && !matched[titles[i]] {
			continue
		}
		results = append(results, Result{Song: song, Artist: artist, Score: score})
	}

	// Lower score is better. Ties keep id order for stable output.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	s.logger.Debug("catalog search", "query", query, "results", len(results))
	return results
}

// Artists returns cached users whose name fuzzily matches the query, best
// match first.
func (s *Service) Artists(query string) []domain.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	snap := s.store.Snapshot()
	users := snap.Users.All()

	names := make([]string, len(users))
	byName := make(map[string][]domain.User, len(users))
	for i, user := range users {
		name := strings.ToLower(user.Username)
		names[i] = name
		byName[name] = append(byName[name], user)
	}

	matches := fuzzy.RankFindFold(query, names)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	seen := make(map[domain.ID]bool)
	results := make([]domain.User, 0, len(matches))
	for _, match := range matches {
		for _, user := range byName[match.Target] {
			if seen[user.ID] {
				continue
			}
			seen[user.ID] = true
			results = append(results, user)
		}
	}
	return results
}

// matchScore ranks one song against the query. Lower is better. The second
// return reports whether the song matched on its own merits (genre or
// artist), independent of the title fuzzy pass.
func matchScore(query, title string, song domain.Song, artist domain.User) (int, bool) {
	if title == query {
		return 0, true
	}
	if strings.HasPrefix(title, query) {
		return 10, true
	}
	if strings.Contains(title, query) {
		return 50, true
	}
	if strings.Contains(strings.ToLower(song.Genre), query) {
		return 60, true
	}
	if strings.Contains(strings.ToLower(artist.Username), query) {
		return 70, true
	}
	return 100 + fuzzy.LevenshteinDistance(query, title), false
}
