// Package store holds the client's working copy of the server's relational
// data: a canonical table per entity kind plus the secondary indices the UI
// reads instead of re-deriving relationships on every render.
//
// Mutations are committed only for server-confirmed writes (the pipeline in
// internal/service owns that rule) and each commit produces a complete new
// Snapshot. Readers keep whatever snapshot they grabbed; they never observe
// a table with a half-updated index.
package store

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// Secondary index names.
const (
	IndexBySong   = "song"   // likes and comments grouped by the song they target
	IndexByUser   = "user"   // likes and comments grouped by their author
	IndexByArtist = "artist" // songs grouped by the user who owns them
)

// Snapshot is one consistent state of all four entity tables. Snapshots are
// immutable; the zero-cost way to re-render is to diff snapshot pointers.
type Snapshot struct {
	Users    Table[domain.User]
	Songs    Table[domain.Song]
	Likes    Table[domain.Like]
	Comments Table[domain.Comment]
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Users: NewTable[domain.User](),
		Songs: NewTable(
			IndexSpec[domain.Song]{Name: IndexByArtist, Key: func(s domain.Song) domain.ID { return s.UserID }},
		),
		Likes: NewTable(
			IndexSpec[domain.Like]{Name: IndexBySong, Key: func(l domain.Like) domain.ID { return l.SongID }},
			IndexSpec[domain.Like]{Name: IndexByUser, Key: func(l domain.Like) domain.ID { return l.UserID }},
		),
		Comments: NewTable(
			IndexSpec[domain.Comment]{Name: IndexBySong, Key: func(c domain.Comment) domain.ID { return c.SongID }},
			IndexSpec[domain.Comment]{Name: IndexByUser, Key: func(c domain.Comment) domain.ID { return c.UserID }},
		),
	}
}

// Batch groups the mutations of one commit. A pipeline operation that
// receives an eager-loaded graph (a song with its likes and comments, a
// login response) commits the whole graph as one batch so no reader sees
// the song without its relations.
type Batch struct {
	Users    []Mutation[domain.User]
	Songs    []Mutation[domain.Song]
	Likes    []Mutation[domain.Like]
	Comments []Mutation[domain.Comment]
}

// IsEmpty reports whether the batch carries no mutations.
func (b Batch) IsEmpty() bool {
	return len(b.Users) == 0 && len(b.Songs) == 0 && len(b.Likes) == 0 && len(b.Comments) == 0
}

// Store is the single shared mutable resource of the client. Writes are
// serialized by a mutex (the Go stand-in for the original single-threaded
// scheduler); reads go through an atomic snapshot pointer and never block.
type Store struct {
	mu     sync.Mutex
	snap   atomic.Pointer[Snapshot]
	logger *slog.Logger
}

// New creates an empty store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger}
	s.snap.Store(emptySnapshot())
	return s
}

// Snapshot returns the current consistent state. The returned value is
// immutable and safe to read from any goroutine.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Apply commits a batch atomically: all of it becomes visible in one
// snapshot swap, or (for an empty batch) nothing changes.
func (s *Store) Apply(b Batch) {
	if b.IsEmpty() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	next := *cur

	for _, m := range b.Users {
		next.Users = next.Users.Apply(m)
	}
	for _, m := range b.Songs {
		next.Songs = next.Songs.Apply(m)
	}
	for _, m := range b.Likes {
		switch mut := m.(type) {
		case Insert[domain.Like]:
			next.Likes = dedupeLike(next.Likes, mut.Entity)
		case BulkLoad[domain.Like]:
			if mut.Scope != nil {
				// Scoped loads merge into existing buckets, so an incoming like
				// can collide with a pair already held under an older id.
				for _, like := range mut.Entities {
					next.Likes = dedupeLike(next.Likes, like)
				}
			} else {
				// The backend has no unique constraint on (user, song), so a
				// full reload can itself carry duplicate pairs. Last one wins,
				// same as the insert overwrite rule.
				m = BulkLoad[domain.Like]{Entities: uniqueLikes(mut.Entities)}
			}
		}
		next.Likes = next.Likes.Apply(m)
	}
	for _, m := range b.Comments {
		next.Comments = next.Comments.Apply(m)
	}

	s.snap.Store(&next)
	s.logger.Debug("store commit",
		"users", next.Users.Len(),
		"songs", next.Songs.Len(),
		"likes", next.Likes.Len(),
		"comments", next.Comments.Len(),
	)
}

// Reset drops every table, returning the store to its process-start state.
// Used on logout so one account's graph never bleeds into the next session.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Store(emptySnapshot())
	s.logger.Debug("store reset")
}

// dedupeLike enforces like uniqueness at the store boundary: at most one
// Like per (user, song) pair. An insert that collides with an existing pair
// under a different id overwrites it, removing the old entity in the same
// commit. Overwrite (rather than reject) keeps a racing re-like consistent
// with whichever server response resolved last.
func dedupeLike(t Table[domain.Like], like domain.Like) Table[domain.Like] {
	for _, id := range t.IDsByIndex(IndexBySong, like.SongID) {
		if id == like.ID {
			continue
		}
		if existing, ok := t.Get(id); ok && existing.UserID == like.UserID {
			t = t.remove(id)
		}
	}
	return t
}

// uniqueLikes collapses duplicate (user, song) pairs in a bulk-load slice,
// keeping the last entry for each pair in its original position.
func uniqueLikes(likes []domain.Like) []domain.Like {
	type pair struct{ user, song domain.ID }
	last := make(map[pair]domain.ID, len(likes))
	for _, l := range likes {
		last[pair{l.UserID, l.SongID}] = l.ID
	}
	if len(last) == len(likes) {
		return likes
	}

	out := make([]domain.Like, 0, len(last))
	seen := make(map[pair]bool, len(last))
	for _, l := range likes {
		p := pair{l.UserID, l.SongID}
		if seen[p] || last[p] != l.ID {
			continue
		}
		seen[p] = true
		out = append(out, l)
	}
	return out
}

// LikeBySongAndUser returns the like a user has on a song, if any. This is
// the read the like/unlike toggle renders from.
func (s *Snapshot) LikeBySongAndUser(songID, userID domain.ID) (domain.Like, bool) {
	for _, like := range s.Likes.ByIndex(IndexBySong, songID) {
		if like.UserID == userID {
			return like, true
		}
	}
	return domain.Like{}, false
}
