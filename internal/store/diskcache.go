package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// Bucket names, one per entity kind.
var (
	bucketUsers    = []byte("users")
	bucketSongs    = []byte("songs")
	bucketLikes    = []byte("likes")
	bucketComments = []byte("comments")
)

const snapshotKey = "all"

// DiskCache persists the last committed snapshot so the feed renders from
// warm data before the first network round trip completes. It is never read
// on the mutation path; a stale cache is simply replaced by the first
// authoritative bulk load.
type DiskCache struct {
	db *bolt.DB
}

// OpenDiskCache opens (or creates) the cache database under baseCacheDir,
// namespaced by server URL so switching servers never mixes entities.
// An empty baseCacheDir yields a no-op cache (memory-only mode).
func OpenDiskCache(baseCacheDir, serverURL string) (*DiskCache, error) {
	if baseCacheDir == "" {
		return &DiskCache{}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "supercloud.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketUsers, bucketSongs, bucketLikes, bucketComments} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DiskCache{db: db}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Close closes the underlying database.
func (c *DiskCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Save writes every table of the snapshot in one transaction.
func (c *DiskCache) Save(snap *Snapshot) error {
	if c.db == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := putJSON(tx, bucketUsers, snap.Users.All()); err != nil {
			return err
		}
		if err := putJSON(tx, bucketSongs, snap.Songs.All()); err != nil {
			return err
		}
		if err := putJSON(tx, bucketLikes, snap.Likes.All()); err != nil {
			return err
		}
		return putJSON(tx, bucketComments, snap.Comments.All())
	})
}

// Load reads the cached tables back as one replace-all batch. The second
// return is false when the cache is empty or unreadable; a corrupt entry
// just means a cold start.
func (c *DiskCache) Load() (Batch, bool) {
	if c.db == nil {
		return Batch{}, false
	}

	var (
		users    []domain.User
		songs    []domain.Song
		likes    []domain.Like
		comments []domain.Comment
		found    bool
	)
	c.db.View(func(tx *bolt.Tx) error {
		found = getJSON(tx, bucketUsers, &users) || found
		found = getJSON(tx, bucketSongs, &songs) || found
		found = getJSON(tx, bucketLikes, &likes) || found
		found = getJSON(tx, bucketComments, &comments) || found
		return nil
	})
	if !found {
		return Batch{}, false
	}

	return Batch{
		Users:    []Mutation[domain.User]{BulkLoad[domain.User]{Entities: users}},
		Songs:    []Mutation[domain.Song]{BulkLoad[domain.Song]{Entities: songs}},
		Likes:    []Mutation[domain.Like]{BulkLoad[domain.Like]{Entities: likes}},
		Comments: []Mutation[domain.Comment]{BulkLoad[domain.Comment]{Entities: comments}},
	}, true
}

// Clear drops every cached table. Used on logout.
func (c *DiskCache) Clear() error {
	if c.db == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketUsers, bucketSongs, bucketLikes, bucketComments} {
			if b := tx.Bucket(bucket); b != nil {
				if err := b.Delete([]byte(snapshotKey)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func putJSON(tx *bolt.Tx, bucket []byte, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(snapshotKey), data)
}

func getJSON(tx *bolt.Tx, bucket []byte, dest interface{}) bool {
	b := tx.Bucket(bucket)
	if b == nil {
		return false
	}
	data := b.Get([]byte(snapshotKey))
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}
