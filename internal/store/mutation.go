package store

import "github.com/supercloudfm/supercloud/internal/domain"

// Mutation is the closed set of store transitions for one entity kind.
// The unexported marker method keeps the set sealed to this package, so
// Table.Apply can match variants exhaustively.
type Mutation[T domain.Entity] interface {
	mutation()
}

// Insert adds or overwrites a single entity, maintaining every secondary
// index in the same step. Issued for server-confirmed creates and edits.
type Insert[T domain.Entity] struct {
	Entity T
}

// Remove deletes a single entity by id. Issued only for server-confirmed
// deletes; a not-found response never implies removal.
type Remove[T domain.Entity] struct {
	ID domain.ID
}

// BulkLoad commits a listing response. With a nil Scope the input is the
// authoritative unscoped set and replaces the whole table. With a Scope it
// is authoritative for exactly one index bucket and merges by key
// everywhere else.
type BulkLoad[T domain.Entity] struct {
	Entities []T
	Scope    *Scope
}

// Scope identifies the index bucket a scoped bulk load is authoritative
// for, e.g. {Index: IndexBySong, Key: songID} for "all likes on song".
type Scope struct {
	Index string
	Key   domain.ID
}

func (Insert[T]) mutation()   {}
func (Remove[T]) mutation()   {}
func (BulkLoad[T]) mutation() {}
