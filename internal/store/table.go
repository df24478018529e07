package store

import (
	"sort"

	"github.com/supercloudfm/supercloud/internal/domain"
)

// IndexSpec names a secondary index and extracts the foreign key an entity
// files under. Foreign keys are immutable in this domain, but insert still
// clears stale memberships so an overwrite with a changed key cannot leave
// a dangling bucket entry.
type IndexSpec[T domain.Entity] struct {
	Name string
	Key  func(T) domain.ID
}

// Table is the canonical byID mapping for one entity kind plus its secondary
// indices. Tables are immutable values: Apply returns a new Table and never
// modifies the receiver's maps, so a Snapshot holding a Table stays coherent
// while later mutations are applied.
type Table[T domain.Entity] struct {
	specs   []IndexSpec[T]
	byID    map[domain.ID]T
	buckets []map[domain.ID][]domain.ID // parallel to specs: fk -> ordered ids
}

// NewTable creates an empty table with the given secondary indices.
func NewTable[T domain.Entity](specs ...IndexSpec[T]) Table[T] {
	t := Table[T]{
		specs:   specs,
		byID:    map[domain.ID]T{},
		buckets: make([]map[domain.ID][]domain.ID, len(specs)),
	}
	for i := range t.buckets {
		t.buckets[i] = map[domain.ID][]domain.ID{}
	}
	return t
}

// Apply transitions the table through one mutation. Unknown variants cannot
// occur: Mutation is sealed in this package.
func (t Table[T]) Apply(m Mutation[T]) Table[T] {
	switch m := m.(type) {
	case Insert[T]:
		return t.insert(m.Entity)
	case Remove[T]:
		return t.remove(m.ID)
	case BulkLoad[T]:
		if m.Scope == nil {
			return t.replaceAll(m.Entities)
		}
		return t.mergeScoped(*m.Scope, m.Entities)
	}
	return t
}

// Get returns the entity for id, if present.
func (t Table[T]) Get(id domain.ID) (T, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Has reports whether id is present in the canonical table.
func (t Table[T]) Has(id domain.ID) bool {
	_, ok := t.byID[id]
	return ok
}

// Len returns the number of entities in the canonical table.
func (t Table[T]) Len() int { return len(t.byID) }

// All returns every entity, ordered by id for deterministic iteration.
func (t Table[T]) All() []T {
	ids := make([]domain.ID, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, len(ids))
	for i, id := range ids {
		out[i] = t.byID[id]
	}
	return out
}

// IDsByIndex returns the ordered id bucket for a foreign key. The result is
// empty (never nil-panics) when the bucket does not exist and must not be
// mutated by callers.
func (t Table[T]) IDsByIndex(name string, key domain.ID) []domain.ID {
	i := t.indexOf(name)
	if i < 0 {
		return nil
	}
	return t.buckets[i][key]
}

// ByIndex returns the entities in a foreign-key bucket, in bucket order.
func (t Table[T]) ByIndex(name string, key domain.ID) []T {
	ids := t.IDsByIndex(name, key)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if e, ok := t.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (t Table[T]) indexOf(name string) int {
	for i, spec := range t.specs {
		if spec.Name == name {
			return i
		}
	}
	return -1
}

// insert adds or overwrites one entity and files its id under every index
// bucket matching its foreign keys. Inserting an identical entity twice is
// a no-op for the indices: the id keeps its bucket position.
func (t Table[T]) insert(e T) Table[T] {
	id := e.EntityID()
	prev, existed := t.byID[id]

	next := t
	next.byID = cloneMap(t.byID)
	next.byID[id] = e
	next.buckets = append([]map[domain.ID][]domain.ID(nil), t.buckets...)

	for i, spec := range t.specs {
		key := spec.Key(e)
		bucket := next.buckets[i]

		if existed {
			if oldKey := spec.Key(prev); oldKey != key {
				bucket = cloneBuckets(bucket)
				removeFromBucket(bucket, oldKey, id)
				next.buckets[i] = bucket
			} else {
				// Same key: id is already filed here, keep its position.
				continue
			}
		}
		bucket = cloneBuckets(bucket)
		bucket[key] = append(append([]domain.ID(nil), bucket[key]...), id)
		next.buckets[i] = bucket
	}
	return next
}

// remove deletes one entity and its index memberships. Absent ids are a
// silent no-op: the pipeline only requests removal for observed ids, and a
// duplicate delete response must not corrupt the table.
func (t Table[T]) remove(id domain.ID) Table[T] {
	e, ok := t.byID[id]
	if !ok {
		return t
	}

	next := t
	next.byID = cloneMap(t.byID)
	delete(next.byID, id)
	next.buckets = make([]map[domain.ID][]domain.ID, len(t.buckets))

	for i, spec := range t.specs {
		bucket := cloneBuckets(t.buckets[i])
		removeFromBucket(bucket, spec.Key(e), id)
		next.buckets[i] = bucket
	}
	return next
}

// replaceAll rebuilds the canonical table and every index from scratch in
// input order. Used when a listing endpoint returns the authoritative
// unscoped set.
func (t Table[T]) replaceAll(entities []T) Table[T] {
	next := NewTable(t.specs...)
	for _, e := range entities {
		id := e.EntityID()
		if _, dup := next.byID[id]; dup {
			// Duplicate id in one payload: last write wins, first position
			// in each bucket is kept.
			next.byID[id] = e
			continue
		}
		next.byID[id] = e
		for i, spec := range t.specs {
			key := spec.Key(e)
			next.buckets[i][key] = append(next.buckets[i][key], id)
		}
	}
	return next
}

// mergeScoped applies a bulk load that is authoritative only for one index
// bucket: entities formerly in that bucket but missing from the input are
// dropped entirely, the bucket is rebuilt to exactly the input's order, and
// every other bucket is left alone apart from upserts.
func (t Table[T]) mergeScoped(scope Scope, entities []T) Table[T] {
	i := t.indexOf(scope.Index)
	if i < 0 {
		return t
	}

	inInput := make(map[domain.ID]bool, len(entities))
	for _, e := range entities {
		inInput[e.EntityID()] = true
	}

	next := t
	for _, id := range t.buckets[i][scope.Key] {
		if !inInput[id] {
			next = next.remove(id)
		}
	}
	for _, e := range entities {
		next = next.insert(e)
	}

	// Rebuild the scope bucket in input order; insert keeps prior positions
	// for ids that were already filed.
	order := make([]domain.ID, 0, len(entities))
	seen := make(map[domain.ID]bool, len(entities))
	for _, e := range entities {
		id := e.EntityID()
		if t.specs[i].Key(e) != scope.Key || seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	bucket := cloneBuckets(next.buckets[i])
	if len(order) == 0 {
		delete(bucket, scope.Key)
	} else {
		bucket[scope.Key] = order
	}
	next.buckets = append([]map[domain.ID][]domain.ID(nil), next.buckets...)
	next.buckets[i] = bucket
	return next
}

func cloneMap[T any](m map[domain.ID]T) map[domain.ID]T {
	out := make(map[domain.ID]T, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneBuckets(b map[domain.ID][]domain.ID) map[domain.ID][]domain.ID {
	out := make(map[domain.ID][]domain.ID, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

func removeFromBucket(b map[domain.ID][]domain.ID, key, id domain.ID) {
	ids := b[key]
	out := make([]domain.ID, 0, len(ids))
	for _, cur := range ids {
		if cur != id {
			out = append(out, cur)
		}
	}
	if len(out) == 0 {
		delete(b, key)
	} else {
		b[key] = out
	}
}
