// Package memtable provides a concurrency-safe in-memory table with
// auto-assigned identities. It backs the in-memory repository
// implementations.
package memtable

import "sync"

// Table stores rows of type T keyed by an auto-incremented int64 id.
//
// Rows are value types; every read returns a copy, so callers can never
// observe another caller's in-place mutation.
type Table[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]T
}

// New returns an empty table. The first assigned id is 1.
func New[T any]() *Table[T] {
	return &Table[T]{
		rows: make(map[int64]T),
	}
}

// Insert stores the row built by build for the next free id and returns it.
func (t *Table[T]) Insert(build func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.insert(build)
}

// InsertIf atomically checks every existing row against conflict and, when
// none matches, inserts the row built by build. It reports whether the
// insert happened.
func (t *Table[T]) InsertIf(conflict func(T) bool, build func(id int64) T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range t.rows {
		if conflict(row) {
			var zero T
			return zero, false
		}
	}

	return t.insert(build), true
}

func (t *Table[T]) insert(build func(id int64) T) T {
	t.nextID++
	row := build(t.nextID)
	t.rows[t.nextID] = row

	return row
}

// Get returns the row with the given id.
func (t *Table[T]) Get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]

	return row, ok
}

// Update replaces the row with the given id and reports whether it existed.
func (t *Table[T]) Update(id int64, row T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}

	t.rows[id] = row

	return true
}

// All returns a copy of every row matching pred.
func (t *Table[T]) All(pred func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	items := []T{}

	for _, row := range t.rows {
		if pred(row) {
			items = append(items, row)
		}
	}

	return items
}
