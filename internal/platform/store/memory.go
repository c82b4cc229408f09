package store

import (
	"sort"
	"sync"
	"time"
)

// Table is an in-memory, hospital-partitioned row set. It backs the mock
// side of the storage gate and the repository contract tests.
type Table[T any] struct {
	mu      sync.RWMutex
	rows    map[string]map[string]T
	created func(T) time.Time
}

// NewTable returns an empty table. created reports the row's creation time
// and defines the newest-first order of List.
func NewTable[T any](created func(T) time.Time) *Table[T] {
	return &Table[T]{rows: make(map[string]map[string]T), created: created}
}

func (t *Table[T]) Insert(hospitalID, id string, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	part, ok := t.rows[hospitalID]
	if !ok {
		part = make(map[string]T)
		t.rows[hospitalID] = part
	}
	part[id] = v
}

func (t *Table[T]) Get(hospitalID, id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[hospitalID][id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}

// Replace overwrites an existing row.
func (t *Table[T]) Replace(hospitalID, id string, v T) error {
	return t.Mutate(hospitalID, id, func(T) (T, error) { return v, nil })
}

// Mutate applies fn to the row under the write lock. The row is left
// untouched when fn fails.
func (t *Table[T]) Mutate(hospitalID, id string, fn func(T) (T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.rows[hospitalID][id]
	if !ok {
		return ErrNotFound
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	t.rows[hospitalID][id] = next
	return nil
}

func (t *Table[T]) Remove(hospitalID, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[hospitalID][id]; !ok {
		return ErrNotFound
	}
	delete(t.rows[hospitalID], id)
	return nil
}

// Select returns the rows matching keep, newest first. A nil keep matches
// every row.
func (t *Table[T]) Select(hospitalID string, keep func(T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows[hospitalID]))
	for _, v := range t.rows[hospitalID] {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	t.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return t.created(out[i]).After(t.created(out[j]))
	})
	return out
}

// Page returns one window of Select plus the total match count.
func (t *Table[T]) Page(hospitalID string, keep func(T) bool, limit, offset int) ([]T, int) {
	all := t.Select(hospitalID, keep)
	start, end := Window(len(all), limit, offset)
	return all[start:end], len(all)
}

// Locked runs fn with exclusive access to the hospital's rows. fn may
// read and insert through the map it is given.
func (t *Table[T]) Locked(hospitalID string, fn func(rows map[string]T) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	part, ok := t.rows[hospitalID]
	if !ok {
		part = make(map[string]T)
		t.rows[hospitalID] = part
	}
	return fn(part)
}
