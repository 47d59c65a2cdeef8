package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"proposal-ingest/core/reconcile"
)

// memStore is an in-memory reconcile.Store with a uniqueness constraint on case number.
// Writes become visible to other transactions only on commit.
type memStore struct {
	mu   sync.Mutex
	rows map[string]reconcile.Record

	// failInsertAt makes the nth Insert of a transaction fail (1-based, 0 disables).
	failInsertAt int
	failBegin    error
	failLoad     error
	failUpdate   error
	failCommit   error
}

func newMemStore(rows ...reconcile.Record) *memStore {
	s := &memStore{rows: make(map[string]reconcile.Record)}
	for _, r := range rows {
		s.rows[r.CaseNumber] = r
	}
	return s
}

func (s *memStore) Begin(ctx context.Context) (reconcile.Tx, error) {
	if s.failBegin != nil {
		return nil, s.failBegin
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]reconcile.Record, len(s.rows))
	for k, v := range s.rows {
		snapshot[k] = v
	}
	return &memTx{store: s, rows: snapshot, inserted: make(map[string]struct{}), updated: make(map[string]struct{})}, nil
}

func (s *memStore) get(caseNumber string) (reconcile.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[caseNumber]
	return r, ok
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// statuses returns the committed status of every row by case number.
func (s *memStore) statuses() map[string]*string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*string, len(s.rows))
	for k, v := range s.rows {
		out[k] = v.Status
	}
	return out
}

type memTx struct {
	store    *memStore
	rows     map[string]reconcile.Record
	inserted map[string]struct{}
	updated  map[string]struct{}
	inserts  int
	done     bool
}

func (t *memTx) LoadExistingKeys(ctx context.Context) (map[string]struct{}, error) {
	if t.store.failLoad != nil {
		return nil, t.store.failLoad
	}
	keys := make(map[string]struct{}, len(t.rows))
	for k := range t.rows {
		keys[k] = struct{}{}
	}
	return keys, nil
}

func (t *memTx) Insert(ctx context.Context, rec reconcile.Record) error {
	t.inserts++
	if t.store.failInsertAt > 0 && t.inserts == t.store.failInsertAt {
		return errors.New("disk full")
	}
	if _, ok := t.rows[rec.CaseNumber]; ok {
		return fmt.Errorf("%w: esas_no %s", reconcile.ErrDuplicateKey, rec.CaseNumber)
	}
	rec.Links = rec.LinksOrEmpty()
	t.rows[rec.CaseNumber] = rec
	t.inserted[rec.CaseNumber] = struct{}{}
	return nil
}

func (t *memTx) UpdateStatusIfChanged(ctx context.Context, caseNumber string, status *string) (bool, error) {
	if t.store.failUpdate != nil {
		return false, t.store.failUpdate
	}
	row, ok := t.rows[caseNumber]
	if !ok || sameStatus(row.Status, status) {
		return false, nil
	}
	row.Status = status
	t.rows[caseNumber] = row
	t.updated[caseNumber] = struct{}{}
	return true, nil
}

func (t *memTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true
	if t.store.failCommit != nil {
		return t.store.failCommit
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for k := range t.inserted {
		if _, ok := t.store.rows[k]; ok {
			return fmt.Errorf("%w: esas_no %s", reconcile.ErrDuplicateKey, k)
		}
	}
	for k := range t.inserted {
		t.store.rows[k] = t.rows[k]
	}
	for k := range t.updated {
		t.store.rows[k] = t.rows[k]
	}
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true
	return nil
}

func sameStatus(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func str(s string) *string {
	return &s
}
