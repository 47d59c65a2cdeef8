package reconcile

import "context"

// KeyLoader loads every case number currently persisted.
type KeyLoader interface {
	LoadExistingKeys(ctx context.Context) (map[string]struct{}, error)
}

// Index is the set of known case numbers for one batch.
// It starts as a snapshot of the store and grows as the batch inserts new keys,
// so a key repeated within the batch is seen as existing on its second occurrence.
type Index struct {
	keys map[string]struct{}
}

// LoadIndex snapshots the persisted case numbers.
// A load failure is reported as a StorageUnavailable BatchError.
func LoadIndex(ctx context.Context, loader KeyLoader) (*Index, error) {
	keys, err := loader.LoadExistingKeys(ctx)
	if err != nil {
		return nil, &BatchError{Kind: KindStorageUnavailable, Position: -1, Err: err}
	}
	if keys == nil {
		keys = make(map[string]struct{})
	}
	return &Index{keys: keys}, nil
}

// NewIndex builds an index from a list of keys.
func NewIndex(keys ...string) *Index {
	idx := &Index{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		idx.keys[k] = struct{}{}
	}
	return idx
}

// Has reports whether key is known.
func (i *Index) Has(key string) bool {
	_, ok := i.keys[key]
	return ok
}

// Add marks key as known.
func (i *Index) Add(key string) {
	i.keys[key] = struct{}{}
}

// Len returns the number of known keys.
func (i *Index) Len() int {
	return len(i.keys)
}
