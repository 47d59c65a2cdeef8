// Package reconcile implements batch reconciliation of scraped legislative proposals
// against a persistent store.
//
// A batch is applied as one unit of work: the Reconciler opens a transaction, snapshots
// the set of persisted case numbers into an Index, then walks the records in input order.
//
//   - A record without a case number is skipped.
//   - An unknown case number is inserted and added to the Index, so a repeat of the same
//     key later in the batch is treated as existing.
//   - A known case number gets a conditional status update that only writes when the new
//     status is distinct from the stored one, comparing NULL-safely.
//
// Any failure rolls the whole batch back. Failures are reported as *BatchError values that
// match the sentinel errors ErrInvalidBatch, ErrStorageUnavailable, ErrPersistence,
// ErrDuplicateKey and ErrCancelled via errors.Is.
//
// # Storage
//
// The Reconciler depends only on the Store and Tx interfaces. The relational
// implementation lives in feature/proposals/reconcile; tests substitute an in-memory store
// or the testify mocks in core/reconcile/mocks.
//
// # Usage
//
//	r := reconcile.New(store, logger)
//	result, err := r.Apply(ctx, records, reconcile.Options{})
//	if errors.Is(err, reconcile.ErrDuplicateKey) {
//	    // a concurrent batch inserted the same case number first
//	}
package reconcile
