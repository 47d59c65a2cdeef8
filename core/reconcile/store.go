package reconcile

import "context"

// Store opens units of work against the proposal store.
// Each batch owns exactly one Tx for its whole duration.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one batch's transaction.
// Implementations wrap a uniqueness violation on insert with ErrDuplicateKey.
type Tx interface {
	KeyLoader

	// Insert writes a full new row for the record.
	Insert(ctx context.Context, rec Record) error

	// UpdateStatusIfChanged sets the stored status of caseNumber to status only when
	// the two are distinct under null-safe comparison (NULL equals NULL).
	// It reports whether a row was modified.
	UpdateStatusIfChanged(ctx context.Context, caseNumber string, status *string) (bool, error)

	Commit() error
	Rollback() error
}
