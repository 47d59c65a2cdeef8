package reconcile

import (
	"errors"
	"fmt"
)

// Sentinel errors for batch failures. Use errors.Is against a returned error.
var (
	// ErrInvalidBatch indicates the batch container was missing or malformed.
	ErrInvalidBatch = errors.New("invalid batch")

	// ErrStorageUnavailable indicates the store could not be reached before any write.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrPersistence indicates a write or commit failed and the batch was rolled back.
	ErrPersistence = errors.New("persistence failure")

	// ErrDuplicateKey indicates the store rejected an insert on the case number
	// uniqueness constraint, typically because a concurrent batch committed it first.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrCancelled indicates the batch context was cancelled or timed out.
	ErrCancelled = errors.New("operation cancelled")
)

// Kind classifies a BatchError.
type Kind string

const (
	// KindInvalidBatch marks a missing or malformed batch container.
	KindInvalidBatch Kind = "invalid_batch"
	// KindStorageUnavailable marks a store that could not be reached before any write.
	KindStorageUnavailable Kind = "storage_unavailable"
	// KindPersistence marks a failed write or commit.
	KindPersistence Kind = "persistence_failure"
	// KindDuplicateKey marks an insert rejected by the case number uniqueness constraint.
	KindDuplicateKey Kind = "duplicate_key"
	// KindCancelled marks a batch whose context was cancelled or timed out.
	KindCancelled Kind = "operation_cancelled"
)

// BatchError is returned for every failed batch. No write of a failed batch is committed.
type BatchError struct {
	Kind Kind
	// Position is the index of the record being processed, or -1 for batch-level failures.
	Position int
	// CaseNumber is the key of the record being processed, if any.
	CaseNumber string
	Err        error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	msg := string(e.Kind)
	if e.CaseNumber != "" {
		msg = fmt.Sprintf("%s at record %d (case %s)", msg, e.Position, e.CaseNumber)
	} else if e.Position >= 0 {
		msg = fmt.Sprintf("%s at record %d", msg, e.Position)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *BatchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. Duplicate-key and cancellation failures
// are also persistence failures: the batch was rejected as a whole.
func (e *BatchError) Is(target error) bool {
	switch target {
	case ErrInvalidBatch:
		return e.Kind == KindInvalidBatch
	case ErrStorageUnavailable:
		return e.Kind == KindStorageUnavailable
	case ErrPersistence:
		return e.Kind == KindPersistence || e.Kind == KindDuplicateKey || e.Kind == KindCancelled
	case ErrDuplicateKey:
		return e.Kind == KindDuplicateKey
	case ErrCancelled:
		return e.Kind == KindCancelled
	}
	return false
}

// NewInvalidBatchError reports a malformed or missing batch container.
func NewInvalidBatchError(reason string) *BatchError {
	return &BatchError{Kind: KindInvalidBatch, Position: -1, Err: errors.New(reason)}
}

// KindOf returns the Kind of err, or "" if err is not a BatchError.
func KindOf(err error) Kind {
	var be *BatchError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
