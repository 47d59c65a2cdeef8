package reconcile

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Reconciler applies ingestion batches to a Store.
// It holds no state between batches; concurrent Apply calls each use their own Tx.
type Reconciler struct {
	store  Store
	logger *zap.Logger
}

// New creates a Reconciler. A nil logger disables logging.
func New(store Store, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{store: store, logger: logger}
}

// WithLogger returns a copy of the Reconciler that logs to l (e.g. a request-scoped logger).
func (r *Reconciler) WithLogger(l *zap.Logger) *Reconciler {
	if l == nil {
		return r
	}
	return &Reconciler{store: r.store, logger: l}
}

// Apply reconciles batch in input order inside a single transaction.
//
// Records without a case number are skipped. Unknown case numbers are inserted and
// counted as new; known ones get a null-safe conditional status update and are counted
// as updated whether or not the row changed. The first failure rolls back every write of
// the batch and is returned as a *BatchError. On success the transaction is committed,
// unless opts.DryRun is set, in which case it is rolled back and the counts are still returned.
func (r *Reconciler) Apply(ctx context.Context, batch []Record, opts Options) (*BatchResult, error) {
	if batch == nil {
		return nil, NewInvalidBatchError("no records supplied")
	}
	if err := ctx.Err(); err != nil {
		return nil, &BatchError{Kind: KindCancelled, Position: -1, Err: err}
	}

	tx, err := r.store.Begin(ctx)
	if err != nil {
		kind := KindStorageUnavailable
		if isCancellation(ctx, err) {
			kind = KindCancelled
		}
		return nil, &BatchError{Kind: kind, Position: -1, Err: err}
	}

	result, err := r.apply(ctx, tx, batch)
	if err != nil {
		r.rollback(tx)
		r.logger.Warn("Batch rolled back", zap.Int("records", len(batch)), zap.Error(err))
		return nil, err
	}

	if opts.DryRun {
		r.rollback(tx)
		result.DryRun = true
		r.logSummary(len(batch), result)
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		r.rollback(tx)
		return nil, &BatchError{Kind: KindCancelled, Position: -1, Err: err}
	}

	// A failed commit leaves the transaction finished with nothing applied.
	if err := tx.Commit(); err != nil {
		return nil, &BatchError{Kind: classify(ctx, err), Position: -1, Err: err}
	}

	r.logSummary(len(batch), result)
	return result, nil
}

func (r *Reconciler) apply(ctx context.Context, tx Tx, batch []Record) (*BatchResult, error) {
	index, err := LoadIndex(ctx, tx)
	if err != nil {
		if isCancellation(ctx, err) {
			return nil, &BatchError{Kind: KindCancelled, Position: -1, Err: err}
		}
		return nil, err
	}

	result := &BatchResult{Outcomes: make([]Outcome, 0, len(batch))}

	for pos, rec := range batch {
		if err := ctx.Err(); err != nil {
			return nil, &BatchError{Kind: KindCancelled, Position: pos, CaseNumber: rec.CaseNumber, Err: err}
		}

		if rec.CaseNumber == "" {
			result.Skipped++
			result.Outcomes = append(result.Outcomes, Outcome{Position: pos, Action: ActionSkipped})
			continue
		}

		if !index.Has(rec.CaseNumber) {
			if err := tx.Insert(ctx, rec); err != nil {
				return nil, &BatchError{Kind: classify(ctx, err), Position: pos, CaseNumber: rec.CaseNumber, Err: err}
			}
			index.Add(rec.CaseNumber)
			result.NewCount++
			result.Outcomes = append(result.Outcomes, Outcome{
				Position:   pos,
				CaseNumber: rec.CaseNumber,
				Action:     ActionNew,
				Changed:    true,
			})
			r.logger.Debug("Inserted proposal", zap.Int("position", pos), zap.String("case_number", rec.CaseNumber))
			continue
		}

		changed, err := tx.UpdateStatusIfChanged(ctx, rec.CaseNumber, rec.Status)
		if err != nil {
			return nil, &BatchError{Kind: classify(ctx, err), Position: pos, CaseNumber: rec.CaseNumber, Err: err}
		}
		result.UpdatedCount++
		if changed {
			result.Changed++
		}
		result.Outcomes = append(result.Outcomes, Outcome{
			Position:   pos,
			CaseNumber: rec.CaseNumber,
			Action:     ActionExisting,
			Changed:    changed,
		})
		r.logger.Debug("Reconciled existing proposal",
			zap.Int("position", pos),
			zap.String("case_number", rec.CaseNumber),
			zap.Bool("changed", changed),
		)
	}

	return result, nil
}

func (r *Reconciler) rollback(tx Tx) {
	if err := tx.Rollback(); err != nil {
		r.logger.Warn("Rollback failed", zap.Error(err))
	}
}

func (r *Reconciler) logSummary(records int, result *BatchResult) {
	r.logger.Info("Batch reconciled",
		zap.Int("records", records),
		zap.Int("new", result.NewCount),
		zap.Int("updated", result.UpdatedCount),
		zap.Int("changed", result.Changed),
		zap.Int("skipped", result.Skipped),
		zap.Bool("dry_run", result.DryRun),
	)
}

// classify maps a store error to the failure kind reported to callers.
func classify(ctx context.Context, err error) Kind {
	switch {
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicateKey
	case isCancellation(ctx, err):
		return KindCancelled
	default:
		return KindPersistence
	}
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
