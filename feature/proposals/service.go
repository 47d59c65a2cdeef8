package proposals

import (
	"context"
	"errors"
	"time"

	"proposal-ingest/core/reconcile"
	"proposal-ingest/feature/proposals/models"
	proposalReconcile "proposal-ingest/feature/proposals/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"
)

// ErrDatabaseUnavailable is returned when the service was started without a database.
var ErrDatabaseUnavailable = errors.New("database unavailable")

// archiveTimeout bounds the best-effort upload of a committed batch.
const archiveTimeout = 30 * time.Second

// IngestOptions controls a single ingestion.
type IngestOptions struct {
	// DryRun rolls the batch back after classification.
	DryRun bool
	// BatchID identifies the batch in logs and names its archive object.
	BatchID string
}

// Service reconciles proposal batches against the database.
type Service struct {
	db         *gorm.DB
	reconciler *reconcile.Reconciler
	archiver   *Archiver
	logger     *zap.Logger
	slots      *semaphore.Weighted
	timeout    time.Duration
}

// NewService creates a proposal service. db may be nil, in which case every
// ingestion fails with ErrDatabaseUnavailable. archiver may be nil to disable archiving.
func NewService(db *gorm.DB, archiver *Archiver, cfg reconcile.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	slots := cfg.MaxConcurrentBatches
	if slots <= 0 {
		slots = 1
	}

	s := &Service{
		db:       db,
		archiver: archiver,
		logger:   logger,
		slots:    semaphore.NewWeighted(int64(slots)),
		timeout:  time.Duration(cfg.BatchTimeoutSeconds) * time.Second,
	}
	if db != nil {
		s.reconciler = reconcile.New(proposalReconcile.NewStore(db), logger)
	}
	return s
}

// Ingest decodes an update-proposals body and reconciles it.
// The raw body of a committed batch is archived when an archiver is configured.
func (s *Service) Ingest(ctx context.Context, body []byte, opts IngestOptions) (*reconcile.BatchResult, error) {
	batch, err := DecodeBatch(body)
	if err != nil {
		return nil, err
	}

	result, err := s.Apply(ctx, batch, opts)
	if err != nil {
		return nil, err
	}

	if s.archiver != nil && !result.DryRun && opts.BatchID != "" {
		s.archive(ctx, opts.BatchID, body)
	}
	return result, nil
}

// Apply reconciles already decoded records.
// At most cfg.MaxConcurrentBatches batches hold a transaction at the same time.
func (s *Service) Apply(ctx context.Context, batch []reconcile.Record, opts IngestOptions) (*reconcile.BatchResult, error) {
	if s.reconciler == nil {
		return nil, ErrDatabaseUnavailable
	}

	l := s.logger
	if opts.BatchID != "" {
		l = l.With(zap.String("batch_id", opts.BatchID))
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, &reconcile.BatchError{Kind: reconcile.KindCancelled, Position: -1, Err: err}
	}
	defer s.slots.Release(1)

	return s.reconciler.WithLogger(l).Apply(ctx, batch, reconcile.Options{DryRun: opts.DryRun})
}

// SetupDatabase creates the proposals table when it does not exist yet.
func (s *Service) SetupDatabase(ctx context.Context) (bool, error) {
	if s.db == nil {
		return false, ErrDatabaseUnavailable
	}
	return models.EnsureSchema(ctx, s.db)
}

func (s *Service) archive(ctx context.Context, batchID string, body []byte) {
	// Committed batches are archived even after the request context ends.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	name, err := s.archiver.Archive(ctx, batchID, body)
	if err != nil {
		s.logger.Warn("Batch archive failed", zap.String("batch_id", batchID), zap.Error(err))
		return
	}
	s.logger.Debug("Batch archived", zap.String("batch_id", batchID), zap.String("object", name))
}
