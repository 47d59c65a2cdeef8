package integrity

import (
	"context"
	"errors"

	"proposal-ingest/core/storage"
	"proposal-ingest/feature/integrity/checks"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by archive checks when no object storage is configured.
var ErrStorageDisabled = errors.New("storage is not configured")

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service. client and db may be nil.
func NewService(client storage.Client, bucket, region string, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
		db:     db,
	}
}

// CheckServer compares the live proposals table with the model.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.db)
}

// CheckArchive reports whether the archive bucket exists.
func (s *Service) CheckArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckArchive(ctx, s.client, s.bucket)
}

// FixArchive creates the archive bucket if it is missing.
func (s *Service) FixArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	report, err := s.CheckArchive(ctx)
	if err != nil || report.Exists {
		return report, err
	}
	if err := checks.FixArchive(ctx, s.client, s.bucket, s.region, s.logger); err != nil {
		return report, err
	}
	report.Exists = true
	report.Fixed = true
	return report, nil
}

// CheckAll runs every check concurrently. A failing check is reported in its
// own section and does not fail the others.
func (s *Service) CheckAll(ctx context.Context) map[string]interface{} {
	var server, archive interface{}

	g, ctxGroup := errgroup.WithContext(ctx)

	g.Go(func() error {
		report, err := s.CheckServer()
		if err != nil {
			server = map[string]interface{}{"status": "error", "error": err.Error()}
			return nil
		}
		server = report
		return nil
	})

	g.Go(func() error {
		report, err := s.CheckArchive(ctxGroup)
		switch {
		case errors.Is(err, ErrStorageDisabled):
			archive = map[string]interface{}{"status": "disabled"}
		case err != nil:
			archive = map[string]interface{}{"status": "error", "error": err.Error()}
		default:
			archive = report
		}
		return nil
	})

	_ = g.Wait()

	return map[string]interface{}{
		"server":  server,
		"archive": archive,
	}
}
