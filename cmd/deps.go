package cmd

import (
	"fmt"

	"proposal-ingest/core/config"
	"proposal-ingest/core/database"
	"proposal-ingest/core/logger"
	"proposal-ingest/core/storage"
	"proposal-ingest/feature/proposals"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps is what every command builds from configuration.
type deps struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	store    storage.Client
	archiver *proposals.Archiver
}

// loadDeps loads configuration and the logger. With requireDB the command
// fails when the database is unreachable; otherwise it continues without one.
func loadDeps(requireDB bool) (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	d := &deps{cfg: cfg, log: logg}

	if conn, err := database.Connect(cfg.Database); err != nil {
		if requireDB {
			return nil, fmt.Errorf("database connection required: %w", err)
		}
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		d.db = conn
		logg.Info("Connected to database", zap.String("driver", conn.Dialector.Name()))
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		d.store = store
		d.archiver = proposals.NewArchiver(store, cfg.Storage.Bucket, cfg.Storage.ArchivePrefix)
	}

	return d, nil
}

// close releases the database connection pool.
func (d *deps) close() {
	if d.db != nil {
		if sqlDB, err := d.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = d.log.Sync()
}
