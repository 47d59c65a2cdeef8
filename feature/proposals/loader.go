package proposals

import (
	"proposal-ingest/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the proposals feature. archiver may be nil.
func NewFeature(db *gorm.DB, archiver *Archiver, cfg reconcile.Config, logger *zap.Logger) *Feature {
	svc := NewService(db, archiver, cfg, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "proposals"
}

// IsEnabled reports whether the feature is enabled. Without a database the
// routes still load and answer 503.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the feature's service to CLI commands.
func (f *Feature) Service() *Service {
	return f.service
}
