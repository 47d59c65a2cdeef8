package proposals

import (
	"errors"

	"proposal-ingest/core/logger"
	"proposal-ingest/core/middleware/rayid"
	"proposal-ingest/core/reconcile"
	"proposal-ingest/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UpdateResponse is the body returned for a reconciled batch.
type UpdateResponse struct {
	Message          string `json:"message"`
	NewProposals     int    `json:"new_proposals"`
	UpdatedProposals int    `json:"updated_proposals"`
	DryRun           bool   `json:"dry_run,omitempty"`
}

// Handler handles HTTP requests for proposals.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the proposal routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/api/v1/update-proposals", h.HandleUpdateProposals)
	app.Get("/setup-database", h.HandleSetupDatabase)
}

// HandleUpdateProposals reconciles a scraped batch of proposals.
// @Summary Update Proposals
// @Description Inserts unknown proposals and updates the status of known ones. The batch is applied atomically.
// @Tags proposals
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param dry_run query boolean false "Classify the batch and roll it back"
// @Param body body object true "{\"proposals\": [...]}"
// @Success 200 {object} UpdateResponse "Batch processed"
// @Failure 400 {object} map[string]string "Missing proposals data"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Concurrent insert of the same proposal"
// @Failure 500 {object} map[string]string "Database transaction failed"
// @Failure 503 {object} map[string]string "Database not configured"
// @Router /api/v1/update-proposals [post]
func (h *Handler) HandleUpdateProposals(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts := IngestOptions{
		DryRun:  utils.ToBool(c.Query("dry_run")),
		BatchID: rayid.Get(c),
	}

	result, err := h.service.Ingest(c.UserContext(), c.Body(), opts)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrInvalidBatch):
			l.Warn("Rejected proposal batch", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing proposals data"})
		case errors.Is(err, ErrDatabaseUnavailable):
			l.Error("Proposal batch received without database")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Database not configured"})
		case errors.Is(err, reconcile.ErrDuplicateKey):
			l.Warn("Proposal batch lost a concurrent insert race", zap.Error(err))
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Concurrent update conflict, retry the batch"})
		default:
			l.Error("Proposal batch failed", zap.String("kind", string(reconcile.KindOf(err))), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database transaction failed"})
		}
	}

	return c.JSON(UpdateResponse{
		Message:          "Data processed successfully",
		NewProposals:     result.NewCount,
		UpdatedProposals: result.UpdatedCount,
		DryRun:           result.DryRun,
	})
}

// HandleSetupDatabase creates the proposals table if it is missing.
// @Summary Setup Database
// @Description Creates the proposals table and its unique index when they do not exist. Existing data is never touched.
// @Tags proposals
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "Table ready"
// @Failure 500 {object} map[string]string "Error creating table"
// @Failure 503 {object} map[string]string "Database not configured"
// @Router /setup-database [get]
func (h *Handler) HandleSetupDatabase(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	created, err := h.service.SetupDatabase(c.UserContext())
	if err != nil {
		if errors.Is(err, ErrDatabaseUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Database not configured"})
		}
		l.Error("Database setup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating table: " + err.Error()})
	}

	l.Info("Database setup completed", zap.Bool("created", created))
	return c.JSON(fiber.Map{
		"message": "Database table 'proposals' is ready.",
		"created": created,
	})
}
