package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"proposal-ingest/core/loader"
	"proposal-ingest/core/logger"
	"proposal-ingest/core/middleware/auth"
	"proposal-ingest/core/middleware/rayid"
	"proposal-ingest/feature/integrity"
	"proposal-ingest/feature/proposals"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "proposal-ingest/docs/swagger"
)

// @title Proposal Ingest API
// @version 1.0
// @description API for reconciling scraped legislative proposals.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-KEY

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the proposal ingest server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger, optional database and archive storage
		d, err := loadDeps(false)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer d.close()
		logg := d.log
		zap.ReplaceGlobals(logg)

		if d.archiver == nil {
			logg.Info("Batch archiving disabled")
		}

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(proposals.NewFeature(d.db, d.archiver, d.cfg.Ingest, logg))
		mgr.Register(integrity.NewFeature(d.store, d.cfg.Storage.Bucket, d.cfg.Storage.Region, logg, d.db))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging with the ray id attached
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: d.cfg.Server.ApiKey}))
		if d.cfg.Server.ApiKey == "" {
			logg.Warn("No API key configured, every protected request will be rejected")
		}

		// 4. Load Features
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", d.cfg.Server.Addr()))
			if err := app.Listen(d.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
