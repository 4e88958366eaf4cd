package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/hassaanshah24/minute2.0/internal/config"
	"github.com/hassaanshah24/minute2.0/internal/database"
	"github.com/hassaanshah24/minute2.0/internal/handlers"
	"github.com/hassaanshah24/minute2.0/internal/middleware"
	"github.com/hassaanshah24/minute2.0/internal/services"
	"github.com/hassaanshah24/minute2.0/internal/workflow"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/hassaanshah24/minute2.0/docs/api" // Swagger docs
)

// @title Minute Approval API
// @version 1.0.0
// @description Minute sheet approval workflow service with ordered approver chains
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/hassaanshah24/minute2.0

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey ActorHeader
// @in header
// @name X-Actor-Id

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Workflow engine and services
	engine := workflow.NewEngine(db, log.With().Str("component", "workflow").Logger())
	notifications := services.NewNotificationService(db, log.With().Str("component", "notifications").Logger())
	engine.SetNotifier(notifications)
	minutes := services.NewMinuteService(db, cfg.OrgPrefix, log.With().Str("component", "minutes").Logger())
	chains := services.NewChainService(db, log.With().Str("component", "chains").Logger())

	// Sweep expired notifications in the background
	done := make(chan struct{})
	go purgeNotifications(notifications, done)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("minute_approval")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check, outside actor resolution
	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	api.Use(middleware.ActorMiddleware(db))

	// Create handlers
	minuteHandler := &handlers.MinuteHandler{Minutes: minutes, Engine: engine}
	chainHandler := &handlers.ChainHandler{Chains: chains, Engine: engine}
	approvalHandler := &handlers.ApprovalHandler{Engine: engine}
	notificationHandler := &handlers.NotificationHandler{Notifications: notifications}

	// Minute routes; fixed paths before the :id wildcard
	api.Post("/minutes", minuteHandler.Create)
	api.Get("/minutes/pending", minuteHandler.Pending)
	api.Get("/minutes/mine", minuteHandler.Mine)
	api.Get("/minutes/archived", minuteHandler.Archived)
	api.Get("/minutes/:id", minuteHandler.Get)
	api.Put("/minutes/:id", minuteHandler.Update)
	api.Delete("/minutes/:id", minuteHandler.Delete)
	api.Post("/minutes/:id/submit", minuteHandler.Submit)
	api.Get("/minutes/:id/track", minuteHandler.Track)

	// Chain routes
	api.Post("/chains", chainHandler.Create)
	api.Get("/chains", chainHandler.List)
	api.Get("/chains/:id", chainHandler.Get)
	api.Delete("/chains/:id", chainHandler.Delete)
	api.Post("/chains/:id/approvers", chainHandler.AddApprover)
	api.Post("/chains/:id/renumber", chainHandler.Renumber)
	api.Post("/chains/:id/attach", chainHandler.Attach)

	// Approver action routes
	api.Post("/approvals/:id/approve", approvalHandler.Approve)
	api.Post("/approvals/:id/reject", approvalHandler.Reject)
	api.Post("/approvals/:id/mark-to", approvalHandler.MarkTo)
	api.Post("/approvals/:id/return-to", approvalHandler.ReturnTo)

	// Notification routes
	api.Get("/notifications", notificationHandler.List)
	api.Post("/notifications/read-all", notificationHandler.MarkAllRead)
	api.Post("/notifications/:id/read", notificationHandler.MarkRead)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("gracefully shutting down")
		close(done)
		_ = app.Shutdown()
	}()

	// Start server
	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	log.Info().Msg("server stopped")
}

// purgeNotifications deletes expired notifications every hour until done
// closes.
func purgeNotifications(notifications *services.NotificationService, done <-chan struct{}) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			n, err := notifications.PurgeExpired(context.Background())
			if err != nil {
				log.Warn().Err(err).Msg("notification purge failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("purged", n).Msg("expired notifications removed")
			}
		}
	}
}

// setupLogging configures the global zerolog logger from config.
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}
