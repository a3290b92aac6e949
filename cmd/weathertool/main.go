package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/meteoagente/weathertool/internal/api/http"
	"github.com/meteoagente/weathertool/internal/config"
	"github.com/meteoagente/weathertool/internal/gazetteer"
	"github.com/meteoagente/weathertool/internal/scheduler"
	"github.com/meteoagente/weathertool/internal/store"
	"github.com/meteoagente/weathertool/internal/weather"
	"github.com/meteoagente/weathertool/internal/weather/openmeteo"
)

func main() {
	// Load configuration (reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Gazetteer dataset, loaded once; a broken schema is fatal.
	idx, err := gazetteer.LoadIndex(logger, cfg.DatasetPath)
	if err != nil {
		logger.Fatal("failed to load gazetteer dataset", zap.Error(err))
	}

	// Shared HTTP client for outbound Open-Meteo calls.
	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}
	meteo := openmeteo.NewClient(logger, httpClient, cfg.OpenMeteoBaseURL)

	// In-memory invocation history with configured retention.
	history := store.NewMemoryStore(cfg.HistoryMaxEntries, cfg.HistoryMaxAge)

	// Core service composing resolver, upstream and history.
	service := weather.NewService(logger, idx, meteo, history)

	// Scheduler that keeps configured cities warm.
	sched := scheduler.New(logger, service, cfg.PrefetchCities, cfg.PrefetchInterval)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weathertool",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(fiberlog.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weathertool",
			"cities":  idx.Len(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
		}
	}()
	logger.Info("weathertool listening", zap.String("port", cfg.Port))

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
