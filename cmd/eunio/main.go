package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sestako/eunio-core/internal/api"
	"github.com/sestako/eunio-core/internal/db"
	"github.com/sestako/eunio-core/internal/logging"
	"github.com/sestako/eunio-core/internal/services"
)

func main() {
	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	dbPath := getEnv("DB_PATH", filepath.Join("data", "eunio.db"))
	port := getEnv("PORT", "8080")
	logMode := getEnv("LOG_MODE", "dev")

	logger, err := logging.New(logMode)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	repos := db.NewRepositories(database)

	dayService := services.NewDayService(repos.DailyLogs, location)
	cycleService := services.NewCycleService(repos.Cycles)
	ovulationService := services.NewOvulationService(repos.DailyLogs, cycleService)
	fertilityService := services.NewFertilityService(repos.Cycles)

	insightEngine := services.NewInsightEngine(repos.DailyLogs, repos.Cycles, repos.Insights, logger)
	insightScheduler := services.NewInsightScheduler(insightEngine, repos.Users, location, logger)

	handler := api.NewHandler(
		dayService,
		cycleService,
		ovulationService,
		fertilityService,
		api.NewInsightEndpoints(repos.Insights, insightEngine, insightScheduler),
		location,
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:               "Eunio",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	insightScheduler.Start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("eunio listening", "port", port, "db", dbPath, "tz", location.String())
	if err := app.Listen(":" + port); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
