package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/intercultura/sponte-dashboard/internal/cache"
	"github.com/intercultura/sponte-dashboard/internal/config"
	"github.com/intercultura/sponte-dashboard/internal/database"
	"github.com/intercultura/sponte-dashboard/internal/handler"
	"github.com/intercultura/sponte-dashboard/internal/logger"
	"github.com/intercultura/sponte-dashboard/internal/router"
	"github.com/intercultura/sponte-dashboard/internal/service"
	"github.com/intercultura/sponte-dashboard/internal/sponte"
	"github.com/intercultura/sponte-dashboard/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Sponte Dashboard Backend")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Sponte Client ──────────────────────────────────────
	// Login is lazy: the first authorized request performs it.
	sponteClient := sponte.NewClient(sponte.Options{
		BaseURL:    cfg.SponteBaseURL,
		Login:      cfg.SponteLogin,
		Password:   cfg.SpontePassword,
		ClientCode: cfg.SponteClientCode,
		Timeout:    cfg.SponteTimeout,
	}, log)

	// ─── Initialize Services ──────────────────────────────────────────
	store := cache.NewRedisStore(rdb, log)
	authService := service.NewAuthService(cfg)
	catalogService := service.NewCatalogService(sponteClient, store, cfg.CacheTTL, log)
	financeService := service.NewFinanceService(
		sponteClient, catalogService, store, cfg.CacheTTL, cfg.FinanceFanout, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Student: handler.NewStudentHandler(catalogService),
		Class:   handler.NewClassHandler(catalogService),
		Lesson:  handler.NewLessonHandler(catalogService),
		Finance: handler.NewFinanceHandler(sponteClient, financeService),
		Export:  handler.NewExportHandler(catalogService, financeService, log),
		System:  handler.NewSystemHandler(rdb, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
