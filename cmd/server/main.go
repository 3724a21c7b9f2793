package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/config"
	"github.com/stemsi/notes-backend/internal/database"
	"github.com/stemsi/notes-backend/internal/filestore"
	"github.com/stemsi/notes-backend/internal/handler"
	"github.com/stemsi/notes-backend/internal/logger"
	"github.com/stemsi/notes-backend/internal/repository"
	"github.com/stemsi/notes-backend/internal/router"
	"github.com/stemsi/notes-backend/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Notes Backend")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Apply Migrations ──────────────────────────────────────────────
	if cfg.AutoMigrate {
		mg, err := database.NewMigrator(pool, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare migrations")
		}
		err = mg.Up()
		mg.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// ─── Initialize Storage ────────────────────────────────────────────
	files, err := filestore.NewLocal(cfg.UploadDir, cfg.MaxUploadBytes, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare upload directory")
	}

	// ─── Initialize Repositories & Services ───────────────────────────
	catalog := service.NewCatalog(
		repository.New(pool, repository.Courses, log),
		repository.New(pool, repository.Subjects, log),
		repository.New(pool, repository.Contents, log),
		log,
	)

	// ─── Initialize Handlers ──────────────────────────────────────────
	links := handler.NewLinks(cfg.AppURL, cfg.FilesPath)
	handlers := &router.Handlers{
		Course:  handler.NewCourseHandler(catalog, files, links, log),
		Subject: handler.NewSubjectHandler(catalog, files, links, log),
		Content: handler.NewContentHandler(catalog, files, links, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(cfg, log, handlers)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
