package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bajij/competitive-scrape/internal/config"
	"github.com/bajij/competitive-scrape/internal/fetcher"
	"github.com/bajij/competitive-scrape/internal/notifier"
	"github.com/bajij/competitive-scrape/internal/repository/sqlite"
	"github.com/bajij/competitive-scrape/internal/server"
	"github.com/bajij/competitive-scrape/internal/services/detector"
	"github.com/bajij/competitive-scrape/internal/services/reporter"
	"github.com/bajij/competitive-scrape/internal/synthesis"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	repo, err := sqlite.NewRepository(ctx, logger, cfg.StoragePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer repo.Close() //nolint:errcheck // close error already logged inside

	pageFetcher := fetcher.New(logger, cfg.FetchTimeout)
	pageDetector := detector.New(logger, pageFetcher, repo)

	// Synthesis is optional: without a credential, reports are created
	// with null AI fields rather than failing.
	var synth reporter.Synthesizer
	if cfg.Gemini.APIKey != "" {
		client, err := synthesis.NewClient(ctx, logger, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
		if err != nil {
			log.Fatalf("Failed to init synthesis client: %v", err)
		}
		synth = client
	} else {
		logger.InfoContext(ctx, "No Gemini API key configured, synthesis disabled")
	}
	projectReporter := reporter.New(logger, repo, synth)

	var changeNotifier server.ChangeNotifier
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		tg, err := notifier.New(logger, cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Fatalf("Failed to init notifier: %v", err)
		}
		changeNotifier = tg
	}

	handler := server.NewHandler(logger, repo, pageDetector, projectReporter, changeNotifier)
	engine := server.NewServer(logger, handler)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
