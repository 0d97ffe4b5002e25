// Package main is the entry point for the contact form backend.
// It accepts website contact submissions, emails each one to the site
// owner and records a copy in a Google spreadsheet.
//
// Flow per submission:
//   - Validate the JSON body (422 on field errors, 400 on malformed input)
//   - Email the owner over implicit-TLS SMTP (500 if this fails)
//   - Append a row to the ledger spreadsheet (best-effort, never fails the request)
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/omkarinteriors/contact-api/internal/config"
	"github.com/omkarinteriors/contact-api/internal/handlers"
	"github.com/omkarinteriors/contact-api/internal/middleware"
	"github.com/omkarinteriors/contact-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	logger := newLogger(cfg.Environment)
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("Starting contact API",
		"port", cfg.Port,
		"env", cfg.Environment,
		"origins", cfg.ClientOrigins,
		"smtp_host", cfg.SMTP.Host,
	)
	if !cfg.SMTP.Configured() {
		sugar.Warn("SMTP_USER/SMTP_PASS not set, every submission will fail with 500")
	}
	if !cfg.Sheets.Configured() {
		sugar.Warn("Google Sheets settings incomplete, submissions will not be recorded")
	}

	// Initialize services
	notifier := services.NewEmailNotifier(cfg.SMTP, sugar)
	ledger := services.NewSheetsLedger(cfg.Sheets, sugar)

	r := newRouter(cfg, notifier, ledger, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newRouter(cfg *config.Config, notifier handlers.Notifier, ledger handlers.Ledger, logger *zap.Logger) http.Handler {
	sugar := logger.Sugar()

	contactHandler := handlers.NewContactHandler(notifier, ledger, sugar)
	healthHandler := handlers.NewHealthHandler()

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.ClientOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)
		r.Post("/contact", contactHandler.Submit)
	})

	return r
}
