package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"salon/apiclient"
	"salon/config"
	"salon/debthistory"
	"salon/handlers"
	"salon/logging"
	"salon/metrics"
	"salon/middleware"
	"salon/templates"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").WithError(err).Fatal("Failed to load configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	client, err := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.APITimeout))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create API client")
	}

	// Parse templates - each page template paired with base
	pages, err := templates.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse templates")
	}

	// Initialize handlers
	views := debthistory.NewRegistry(client, cfg.ViewTTL, cfg.Location())
	authHandler := handlers.NewAuthHandler(cfg)
	debtHistoryHandler := handlers.NewDebtHistoryHandler(cfg, pages, views)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debts/history", http.StatusSeeOther)
	})
	router.Get("/logout", authHandler.Logout)
	router.Get("/healthz", debtHistoryHandler.Healthz)
	router.Handle(cfg.MetricsPath, metrics.Handler())

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTSecret, cfg.LoginURL))
		debtHistoryHandler.Register(r)
	})

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty, tokens are forwarded without verification")
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithField("port", cfg.ServerPort).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}
