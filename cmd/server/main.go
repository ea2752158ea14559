package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campaignbridge/campaignbridge/internal"
	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/email"
	"github.com/campaignbridge/campaignbridge/internal/handler"
	"github.com/campaignbridge/campaignbridge/internal/metrics"
	"github.com/campaignbridge/campaignbridge/internal/middleware"
	"github.com/campaignbridge/campaignbridge/internal/provider"
	"github.com/campaignbridge/campaignbridge/internal/repository"
	"github.com/campaignbridge/campaignbridge/internal/service"
	"github.com/campaignbridge/campaignbridge/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize storage
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Storage ready", "provider", cfg.StorageProvider)

	// Initialize services
	postService := service.NewPostService(repo.Posts, store, service.NewImagingProcessor(), logger)
	generator := email.NewGenerator(postService, logger)
	campaignService := service.NewCampaignService(repo.Templates, generator, store, logger)

	// Delivery providers
	providers := provider.NewRegistry(
		provider.NewHTMLExportProvider(store, logger),
		provider.NewSMTPProvider(provider.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		}, logger),
	)
	logger.Info("Providers registered", "names", providers.Names())

	// Deployment-wide generation defaults, overridable per request
	emailDefaults := domain.DefaultEmailOptions()
	emailDefaults.Width = cfg.EmailWidth
	emailDefaults.MaxWidth = cfg.EmailWidth
	emailDefaults.BackgroundColor = cfg.BackgroundColor
	emailDefaults.TextColor = cfg.TextColor
	emailDefaults.FontFamily = cfg.FontFamily
	emailDefaults.Title = cfg.SiteName
	emailDefaults.Locale = cfg.Locale

	// Initialize handlers
	generateHandler := handler.NewGenerateHandler(campaignService, emailDefaults, logger)
	templateHandler := handler.NewTemplateHandler(repo.Templates, campaignService, providers, emailDefaults, logger)
	postHandler := handler.NewPostHandler(repo.Posts, logger)

	// Initialize middleware
	requestLogging := middleware.NewRequestLoggingMiddleware(logger)
	api := middleware.Stack(requestLogging.Handler, metrics.Middleware)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Local storage objects (exports, thumbnails) in development
	if cfg.StorageProvider == "local" {
		filesFS := http.FileServer(http.Dir(cfg.LocalStoragePath))
		mux.Handle("GET /files/", http.StripPrefix("/files/", filesFS))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics (basic auth)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// API routes
	mux.Handle("POST /api/v1/generate", api(http.HandlerFunc(generateHandler.Generate)))
	mux.Handle("GET /api/v1/templates", api(http.HandlerFunc(templateHandler.List)))
	mux.Handle("POST /api/v1/templates", api(http.HandlerFunc(templateHandler.Save)))
	mux.Handle("POST /api/v1/templates/{id}/export", api(http.HandlerFunc(templateHandler.Export)))
	mux.Handle("POST /api/v1/templates/{id}/send", api(http.HandlerFunc(templateHandler.Send)))
	mux.Handle("GET /api/v1/posts", api(http.HandlerFunc(postHandler.List)))

	// Unmatched routes get the JSON 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.NotFoundResponse(w, r, logger)
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newStorage selects the storage backend from configuration.
func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case "r2":
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, logger)
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
