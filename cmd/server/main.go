package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robertobuso/legal-evidence-organizer/internal/aggregate"
	"github.com/robertobuso/legal-evidence-organizer/internal/analyzer"
	"github.com/robertobuso/legal-evidence-organizer/internal/config"
	"github.com/robertobuso/legal-evidence-organizer/internal/db"
	"github.com/robertobuso/legal-evidence-organizer/internal/extractor"
	"github.com/robertobuso/legal-evidence-organizer/internal/ingest"
	"github.com/robertobuso/legal-evidence-organizer/internal/mailbox"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/router"
	"github.com/robertobuso/legal-evidence-organizer/internal/services"
	"github.com/robertobuso/legal-evidence-organizer/internal/storage"
	"github.com/robertobuso/legal-evidence-organizer/internal/tasks"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
	"github.com/robertobuso/legal-evidence-organizer/internal/writer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)
	ctx := context.Background()

	// Initialize database; migrations run first
	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err, "path", cfg.DatabasePath)
	}
	defer database.Close()

	repo := repository.NewRepository(database)

	uploads, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", "error", err, "backend", cfg.StorageBackend)
	}

	timelineLLM, err := analyzer.NewCompleter(cfg.TimelineProvider, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize timeline model", "error", err)
	}
	analysisLLM, err := analyzer.NewCompleter(cfg.AnalysisProvider, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize analysis model", "error", err)
	}
	orchestrator, err := analyzer.NewOrchestrator(timelineLLM, analysisLLM, logger)
	if err != nil {
		logger.Fatal("Failed to load prompts", "error", err)
	}

	// Email fetching stays unavailable until Gmail credentials exist.
	var provider mailbox.Provider
	gmail, err := mailbox.NewGmailProvider(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile, logger)
	if err != nil {
		logger.Warn("Gmail provider not available; email fetches will return no messages", "error", err)
	} else {
		provider = gmail
	}

	runner := tasks.NewRunner(repo, logger)
	agg := aggregate.NewAggregator(repo)
	w := writer.New(repo, logger)
	chats := ingest.NewChatIngestor(extractor.NewChatParser(logger), repo, logger)
	pdfs := ingest.NewPDFIngestor(repo, logger)

	svc := &services.Services{
		Uploads:   services.NewUploadService(repo, uploads, chats, pdfs, runner, logger),
		Emails:    services.NewEmailService(repo, ingest.NewMailIngestor(provider, repo, logger), runner, logger),
		Sources:   services.NewSourceService(repo, logger),
		Timelines: services.NewTimelineService(repo, agg, orchestrator, w, runner, logger),
		Evidence:  services.NewEvidenceService(repo, agg, orchestrator, w, runner, logger),
		Reports:   services.NewReportService(repo, orchestrator, w, runner, logger),
		Tasks:     services.NewTaskService(repo, logger),
	}

	// Setup HTTP router
	handler := router.NewRouter(svc, cfg.MaxFileSize, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port,
			"timeline_provider", cfg.TimelineProvider,
			"analysis_provider", cfg.AnalysisProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Waiting for background tasks")
	runner.Wait()

	logger.Info("Server exited")
}
