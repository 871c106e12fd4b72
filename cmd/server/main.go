package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certigen/internal/config"
	"certigen/internal/domain/certificate"
	"certigen/internal/domain/roster"
	"certigen/internal/infra/pdf"
	"certigen/internal/infra/queue"
	"certigen/internal/infra/storage"
	"certigen/internal/infra/store"
	"certigen/internal/router"

	"github.com/hibiken/asynq"
)

// queueEnqueuer adapts the asynq client to the certificate.Enqueuer interface.
type queueEnqueuer struct {
	client   *asynq.Client
	maxRetry int
}

func (q *queueEnqueuer) EnqueueRunBatch(batchID string) error {
	return queue.EnqueueRunBatch(q.client, batchID, q.maxRetry)
}

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Supabase Stores
	batchStore, err := store.NewSupabaseBatchStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize batch store", "error", err)
		os.Exit(1)
	}
	rosterStore, err := store.NewSupabaseRosterStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize roster store", "error", err)
		os.Exit(1)
	}
	slog.Info("supabase stores initialized")

	// Artifact Storage (shared with the worker)
	artifacts, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		slog.Error("failed to initialize artifact storage", "error", err, "dir", cfg.Storage.Dir)
		os.Exit(1)
	}

	// Asynq Client (for enqueuing tasks)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()
	slog.Info("asynq client initialized", "redis", cfg.Redis.Address)

	// Enqueuer adapter
	enqueuer := &queueEnqueuer{
		client:   asynqClient,
		maxRetry: cfg.Queue.MaxRetry,
	}

	// PDF Engine + Renderer (for the synchronous preview endpoint)
	pdfEngine := pdf.NewEngine(pdf.Config{
		FontPath:    cfg.Render.FontPath,
		NameSize:    cfg.Render.NameSize,
		TeamSize:    cfg.Render.TeamSize,
		MessageSize: cfg.Render.MessageSize,
	})
	renderer := certificate.NewRenderer(pdfEngine, cfg.Render.MinPDFBytes)

	// Services
	rosterService := roster.NewService(rosterStore)
	certificateService := certificate.NewService(batchStore, artifacts, rosterService, enqueuer, pdfEngine, renderer)

	// Handlers
	certificateHandler := certificate.NewHandler(certificateService)
	rosterHandler := roster.NewHandler(rosterService)

	// Router
	r := router.New(cfg, certificateHandler, rosterHandler)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
