package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certigen/internal/config"
	"certigen/internal/domain/certificate"
	"certigen/internal/domain/roster"
	"certigen/internal/infra/archive"
	"certigen/internal/infra/pdf"
	"certigen/internal/infra/queue"
	"certigen/internal/infra/ratelimit"
	relayclient "certigen/internal/infra/relay"
	"certigen/internal/infra/storage"
	"certigen/internal/infra/store"

	"github.com/hibiken/asynq"
)

// queueEnqueuer adapts the asynq client to the certificate.Enqueuer interface.
// Used by the reaper to re-enqueue stale batches.
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

	slog.Info("worker configuration loaded")

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

	// Artifact Storage (shared with the API server)
	artifacts, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		slog.Error("failed to initialize artifact storage", "error", err, "dir", cfg.Storage.Dir)
		os.Exit(1)
	}

	// PDF Engine + Renderer
	pdfEngine := pdf.NewEngine(pdf.Config{
		FontPath:    cfg.Render.FontPath,
		NameSize:    cfg.Render.NameSize,
		TeamSize:    cfg.Render.TeamSize,
		MessageSize: cfg.Render.MessageSize,
	})
	renderer := certificate.NewRenderer(pdfEngine, cfg.Render.MinPDFBytes)

	// Recipient Rate Limiter (per-recipient delivery throttle)
	recipientLimiter := ratelimit.NewRedisRecipientLimiter(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Delivery.MaxPerHour,
	)
	defer recipientLimiter.Close()
	slog.Info("recipient rate limiter initialized", "max_per_hour", cfg.Delivery.MaxPerHour)

	// Mail Relay client + Dispatcher
	relayClient := relayclient.NewClient(cfg.Relay.BaseURL)
	dispatcher := certificate.NewDispatcher(relayClient, recipientLimiter)

	// Roster resolver
	rosterService := roster.NewService(rosterStore)

	// Batch Worker
	batchWorker := certificate.NewWorker(
		batchStore,
		artifacts,
		rosterService,
		pdfEngine,
		renderer,
		archive.NewZipPackager(),
		dispatcher,
	)

	// Asynq Client (for reaper re-enqueuing)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()

	enqueuer := &queueEnqueuer{
		client:   asynqClient,
		maxRetry: cfg.Queue.MaxRetry,
	}

	// ==========================================
	// Asynq Server (task processing)
	// ==========================================

	asynqServer := queue.NewServer(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Queue.Concurrency,
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(certificate.TaskTypeRunBatch, func(ctx context.Context, task *asynq.Task) error {
		payload, err := certificate.ParseRunBatchPayload(task.Payload())
		if err != nil {
			return err
		}
		return batchWorker.ProcessTask(ctx, payload.BatchID)
	})

	// Start the asynq worker in a goroutine
	go func() {
		slog.Info("worker starting",
			"concurrency", cfg.Queue.Concurrency,
			"redis", cfg.Redis.Address,
		)
		if err := asynqServer.Run(mux); err != nil {
			slog.Error("worker failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// ==========================================
	// Stale Batch Reaper
	// ==========================================

	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	defer reaperCancel()

	reaper := certificate.NewReaper(batchStore, enqueuer, certificate.ReaperConfig{
		Interval:       time.Duration(cfg.Reaper.IntervalSec) * time.Second,
		StaleThreshold: time.Duration(cfg.Reaper.StaleThresholdSec) * time.Second,
		BatchSize:      cfg.Reaper.BatchSize,
	})

	go reaper.Run(reaperCtx)

	// ==========================================
	// Graceful Shutdown
	// ==========================================

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	reaperCancel() // Stop the reaper first
	asynqServer.Shutdown()
	slog.Info("worker exited gracefully")
}
