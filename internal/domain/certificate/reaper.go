package certificate

import (
	"context"
	"log/slog"
	"time"
)

// ReaperConfig holds configuration for the stale batch reaper.
type ReaperConfig struct {
	// Interval is how often the reaper scans for stale batches.
	Interval time.Duration

	// StaleThreshold is how long a batch can stay in queued/processing
	// before the reaper considers it stale and re-enqueues it.
	StaleThreshold time.Duration

	// BatchSize is the maximum number of stale batches to recover per cycle.
	BatchSize int
}

// Reaper periodically scans the batch store for stuck batches and re-enqueues
// them, so no batch is permanently lost even if Redis data is wiped or a
// worker crashes mid-run.
//
// The store is the source of truth; the reaper reconciles it with the queue
// on a timer.
type Reaper struct {
	store    BatchStore
	enqueuer Enqueuer
	config   ReaperConfig
}

// NewReaper creates a new stale batch reaper.
func NewReaper(store BatchStore, enqueuer Enqueuer, cfg ReaperConfig) *Reaper {
	// Sensible defaults
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.StaleThreshold <= 0 {
		cfg.StaleThreshold = 10 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}

	return &Reaper{
		store:    store,
		enqueuer: enqueuer,
		config:   cfg,
	}
}

// Run starts the reaper loop. It blocks until the context is cancelled.
// Should be called in a goroutine.
func (r *Reaper) Run(ctx context.Context) {
	slog.Info("reaper started",
		"interval", r.config.Interval,
		"stale_threshold", r.config.StaleThreshold,
		"batch_size", r.config.BatchSize,
	)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep performs one reaper cycle: find stale batches and re-enqueue them.
func (r *Reaper) sweep(ctx context.Context) {
	olderThan := time.Now().Add(-r.config.StaleThreshold)

	stale, err := r.store.ListStale(ctx, olderThan, r.config.BatchSize)
	if err != nil {
		slog.Error("reaper: failed to list stale batches", "error", err)
		return
	}

	if len(stale) == 0 {
		return // Nothing to do — the common case
	}

	slog.Warn("reaper: found stale batches", "count", len(stale))

	recovered := 0
	for _, rec := range stale {
		// Reset status to queued before re-enqueuing so the worker picks the
		// batch up cleanly. A re-run regenerates every certificate; renders
		// are deterministic so this is safe.
		if err := r.store.UpdateStatus(ctx, rec.ID, StatusQueued, ""); err != nil {
			slog.Error("reaper: failed to reset status",
				"batch_id", rec.ID,
				"error", err,
			)
			continue
		}

		if err := r.enqueuer.EnqueueRunBatch(rec.ID); err != nil {
			slog.Error("reaper: failed to re-enqueue batch",
				"batch_id", rec.ID,
				"error", err,
			)
			continue
		}

		recovered++
		slog.Info("reaper: recovered stale batch",
			"batch_id", rec.ID,
			"original_status", rec.Status,
			"age", time.Since(rec.UpdatedAt).Round(time.Second),
		)
	}

	if recovered > 0 {
		slog.Info("reaper: sweep finished", "recovered", recovered)
	}
}
