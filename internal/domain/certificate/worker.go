package certificate

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Worker executes batch tasks from the queue. It loads the batch record,
// re-validates the stored template, resolves the injection strategy once,
// renders every participant sequentially, packages the archive and, when
// requested, dispatches the certificates to the mail relay.
type Worker struct {
	store      BatchStore
	artifacts  ArtifactStore
	roster     RosterResolver
	engine     Engine
	renderer   *Renderer
	packager   Packager
	dispatcher *Dispatcher
}

// NewWorker creates a new batch worker.
func NewWorker(store BatchStore, artifacts ArtifactStore, roster RosterResolver, engine Engine, renderer *Renderer, packager Packager, dispatcher *Dispatcher) *Worker {
	return &Worker{
		store:      store,
		artifacts:  artifacts,
		roster:     roster,
		engine:     engine,
		renderer:   renderer,
		packager:   packager,
		dispatcher: dispatcher,
	}
}

// ProcessTask handles one batch execution task.
func (w *Worker) ProcessTask(ctx context.Context, batchID string) error {
	start := time.Now()

	rec, err := w.store.GetByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("fetching batch %s: %w", batchID, err)
	}
	if rec == nil {
		slog.Error("batch record not found", "batch_id", batchID)
		return fmt.Errorf("batch record not found: %s", batchID)
	}

	if err := w.store.UpdateStatus(ctx, batchID, StatusProcessing, ""); err != nil {
		slog.Error("failed to update status to processing", "batch_id", batchID, "error", err)
	}

	result, outcome, err := w.run(ctx, rec)
	if err != nil {
		_ = w.store.UpdateStatus(ctx, batchID, StatusFailed, err.Error())
		slog.Error("batch failed",
			"batch_id", batchID,
			"error", err,
			"duration", time.Since(start),
		)
		return err
	}

	if err := w.store.SetOutcome(ctx, batchID, *outcome); err != nil {
		slog.Error("failed to record batch outcome", "batch_id", batchID, "error", err)
	}
	if err := w.store.UpdateStatus(ctx, batchID, StatusCompleted, ""); err != nil {
		slog.Error("failed to update status to completed", "batch_id", batchID, "error", err)
	}

	slog.Info("batch completed",
		"batch_id", batchID,
		"rendered", len(result.Certificates),
		"failed", len(result.Failures),
		"duration", time.Since(start),
	)
	return nil
}

// run performs the pipeline for one batch record.
func (w *Worker) run(ctx context.Context, rec *BatchRecord) (*BatchResult, *BatchOutcome, error) {
	templateBytes, err := w.artifacts.ReadTemplate(rec.TemplatePath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading stored template: %w", err)
	}

	tmpl, err := LoadTemplate(templateBytes)
	if err != nil {
		return nil, nil, err
	}

	strategy, err := w.engine.Resolve(ctx, tmpl)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving template strategy: %w", err)
	}
	slog.Info("template strategy resolved",
		"batch_id", rec.ID,
		"kind", strategy.Kind,
		"name_field", strategy.NameField,
		"team_field", strategy.TeamField,
	)

	teams, err := w.roster.ResolveTeams(ctx, rec.EventID, rec.TeamIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving teams: %w", err)
	}

	progress := func(processed, total int) {
		if err := w.store.UpdateProgress(ctx, rec.ID, processed); err != nil {
			slog.Error("failed to record progress", "batch_id", rec.ID, "error", err)
		}
	}

	result, err := RunBatch(ctx, teams, w.renderer, tmpl, strategy, RenderOptions{Message: rec.Message}, progress)
	if err != nil {
		return nil, nil, err
	}

	archiveBytes, err := w.packager.Package(result.Certificates)
	if err != nil {
		return nil, nil, fmt.Errorf("packaging archive: %w", err)
	}

	archivePath, err := w.artifacts.SaveArchive(rec.ID, archiveBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("storing archive: %w", err)
	}

	outcome := &BatchOutcome{
		Rendered:    len(result.Certificates),
		Failed:      len(result.Failures),
		ArchivePath: archivePath,
	}

	if rec.SendEmail && w.dispatcher != nil {
		report := w.dispatcher.Dispatch(ctx, result.Certificates)
		outcome.Delivery = &report
		slog.Info("batch delivery finished",
			"batch_id", rec.ID,
			"attempted", report.Attempted,
			"sent", report.Sent,
			"failed", report.Failed,
			"skipped", report.Skipped,
		)
	}

	return result, outcome, nil
}
