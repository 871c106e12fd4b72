package certificate

import (
	"context"
	"fmt"
	"log/slog"

	"certigen/internal/common"

	"github.com/google/uuid"
)

// Enqueuer defines the contract for enqueuing batch tasks. This decouples
// the service from the specific queue implementation.
type Enqueuer interface {
	EnqueueRunBatch(batchID string) error
}

// StartBatchRequest carries everything needed to start a batch.
type StartBatchRequest struct {
	TemplateBytes []byte
	EventID       string
	TeamIDs       []string
	SendEmail     bool
	Message       string
}

// StartBatchResponse is returned once a batch is accepted.
type StartBatchResponse struct {
	BatchID           string `json:"batch_id"`
	Status            string `json:"status"`
	TotalParticipants int    `json:"total_participants"`
}

// Service orchestrates the batch lifecycle: validate template → resolve
// roster → reject empty selections → persist record and template → enqueue.
// Rendering itself happens in the worker.
type Service struct {
	store     BatchStore
	artifacts ArtifactStore
	roster    RosterResolver
	enqueuer  Enqueuer
	engine    Engine
	renderer  *Renderer
}

// NewService creates a new certificate batch service.
func NewService(store BatchStore, artifacts ArtifactStore, roster RosterResolver, enqueuer Enqueuer, engine Engine, renderer *Renderer) *Service {
	return &Service{
		store:     store,
		artifacts: artifacts,
		roster:    roster,
		enqueuer:  enqueuer,
		engine:    engine,
		renderer:  renderer,
	}
}

// StartBatch validates the request and enqueues a batch for async execution.
// Template and selection problems are batch-fatal and surfaced here, before
// any rendering starts.
func (s *Service) StartBatch(ctx context.Context, req *StartBatchRequest) (*StartBatchResponse, error) {
	if req.EventID == "" {
		return nil, common.NewValidationError("event_id is required")
	}

	tmpl, err := LoadTemplate(req.TemplateBytes)
	if err != nil {
		return nil, err
	}

	teams, err := s.roster.ResolveTeams(ctx, req.EventID, req.TeamIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving teams: %w", err)
	}

	participants := Flatten(teams)
	if len(participants) == 0 {
		return nil, common.NewEmptySelectionError()
	}

	rec := &BatchRecord{
		ID:                uuid.New().String(),
		EventID:           req.EventID,
		TeamIDs:           req.TeamIDs,
		SendEmail:         req.SendEmail,
		Message:           req.Message,
		Status:            StatusQueued,
		TotalParticipants: len(participants),
	}

	templatePath, err := s.artifacts.SaveTemplate(rec.ID, tmpl.Bytes())
	if err != nil {
		return nil, fmt.Errorf("storing template: %w", err)
	}
	rec.TemplatePath = templatePath

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating batch record: %w", err)
	}

	if err := s.enqueuer.EnqueueRunBatch(rec.ID); err != nil {
		// Mark the record failed since the worker will never see it.
		_ = s.store.UpdateStatus(ctx, rec.ID, StatusFailed, "failed to enqueue: "+err.Error())
		return nil, fmt.Errorf("enqueuing batch: %w", err)
	}

	slog.Info("batch enqueued",
		"batch_id", rec.ID,
		"event_id", req.EventID,
		"teams", len(req.TeamIDs),
		"participants", len(participants),
		"send_email", req.SendEmail,
	)

	return &StartBatchResponse{
		BatchID:           rec.ID,
		Status:            string(StatusQueued),
		TotalParticipants: len(participants),
	}, nil
}

// GetBatch retrieves a batch record by ID.
func (s *Service) GetBatch(ctx context.Context, id string) (*BatchRecord, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching batch: %w", err)
	}
	if rec == nil {
		return nil, common.NewNotFoundError("batch", id)
	}
	return rec, nil
}

// ListBatches retrieves batch records with pagination and filtering.
func (s *Service) ListBatches(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	batches, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	return &ListResponse{
		Batches:  batches,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ArchiveFilePath resolves the downloadable archive of a completed batch.
func (s *Service) ArchiveFilePath(ctx context.Context, id string) (string, error) {
	rec, err := s.GetBatch(ctx, id)
	if err != nil {
		return "", err
	}
	if rec.ArchivePath == "" {
		return "", common.NewNotFoundError("archive for batch", id)
	}
	return s.artifacts.AbsPath(rec.ArchivePath), nil
}

// Preview renders a single certificate synchronously, without touching the
// store or the queue. Used for the preview-before-send flow.
func (s *Service) Preview(ctx context.Context, templateBytes []byte, p Participant, message string) ([]byte, error) {
	tmpl, err := LoadTemplate(templateBytes)
	if err != nil {
		return nil, err
	}

	strategy, err := s.engine.Resolve(ctx, tmpl)
	if err != nil {
		return nil, fmt.Errorf("resolving template strategy: %w", err)
	}

	cert, err := s.renderer.Render(ctx, tmpl, strategy, p, RenderOptions{Message: message})
	if err != nil {
		return nil, err
	}

	return cert.DocumentBytes, nil
}
