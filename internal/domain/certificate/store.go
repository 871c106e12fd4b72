package certificate

import (
	"context"
	"time"
)

// BatchStore defines the contract for persisting batch records.
// Implementations live in infra/store.
type BatchStore interface {
	// Create inserts a new batch record.
	Create(ctx context.Context, rec *BatchRecord) error

	// GetByID retrieves a batch record by its ID. Returns nil, nil when no
	// record exists.
	GetByID(ctx context.Context, id string) (*BatchRecord, error)

	// UpdateStatus updates the lifecycle status of a batch.
	UpdateStatus(ctx context.Context, id string, status BatchStatus, errMsg string) error

	// UpdateProgress records the processed count after a participant.
	UpdateProgress(ctx context.Context, id string, processed int) error

	// SetOutcome records the final counts, archive location and delivery
	// report of a batch.
	SetOutcome(ctx context.Context, id string, outcome BatchOutcome) error

	// List retrieves batch records with pagination and filtering.
	List(ctx context.Context, filter ListFilter) ([]*BatchRecord, int, error)

	// ListStale retrieves batches stuck in queued/processing for longer than
	// the given threshold. Used by the reaper for reconciliation.
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*BatchRecord, error)
}

// ArtifactStore persists template and archive bytes shared between the API
// server and the worker. Implementations live in infra/storage.
type ArtifactStore interface {
	// SaveTemplate stores the uploaded template for a batch and returns its
	// path relative to the storage root.
	SaveTemplate(batchID string, data []byte) (string, error)

	// ReadTemplate loads previously stored template bytes.
	ReadTemplate(path string) ([]byte, error)

	// SaveArchive stores the packaged archive for a batch and returns its
	// path relative to the storage root.
	SaveArchive(batchID string, data []byte) (string, error)

	// AbsPath resolves a stored relative path for serving downloads.
	AbsPath(path string) string
}

// RosterResolver supplies the already-resolved teams of an event. The
// pipeline itself never touches the document database directly.
type RosterResolver interface {
	// ResolveTeams loads the event's teams with their members. Teams whose
	// ID appears in teamIDs are marked selected; an empty teamIDs selects
	// every team.
	ResolveTeams(ctx context.Context, eventID string, teamIDs []string) ([]Team, error)
}
