package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"certigen/internal/domain/certificate"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const batchTable = "certificate_batches"

var _ certificate.BatchStore = (*SupabaseBatchStore)(nil)

// SupabaseBatchStore implements BatchStore using the Supabase Go SDK.
type SupabaseBatchStore struct {
	client *supa.Client
}

// NewSupabaseBatchStore creates a new Supabase-backed batch store.
func NewSupabaseBatchStore(supabaseURL, serviceKey string) (*SupabaseBatchStore, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseBatchStore{client: client}, nil
}

// batchRow is the internal representation for Supabase PostgREST insert/update.
type batchRow struct {
	ID           string   `json:"id,omitempty"`
	EventID      string   `json:"event_id"`
	TeamIDs      []string `json:"team_ids,omitempty"`
	SendEmail    bool     `json:"send_email"`
	Message      *string  `json:"message,omitempty"`
	Status       string   `json:"status"`
	ErrorMessage *string  `json:"error_message,omitempty"`

	TotalParticipants int `json:"total_participants"`
	Processed         int `json:"processed"`
	RenderedCount     int `json:"rendered_count"`
	FailedCount       int `json:"failed_count"`

	Delivery *certificate.DeliveryReport `json:"delivery,omitempty"`

	TemplatePath *string `json:"template_path,omitempty"`
	ArchivePath  *string `json:"archive_path,omitempty"`

	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

// Create inserts a new batch record.
func (s *SupabaseBatchStore) Create(ctx context.Context, rec *certificate.BatchRecord) error {
	row := batchRow{
		ID:                rec.ID,
		EventID:           rec.EventID,
		SendEmail:         rec.SendEmail,
		Status:            string(rec.Status),
		TotalParticipants: rec.TotalParticipants,
	}

	if len(rec.TeamIDs) > 0 {
		row.TeamIDs = rec.TeamIDs
	}
	if rec.Message != "" {
		row.Message = &rec.Message
	}
	if rec.TemplatePath != "" {
		row.TemplatePath = &rec.TemplatePath
	}

	// Insert and get the created row back
	var results []batchRow
	data, _, err := s.client.From(batchTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting batch record: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		if results[0].CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339Nano, results[0].CreatedAt); err == nil {
				rec.CreatedAt = t
			}
		}
		if results[0].UpdatedAt != "" {
			if t, err := time.Parse(time.RFC3339Nano, results[0].UpdatedAt); err == nil {
				rec.UpdatedAt = t
			}
		}
	}

	return nil
}

// GetByID retrieves a batch record by its ID. Returns nil, nil if no record
// is found.
func (s *SupabaseBatchStore) GetByID(ctx context.Context, id string) (*certificate.BatchRecord, error) {
	data, _, err := s.client.From(batchTable).Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching batch record: %w", err)
	}

	var rows []batchRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing batch record: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToBatch(&rows[0]), nil
}

// UpdateStatus updates the lifecycle status of a batch.
func (s *SupabaseBatchStore) UpdateStatus(ctx context.Context, id string, status certificate.BatchStatus, errMsg string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	update := map[string]any{
		"status":     string(status),
		"updated_at": now,
	}

	if errMsg != "" {
		update["error_message"] = errMsg
	}

	switch status {
	case certificate.StatusCompleted, certificate.StatusFailed:
		update["completed_at"] = now
	case certificate.StatusQueued:
		// Reset by the reaper; clear any stale error.
		update["error_message"] = nil
	}

	_, _, err := s.client.From(batchTable).Update(update, "", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("updating batch status: %w", err)
	}

	return nil
}

// UpdateProgress records the processed count after a participant.
func (s *SupabaseBatchStore) UpdateProgress(ctx context.Context, id string, processed int) error {
	update := map[string]any{
		"processed":  processed,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}

	_, _, err := s.client.From(batchTable).Update(update, "", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("updating batch progress: %w", err)
	}

	return nil
}

// SetOutcome records the final counts, archive location and delivery report.
func (s *SupabaseBatchStore) SetOutcome(ctx context.Context, id string, outcome certificate.BatchOutcome) error {
	update := map[string]any{
		"rendered_count": outcome.Rendered,
		"failed_count":   outcome.Failed,
		"updated_at":     time.Now().UTC().Format(time.RFC3339Nano),
	}

	if outcome.ArchivePath != "" {
		update["archive_path"] = outcome.ArchivePath
	}
	if outcome.Delivery != nil {
		update["delivery"] = outcome.Delivery
	}

	_, _, err := s.client.From(batchTable).Update(update, "", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("updating batch outcome: %w", err)
	}

	return nil
}

// List retrieves batch records with pagination and filtering.
func (s *SupabaseBatchStore) List(ctx context.Context, filter certificate.ListFilter) ([]*certificate.BatchRecord, int, error) {
	// Apply defaults
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := s.client.From(batchTable).Select("*", "exact", false)

	// Apply filters
	if filter.Status != "" {
		query = query.Eq("status", filter.Status)
	}
	if filter.EventID != "" {
		query = query.Eq("event_id", filter.EventID)
	}

	// Order by created_at desc, paginate
	query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	query = query.Range(offset, offset+filter.PageSize-1, "")

	data, count, err := query.Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("listing batch records: %w", err)
	}

	var rows []batchRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, fmt.Errorf("parsing batch list: %w", err)
	}

	batches := make([]*certificate.BatchRecord, len(rows))
	for i, row := range rows {
		batches[i] = rowToBatch(&row)
	}

	return batches, int(count), nil
}

// ListStale retrieves batches stuck in queued/processing for longer than
// olderThan.
func (s *SupabaseBatchStore) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*certificate.BatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	threshold := olderThan.UTC().Format(time.RFC3339Nano)

	// Query for records with status in (queued, processing) AND updated_at < threshold
	query := s.client.From(batchTable).
		Select("*", "exact", false).
		In("status", []string{string(certificate.StatusQueued), string(certificate.StatusProcessing)}).
		Lt("updated_at", threshold).
		Order("updated_at", &postgrest.OrderOpts{Ascending: true}).
		Range(0, limit-1, "")

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("listing stale batches: %w", err)
	}

	var rows []batchRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing stale batches: %w", err)
	}

	batches := make([]*certificate.BatchRecord, len(rows))
	for i, row := range rows {
		batches[i] = rowToBatch(&row)
	}

	return batches, nil
}

// rowToBatch converts a batchRow to a BatchRecord.
func rowToBatch(row *batchRow) *certificate.BatchRecord {
	rec := &certificate.BatchRecord{
		ID:                row.ID,
		EventID:           row.EventID,
		TeamIDs:           row.TeamIDs,
		SendEmail:         row.SendEmail,
		Status:            certificate.BatchStatus(row.Status),
		TotalParticipants: row.TotalParticipants,
		Processed:         row.Processed,
		RenderedCount:     row.RenderedCount,
		FailedCount:       row.FailedCount,
		Delivery:          row.Delivery,
	}

	if row.Message != nil {
		rec.Message = *row.Message
	}
	if row.ErrorMessage != nil {
		rec.ErrorMessage = *row.ErrorMessage
	}
	if row.TemplatePath != nil {
		rec.TemplatePath = *row.TemplatePath
	}
	if row.ArchivePath != nil {
		rec.ArchivePath = *row.ArchivePath
	}

	if row.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, row.CreatedAt); err == nil {
			rec.CreatedAt = t
		}
	}
	if row.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, row.UpdatedAt); err == nil {
			rec.UpdatedAt = t
		}
	}
	if row.CompletedAt != nil {
		if t, err := time.Parse(time.RFC3339Nano, *row.CompletedAt); err == nil {
			rec.CompletedAt = &t
		}
	}

	return rec
}
