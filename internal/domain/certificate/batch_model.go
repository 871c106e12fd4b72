package certificate

import "time"

// BatchStatus represents the lifecycle state of a certificate batch.
type BatchStatus string

const (
	StatusQueued     BatchStatus = "queued"
	StatusProcessing BatchStatus = "processing"
	StatusCompleted  BatchStatus = "completed"
	StatusFailed     BatchStatus = "failed"
)

// BatchRecord is the persisted audit/progress record of one batch run. The
// store is the source of truth; the queue only carries the batch ID.
type BatchRecord struct {
	ID        string   `json:"id"`
	EventID   string   `json:"event_id"`
	TeamIDs   []string `json:"team_ids,omitempty"`
	SendEmail bool     `json:"send_email"`
	Message   string   `json:"message,omitempty"`

	Status       BatchStatus `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`

	// Progress. Total is fixed at batch start; Processed increases
	// monotonically after each participant.
	TotalParticipants int `json:"total_participants"`
	Processed         int `json:"processed"`

	// Outcome.
	RenderedCount int             `json:"rendered_count"`
	FailedCount   int             `json:"failed_count"`
	Delivery      *DeliveryReport `json:"delivery,omitempty"`

	// Artifact locations under the configured storage directory.
	TemplatePath string `json:"template_path,omitempty"`
	ArchivePath  string `json:"archive_path,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Percent returns the progress percentage, 0-100.
func (b *BatchRecord) Percent() int {
	if b.TotalParticipants == 0 {
		return 0
	}
	return b.Processed * 100 / b.TotalParticipants
}

// BatchOutcome carries the final counts and artifact location of a batch.
type BatchOutcome struct {
	Rendered    int
	Failed      int
	ArchivePath string
	Delivery    *DeliveryReport
}

// ListFilter defines pagination and filtering options for listing batches.
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	EventID  string `form:"event_id"`
}

// ListResponse wraps a paginated list of batch records.
type ListResponse struct {
	Batches  []*BatchRecord `json:"batches"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}
