package certificate

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskTypeRunBatch is the asynq task type for executing a certificate batch.
const TaskTypeRunBatch = "batch:run"

// RunBatchPayload is the serialized payload for a batch execution task.
type RunBatchPayload struct {
	BatchID string `json:"batch_id"`
}

// NewRunBatchTask creates a new asynq task for executing a batch.
func NewRunBatchTask(batchID string) (*asynq.Task, error) {
	payload, err := json.Marshal(RunBatchPayload{BatchID: batchID})
	if err != nil {
		return nil, fmt.Errorf("marshaling task payload: %w", err)
	}
	return asynq.NewTask(TaskTypeRunBatch, payload), nil
}

// ParseRunBatchPayload deserializes the task payload.
func ParseRunBatchPayload(data []byte) (*RunBatchPayload, error) {
	var p RunBatchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling task payload: %w", err)
	}
	return &p, nil
}
