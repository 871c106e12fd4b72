package certificate

import (
	"context"
	"errors"
	"testing"
	"time"

	"certigen/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory BatchStore for tests.
type memoryStore struct {
	records map[string]*BatchRecord
	created []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]*BatchRecord)}
}

func (s *memoryStore) Create(ctx context.Context, rec *BatchRecord) error {
	cp := *rec
	s.records[rec.ID] = &cp
	s.created = append(s.created, rec.ID)
	return nil
}

func (s *memoryStore) GetByID(ctx context.Context, id string) (*BatchRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memoryStore) UpdateStatus(ctx context.Context, id string, status BatchStatus, errMsg string) error {
	if rec, ok := s.records[id]; ok {
		rec.Status = status
		rec.ErrorMessage = errMsg
	}
	return nil
}

func (s *memoryStore) UpdateProgress(ctx context.Context, id string, processed int) error {
	if rec, ok := s.records[id]; ok {
		rec.Processed = processed
	}
	return nil
}

func (s *memoryStore) SetOutcome(ctx context.Context, id string, outcome BatchOutcome) error {
	if rec, ok := s.records[id]; ok {
		rec.RenderedCount = outcome.Rendered
		rec.FailedCount = outcome.Failed
		rec.ArchivePath = outcome.ArchivePath
		rec.Delivery = outcome.Delivery
	}
	return nil
}

func (s *memoryStore) List(ctx context.Context, filter ListFilter) ([]*BatchRecord, int, error) {
	var out []*BatchRecord
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, len(out), nil
}

func (s *memoryStore) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*BatchRecord, error) {
	return nil, nil
}

// memoryArtifacts keeps saved artifacts in a map keyed by relative path.
type memoryArtifacts struct {
	files map[string][]byte
}

func newMemoryArtifacts() *memoryArtifacts {
	return &memoryArtifacts{files: make(map[string][]byte)}
}

func (a *memoryArtifacts) SaveTemplate(batchID string, data []byte) (string, error) {
	path := batchID + "/template.pdf"
	a.files[path] = data
	return path, nil
}

func (a *memoryArtifacts) SaveArchive(batchID string, data []byte) (string, error) {
	path := batchID + "/constancias.zip"
	a.files[path] = data
	return path, nil
}

func (a *memoryArtifacts) ReadTemplate(path string) ([]byte, error) {
	data, ok := a.files[path]
	if !ok {
		return nil, errors.New("no such artifact: " + path)
	}
	return data, nil
}

func (a *memoryArtifacts) AbsPath(path string) string { return "/artifacts/" + path }

// stubRoster returns fixed teams for any event except "missing".
type stubRoster struct {
	teams []Team
}

func (r *stubRoster) ResolveTeams(ctx context.Context, eventID string, teamIDs []string) ([]Team, error) {
	if eventID == "missing" {
		return nil, common.NewNotFoundError("event", eventID)
	}
	return r.teams, nil
}

// stubEnqueuer records enqueued batch IDs.
type stubEnqueuer struct {
	ids []string
	err error
}

func (e *stubEnqueuer) EnqueueRunBatch(batchID string) error {
	if e.err != nil {
		return e.err
	}
	e.ids = append(e.ids, batchID)
	return nil
}

func newTestService(store *memoryStore, enqueuer *stubEnqueuer, teams []Team) *Service {
	engine := &stubEngine{out: validPDF(), strategy: Strategy{Kind: StrategyDraw}}
	return NewService(store, newMemoryArtifacts(), &stubRoster{teams: teams}, enqueuer, engine, NewRenderer(engine, 0))
}

func TestStartBatch(t *testing.T) {
	store := newMemoryStore()
	enqueuer := &stubEnqueuer{}
	svc := newTestService(store, enqueuer, batchTeams())

	resp, err := svc.StartBatch(context.Background(), &StartBatchRequest{
		TemplateBytes: []byte("%PDF-1.4 template"),
		EventID:       "ev1",
		SendEmail:     true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.BatchID)
	assert.Equal(t, string(StatusQueued), resp.Status)
	assert.Equal(t, 3, resp.TotalParticipants)

	// Record persisted before the task is enqueued.
	require.Equal(t, []string{resp.BatchID}, enqueuer.ids)
	rec, err := svc.GetBatch(context.Background(), resp.BatchID)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, rec.Status)
	assert.Equal(t, 3, rec.TotalParticipants)
	assert.NotEmpty(t, rec.TemplatePath)
}

func TestStartBatchRejectsInvalidTemplate(t *testing.T) {
	svc := newTestService(newMemoryStore(), &stubEnqueuer{}, batchTeams())

	_, err := svc.StartBatch(context.Background(), &StartBatchRequest{
		TemplateBytes: []byte("not a pdf"),
		EventID:       "ev1",
	})

	var invalidErr *common.InvalidTemplateError
	require.ErrorAs(t, err, &invalidErr)
}

func TestStartBatchRejectsEmptySelection(t *testing.T) {
	teams := []Team{{ID: "t1", Name: "Alfa", Selected: false, Members: []Participant{{DisplayName: "Ana"}}}}
	enqueuer := &stubEnqueuer{}
	svc := newTestService(newMemoryStore(), enqueuer, teams)

	_, err := svc.StartBatch(context.Background(), &StartBatchRequest{
		TemplateBytes: []byte("%PDF-1.4 template"),
		EventID:       "ev1",
		TeamIDs:       []string{"t9"},
	})

	var emptyErr *common.EmptySelectionError
	require.ErrorAs(t, err, &emptyErr)
	assert.Empty(t, enqueuer.ids, "nothing is enqueued for an empty selection")
}

func TestStartBatchMarksRecordFailedWhenEnqueueFails(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, &stubEnqueuer{err: errors.New("redis down")}, batchTeams())

	_, err := svc.StartBatch(context.Background(), &StartBatchRequest{
		TemplateBytes: []byte("%PDF-1.4 template"),
		EventID:       "ev1",
	})
	require.Error(t, err)

	require.Len(t, store.created, 1)
	rec := store.records[store.created[0]]
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Contains(t, rec.ErrorMessage, "failed to enqueue")
}

func TestGetBatchNotFound(t *testing.T) {
	svc := newTestService(newMemoryStore(), &stubEnqueuer{}, batchTeams())

	_, err := svc.GetBatch(context.Background(), "nope")

	var notFoundErr *common.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestPreview(t *testing.T) {
	svc := newTestService(newMemoryStore(), &stubEnqueuer{}, batchTeams())

	out, err := svc.Preview(context.Background(), []byte("%PDF-1.4 template"), Participant{DisplayName: "Ana", TeamName: "Alfa"}, "¡Felicidades!")
	require.NoError(t, err)
	assert.True(t, HasPDFHeader(out))
}
