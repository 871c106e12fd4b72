package certificate

import (
	"context"
	"errors"
	"testing"

	"certigen/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchTeams() []Team {
	return []Team{
		{
			ID: "t1", Name: "Alfa", Selected: true,
			Members: []Participant{
				{ID: "m1", DisplayName: "Ana"},
				{ID: "m2", DisplayName: "Beto"},
			},
		},
		{
			ID: "t2", Name: "Beta", Selected: true,
			Members: []Participant{
				{ID: "m3", DisplayName: "Carla"},
			},
		},
	}
}

func TestRunBatchOrderAndCompleteness(t *testing.T) {
	engine := &stubEngine{out: validPDF()}
	renderer := NewRenderer(engine, 0)

	result, err := RunBatch(context.Background(), batchTeams(), renderer, testTemplate(t), Strategy{Kind: StrategyDraw}, RenderOptions{}, nil)
	require.NoError(t, err)

	require.Len(t, result.Certificates, 3)
	assert.Empty(t, result.Failures)

	// Certificate order matches team-then-member order.
	names := make([]string, len(result.Certificates))
	for i, cert := range result.Certificates {
		names[i] = cert.Participant.DisplayName
	}
	assert.Equal(t, []string{"Ana", "Beto", "Carla"}, names)
}

func TestRunBatchEmptySelection(t *testing.T) {
	engine := &stubEngine{out: validPDF()}
	renderer := NewRenderer(engine, 0)

	teams := []Team{{ID: "t1", Name: "Alfa", Selected: false, Members: []Participant{{DisplayName: "Ana"}}}}

	_, err := RunBatch(context.Background(), teams, renderer, testTemplate(t), Strategy{}, RenderOptions{}, nil)

	var emptyErr *common.EmptySelectionError
	require.ErrorAs(t, err, &emptyErr)
	assert.Empty(t, engine.renders, "nothing renders for an empty selection")
}

func TestRunBatchContainsPerParticipantFailures(t *testing.T) {
	engine := &stubEngine{
		renderFn: func(p Participant) ([]byte, error) {
			if p.DisplayName == "Beto" {
				return nil, errors.New("render exploded")
			}
			return validPDF(), nil
		},
	}
	renderer := NewRenderer(engine, 0)

	result, err := RunBatch(context.Background(), batchTeams(), renderer, testTemplate(t), Strategy{}, RenderOptions{}, nil)
	require.NoError(t, err)

	require.Len(t, result.Certificates, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Beto", result.Failures[0].Participant.DisplayName)
	assert.Equal(t, FailureKindRender, result.Failures[0].ErrorKind)

	// Siblings still rendered, in order.
	assert.Equal(t, "Ana", result.Certificates[0].Participant.DisplayName)
	assert.Equal(t, "Carla", result.Certificates[1].Participant.DisplayName)
}

func TestRunBatchRecordsValidationFailures(t *testing.T) {
	engine := &stubEngine{out: validPDF()}
	renderer := NewRenderer(engine, 0)

	teams := []Team{{
		ID: "t1", Name: "Alfa", Selected: true,
		Members: []Participant{
			{ID: "m1", DisplayName: ""},
			{ID: "m2", DisplayName: "Beto"},
		},
	}}

	result, err := RunBatch(context.Background(), teams, renderer, testTemplate(t), Strategy{}, RenderOptions{}, nil)
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, FailureKindValidation, result.Failures[0].ErrorKind)
	require.Len(t, result.Certificates, 1)
}

func TestRunBatchProgress(t *testing.T) {
	engine := &stubEngine{out: validPDF()}
	renderer := NewRenderer(engine, 0)

	type tick struct{ processed, total int }
	var ticks []tick

	_, err := RunBatch(context.Background(), batchTeams(), renderer, testTemplate(t), Strategy{}, RenderOptions{}, func(processed, total int) {
		ticks = append(ticks, tick{processed, total})
	})
	require.NoError(t, err)

	// Progress fires once per participant, monotonically, against a total
	// fixed at batch start.
	assert.Equal(t, []tick{{1, 3}, {2, 3}, {3, 3}}, ticks)
}

func TestRunBatchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	engine := &stubEngine{
		renderFn: func(p Participant) ([]byte, error) {
			cancel() // cancel after the first participant
			return validPDF(), nil
		},
	}
	renderer := NewRenderer(engine, 0)

	_, err := RunBatch(ctx, batchTeams(), renderer, testTemplate(t), Strategy{}, RenderOptions{}, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, engine.renders, 1, "cancellation is observed between participants")
}
