package certificate

import (
	"context"
	"log/slog"

	"certigen/internal/common"
)

// ProgressFunc receives the monotonically increasing processed count after
// each participant. total is fixed at batch start.
type ProgressFunc func(processed, total int)

// RunBatch renders one certificate per participant of the selected teams,
// strictly in team-then-member order. A single participant's failure is
// recorded and does not abort the batch. The context is checked only between
// participants; a partially rendered document is never a valid partial
// result.
//
// Returns EmptySelectionError before any rendering when the selection yields
// zero participants.
func RunBatch(ctx context.Context, teams []Team, renderer *Renderer, tmpl *Template, strategy Strategy, opts RenderOptions, progress ProgressFunc) (*BatchResult, error) {
	participants := Flatten(teams)
	if len(participants) == 0 {
		return nil, common.NewEmptySelectionError()
	}

	total := len(participants)
	result := &BatchResult{}

	for i, p := range participants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cert, err := renderer.Render(ctx, tmpl, strategy, p, opts)
		if err != nil {
			slog.Warn("certificate render failed",
				"participant", p.DisplayName,
				"team", p.TeamName,
				"kind", failureKind(err),
				"error", err,
			)
			result.Failures = append(result.Failures, Failure{
				Participant: p,
				ErrorKind:   failureKind(err),
				Err:         err,
			})
		} else {
			result.Certificates = append(result.Certificates, cert)
		}

		if progress != nil {
			progress(i+1, total)
		}
	}

	return result, nil
}
