package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/speedster/internal/model"
)

// Lister returns solves completed at or after since (all when nil), oldest first.
type Lister interface {
	ListSolves(ctx context.Context, since *time.Time) ([]model.Solve, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Solves  []model.Solve
	Summary Summary
	Points  []model.RollingStatsPoint
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st Lister, cfg model.StatsConfig) (Report, error) {
	solves, err := st.ListSolves(ctx, cfg.Since)
	if err != nil {
		return Report{Summary: Summarize(nil, cfg.Window)}, err
	}
	if cfg.Last > 0 && len(solves) > cfg.Last {
		solves = solves[len(solves)-cfg.Last:]
	}
	window := cfg.Window
	if window <= 0 {
		window = DefaultWindow
	}
	return Report{
		Solves:  solves,
		Summary: Summarize(solves, window),
		Points:  ChartPoints(solves, window),
	}, nil
}

// SolvesOn returns the solves completed on the same local calendar day as
// day, newest first.
func SolvesOn(solves []model.Solve, day time.Time) []model.Solve {
	y, m, d := day.Local().Date()
	var out []model.Solve
	for i := len(solves) - 1; i >= 0; i-- {
		sy, sm, sd := solves[i].Timestamp.Local().Date()
		if sy == y && sm == m && sd == d {
			out = append(out, solves[i])
		}
	}
	return out
}
