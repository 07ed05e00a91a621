// Package stats contains solve statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"io"
	"iter"
	"math"
	"strings"

	"github.com/verte-zerg/speedster/internal/model"
)

// DefaultWindow is the trailing average and rolling chart window size.
const DefaultWindow = 5

const sparkChars = " .:-=+*#%@"

// BestTime returns the fastest duration in the history.
func BestTime(solves []model.Solve) (int64, bool) {
	if len(solves) == 0 {
		return 0, false
	}
	best := solves[0].DurationMs
	for _, s := range solves[1:] {
		if s.DurationMs < best {
			best = s.DurationMs
		}
	}
	return best, true
}

// AverageOfLastN returns the mean of the n most recent solves, or of every
// solve when fewer than n exist. solves must be ordered oldest first.
func AverageOfLastN(solves []model.Solve, n int) (float64, bool) {
	if len(solves) == 0 || n <= 0 {
		return 0, false
	}
	if len(solves) > n {
		solves = solves[len(solves)-n:]
	}
	return mean(solves), true
}

// AverageAll returns the mean over the whole history.
func AverageAll(solves []model.Solve) (float64, bool) {
	if len(solves) == 0 {
		return 0, false
	}
	return mean(solves), true
}

// RollingWindowSeries yields one point per full window of consecutive
// solves, stamped with the newest solve in the window. The sequence is
// empty when there are fewer solves than window and is recomputed on every
// iteration.
func RollingWindowSeries(solves []model.Solve, window int) iter.Seq[model.RollingStatsPoint] {
	return func(yield func(model.RollingStatsPoint) bool) {
		if window <= 0 || len(solves) < window {
			return
		}
		var sum int64
		for i := 0; i < window; i++ {
			sum += solves[i].DurationMs
		}
		for i := window - 1; i < len(solves); i++ {
			if i >= window {
				sum += solves[i].DurationMs - solves[i-window].DurationMs
			}
			point := model.RollingStatsPoint{
				At:              solves[i].Timestamp,
				WindowAverageMs: float64(sum) / float64(window),
			}
			if !yield(point) {
				return
			}
		}
	}
}

// ChartPoints returns the rolling series when there is enough history for
// one full window, otherwise one point per individual solve.
func ChartPoints(solves []model.Solve, window int) []model.RollingStatsPoint {
	if window > 0 && len(solves) >= window {
		points := make([]model.RollingStatsPoint, 0, len(solves)-window+1)
		for p := range RollingWindowSeries(solves, window) {
			points = append(points, p)
		}
		return points
	}
	points := make([]model.RollingStatsPoint, len(solves))
	for i, s := range solves {
		points[i] = model.RollingStatsPoint{At: s.Timestamp, WindowAverageMs: float64(s.DurationMs)}
	}
	return points
}

// Comparison returns durationMs minus the trailing average of prior, or nil
// when prior is empty. The average is truncated to whole milliseconds.
func Comparison(durationMs int64, prior []model.Solve, window int) *int64 {
	avg, ok := AverageOfLastN(prior, window)
	if !ok {
		return nil
	}
	diff := durationMs - int64(avg)
	return &diff
}

// Summary holds the headline numbers shown by the displays.
type Summary struct {
	Count      int
	Window     int
	Best       int64
	HasBest    bool
	AvgLastN   float64
	HasAvgLast bool
	AvgAll     float64
	HasAvgAll  bool
}

// Summarize computes a Summary for the history.
func Summarize(solves []model.Solve, window int) Summary {
	if window <= 0 {
		window = DefaultWindow
	}
	s := Summary{Count: len(solves), Window: window}
	s.Best, s.HasBest = BestTime(solves)
	s.AvgLastN, s.HasAvgLast = AverageOfLastN(solves, window)
	s.AvgAll, s.HasAvgAll = AverageAll(solves)
	return s
}

// Reader reads the full solve history ordered oldest first.
type Reader interface {
	QueryAll(ctx context.Context) ([]model.Solve, error)
}

// LoadSummary reads the history and summarizes it. On a read failure the
// returned Summary reports no data and the error is passed back.
func LoadSummary(ctx context.Context, r Reader, window int) (Summary, []model.Solve, error) {
	solves, err := r.QueryAll(ctx)
	if err != nil {
		return Summarize(nil, window), nil, err
	}
	return Summarize(solves, window), solves, nil
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Durations returns the durations of the last n solves as floats, oldest first.
func Durations(solves []model.Solve, n int) []float64 {
	if n > 0 && len(solves) > n {
		solves = solves[len(solves)-n:]
	}
	out := make([]float64, len(solves))
	for i, s := range solves {
		out[i] = float64(s.DurationMs)
	}
	return out
}

// RenderSummary prints a summary block for the history.
func RenderSummary(w io.Writer, solves []model.Solve, window int) error {
	if len(solves) == 0 {
		_, err := fmt.Fprintln(w, "No solves yet.")
		return err
	}
	s := Summarize(solves, window)
	lines := []string{
		"Summary",
		fmt.Sprintf("Total Solves: %d", s.Count),
		fmt.Sprintf("Best Time: %s", FormatOptional(float64(s.Best), s.HasBest)),
		fmt.Sprintf("Avg %d: %s", s.Window, FormatOptional(s.AvgLastN, s.HasAvgLast)),
		fmt.Sprintf("Avg All: %s", FormatOptional(s.AvgAll, s.HasAvgAll)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints the progression chart sized to a given total width.
func RenderTrend(w io.Writer, solves []model.Solve, window, totalWidth, height int, useColor bool) error {
	if len(solves) == 0 {
		return nil
	}
	points := ChartPoints(solves, window)
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.WindowAverageMs
	}
	rolling := window > 0 && len(solves) >= window
	name := "Time"
	if rolling {
		name = fmt.Sprintf("Avg %d", window)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	title := fmt.Sprintf("Progression (%s to %s)",
		points[0].At.Local().Format("Jan 2"),
		points[len(points)-1].At.Local().Format("Jan 2"))
	return RenderChart(w, Chart{
		Title:   title,
		Name:    name,
		Values:  values,
		Format:  FormatSeconds,
		Fill:    true,
		Markers: !rolling,
	}, width, height, useColor)
}

func mean(solves []model.Solve) float64 {
	var sum int64
	for _, s := range solves {
		sum += s.DurationMs
	}
	return float64(sum) / float64(len(solves))
}
