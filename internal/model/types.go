// Package model defines shared data structures.
package model

import "time"

// Config defines timer settings.
type Config struct {
	Countdown      int
	SampleInterval time.Duration
	ScrambleLength int
	Sound          bool
	AverageWindow  int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since  *time.Time
	Last   int
	Window int
}

// Solve is one completed timed attempt.
type Solve struct {
	ID         string
	Timestamp  time.Time
	DurationMs int64
}

// SolveResult is the outcome shown right after the stopwatch stops.
// ComparedToAverageMs is nil when there was no prior history to compare with.
type SolveResult struct {
	TimeMs              int64
	ComparedToAverageMs *int64
}

// Faster reports whether the solve beat the trailing average.
func (r SolveResult) Faster() bool {
	return r.ComparedToAverageMs != nil && *r.ComparedToAverageMs < 0
}

// Slower reports whether the solve was behind the trailing average.
func (r SolveResult) Slower() bool {
	return r.ComparedToAverageMs != nil && *r.ComparedToAverageMs > 0
}

// RollingStatsPoint is one sample of a moving-average series.
type RollingStatsPoint struct {
	At              time.Time
	WindowAverageMs float64
}
