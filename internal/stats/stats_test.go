package stats

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/speedster/internal/model"
)

func solvesOf(durations ...int64) []model.Solve {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	out := make([]model.Solve, len(durations))
	for i, d := range durations {
		out[i] = model.Solve{
			ID:         string(rune('a' + i)),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			DurationMs: d,
		}
	}
	return out
}

func TestAverageOfLastN(t *testing.T) {
	cases := []struct {
		name      string
		durations []int64
		n         int
		want      float64
		ok        bool
	}{
		{"exact window", []int64{1000, 2000, 3000, 4000, 5000}, 5, 3000, true},
		{"fewer than window", []int64{500, 1500, 1000}, 5, 1000, true},
		{"trailing only", []int64{9000, 1000, 2000, 3000, 4000, 5000}, 5, 3000, true},
		{"empty", nil, 5, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := AverageOfLastN(solvesOf(tc.durations...), tc.n)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("expected %v/%v, got %v/%v", tc.want, tc.ok, got, ok)
			}
		})
	}
}

func TestBestTime(t *testing.T) {
	best, ok := BestTime(solvesOf(3000, 1000, 2000))
	if !ok || best != 1000 {
		t.Fatalf("expected 1000, got %d (ok=%v)", best, ok)
	}
	if _, ok := BestTime(nil); ok {
		t.Fatalf("expected no best time for empty history")
	}
}

func TestAverageAll(t *testing.T) {
	avg, ok := AverageAll(solvesOf(1000, 2000, 4500))
	if !ok || avg != 2500 {
		t.Fatalf("expected 2500, got %v", avg)
	}
	if _, ok := AverageAll(nil); ok {
		t.Fatalf("expected no average for empty history")
	}
}

func TestRollingWindowSeries(t *testing.T) {
	solves := solvesOf(1000, 2000, 3000, 4000, 5000, 6000, 7000)
	var got []model.RollingStatsPoint
	for p := range RollingWindowSeries(solves, 5) {
		got = append(got, p)
	}
	want := []float64{3000, 4000, 5000}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i, p := range got {
		if p.WindowAverageMs != want[i] {
			t.Fatalf("point %d: expected %v, got %v", i, want[i], p.WindowAverageMs)
		}
		if !p.At.Equal(solves[i+4].Timestamp) {
			t.Fatalf("point %d: expected timestamp of newest solve in window", i)
		}
	}
}

func TestRollingWindowSeriesRestartable(t *testing.T) {
	seq := RollingWindowSeries(solvesOf(1000, 2000, 3000, 4000, 5000, 6000), 5)
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if a, b := count(), count(); a != 2 || b != 2 {
		t.Fatalf("expected 2 points on each pass, got %d and %d", a, b)
	}
	for p := range seq {
		if p.WindowAverageMs != 3000 {
			t.Fatalf("expected first point 3000, got %v", p.WindowAverageMs)
		}
		break
	}
}

func TestRollingWindowSeriesShortHistory(t *testing.T) {
	for range RollingWindowSeries(solvesOf(1000, 2000), 5) {
		t.Fatalf("expected empty series")
	}
}

func TestChartPointsFallsBackToIndividualSolves(t *testing.T) {
	points := ChartPoints(solvesOf(1200, 1100, 1300), 5)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[1].WindowAverageMs != 1100 {
		t.Fatalf("expected raw duration, got %v", points[1].WindowAverageMs)
	}
	if len(ChartPoints(solvesOf(1, 2, 3, 4, 5, 6), 5)) != 2 {
		t.Fatalf("expected rolling points once a window is full")
	}
	if len(ChartPoints(nil, 5)) != 0 {
		t.Fatalf("expected no points for empty history")
	}
}

func TestComparison(t *testing.T) {
	if diff := Comparison(1000, nil, 5); diff != nil {
		t.Fatalf("expected no comparison for empty history, got %d", *diff)
	}
	diff := Comparison(2500, solvesOf(1000, 2000, 3000, 4000, 5000), 5)
	if diff == nil || *diff != -500 {
		t.Fatalf("expected -500, got %v", diff)
	}
	// 1000.5 average truncates to 1000
	diff = Comparison(1200, solvesOf(1000, 1001), 5)
	if diff == nil || *diff != 200 {
		t.Fatalf("expected 200, got %v", diff)
	}
}

type failingReader struct{}

func (failingReader) QueryAll(context.Context) ([]model.Solve, error) {
	return nil, errors.New("disk gone")
}

type sliceReader []model.Solve

func (r sliceReader) QueryAll(context.Context) ([]model.Solve, error) {
	return r, nil
}

func TestLoadSummary(t *testing.T) {
	sum, solves, err := LoadSummary(context.Background(), sliceReader(solvesOf(3000, 1000, 2000)), 5)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(solves) != 3 || sum.Count != 3 || sum.Best != 1000 || sum.AvgAll != 2000 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	sum, solves, err = LoadSummary(context.Background(), failingReader{}, 5)
	if err == nil {
		t.Fatalf("expected read error")
	}
	if solves != nil || sum.HasBest || sum.HasAvgLast || sum.HasAvgAll {
		t.Fatalf("expected empty summary on failure, got %+v", sum)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, solvesOf(10000, 12500), 5); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Total Solves: 2", "Best Time: 10.000", "Avg 5: 11.250", "Avg All: 11.250"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, nil, 5); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No solves yet.\n" {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}

func TestRenderTrendLabelsSeries(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTrend(&buf, solvesOf(1000, 2000, 3000, 4000, 5000, 6000), 5, 60, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Legend: ⠁ Avg 5") {
		t.Fatalf("expected rolling legend, got %q", buf.String())
	}

	buf.Reset()
	if err := RenderTrend(&buf, solvesOf(1000, 2000), 5, 60, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Legend: ⠁ Time") {
		t.Fatalf("expected individual legend, got %q", buf.String())
	}
}
