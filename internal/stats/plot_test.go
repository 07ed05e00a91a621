package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	err := RenderChart(&buf, Chart{
		Title:  "Progression",
		Name:   "Avg 5",
		Values: []float64{12000, 11000, 11500, 10000, 9000},
		Format: FormatSeconds,
		Fill:   true,
	}, 20, 4, false)
	if err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, 4 rows, legend
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "Progression" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  12.0s │ ") {
		t.Fatalf("expected max label on top row, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "   9.0s │ ") {
		t.Fatalf("expected min label on bottom row, got %q", lines[4])
	}
	for _, row := range lines[1:5] {
		if got := utf8.RuneCountInString(row); got != axisLabelWidth+3+20 {
			t.Fatalf("unexpected row width %d: %q", got, row)
		}
	}
	if lines[5] != "Legend: ⠁ Avg 5" {
		t.Fatalf("unexpected legend %q", lines[5])
	}
}

func TestRenderChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, Chart{Title: "x"}, 20, 4, false); err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRenderChartForceColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	if err := RenderChart(&buf, Chart{Values: []float64{1, 2}}, 10, 2, true); err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}
	if !strings.Contains(buf.String(), accentColor) {
		t.Fatalf("expected accent color in forced output")
	}
}

func TestMarkerColumns(t *testing.T) {
	if cols := markerColumns(3, 11); len(cols) != 3 || cols[0] != 0 || cols[1] != 5 || cols[2] != 10 {
		t.Fatalf("unexpected columns %v", cols)
	}
	if cols := markerColumns(30, 10); cols != nil {
		t.Fatalf("expected no markers when points outnumber columns, got %v", cols)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if got != " @" {
		t.Fatalf("expected min and max glyphs, got %q", got)
	}
}
