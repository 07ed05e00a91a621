package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Chart is a single time series rendered as a braille line chart.
type Chart struct {
	Title  string
	Name   string
	Values []float64
	// Format renders axis labels; nil falls back to two decimals.
	Format func(float64) string
	// Fill shades the area under the line.
	Fill bool
	// Markers highlights every input value, for short individual-solve series.
	Markers bool
}

type seriesMinMaxRange struct {
	min float64
	max float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " │ "
	accentColor         = "\x1b[38;5;208m"
	fillColor           = "\x1b[38;5;94m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// RenderChart renders the chart with width columns and height rows.
// Non-positive width uses the terminal width; forceColor emits ANSI colors
// even when w is not a terminal.
func RenderChart(w io.Writer, c Chart, width, height int, forceColor bool) error {
	if len(c.Values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	values := resampleSeries(c.Values, width)
	minVal, maxVal := seriesMinMaxSingle(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}
	r := seriesMinMaxRange{min: minVal, max: maxVal}

	dotRows := height * 4
	line := makeCells(height, width)
	fill := makeCells(height, width)
	tops := make([]int, width*2)
	for i := range tops {
		tops[i] = dotRows
	}
	prevX, prevY := -1, -1
	for x, v := range values {
		px, py := x*2, valueToRow(v, r.min, r.max, dotRows)
		plot := func(dx, dy int) {
			setBrailleDot(line, dx, dy)
			if dy < tops[dx] {
				tops[dx] = dy
			}
		}
		if prevX >= 0 {
			drawLine(prevX, prevY, px, py, plot)
		} else {
			plot(px, py)
		}
		prevX, prevY = px, py
	}
	if c.Fill {
		for dx, top := range tops {
			for dy := top + 1; dy < dotRows; dy++ {
				if (dx+dy)%2 == 0 {
					setBrailleDot(fill, dx, dy)
				}
			}
		}
	}
	if c.Markers {
		for _, x := range markerColumns(len(c.Values), width) {
			py := valueToRow(values[x], r.min, r.max, dotRows)
			for dy := py - 1; dy <= py+1; dy++ {
				setBrailleDot(line, x*2, dy)
				setBrailleDot(line, x*2+1, dy)
			}
		}
	}

	format := c.Format
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}
	labels := makeAxisLabels(height, r, format)
	useColor := shouldUseColor(w, forceColor)

	if c.Title != "" {
		if _, err := fmt.Fprintln(w, c.Title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			row.WriteString(renderCell(line[y][x], fill[y][x], useColor))
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if c.Name != "" {
		legend := fmt.Sprintf("%c %s", brailleFromMask(0x01), c.Name)
		if useColor {
			legend = accentColor + legend + colorReset
		}
		if _, err := fmt.Fprintln(w, "Legend: "+legend); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func renderCell(lineMask, fillMask uint8, useColor bool) string {
	switch {
	case lineMask != 0 && useColor:
		return accentColor + string(brailleFromMask(lineMask|fillMask)) + colorReset
	case lineMask != 0:
		return string(brailleFromMask(lineMask | fillMask))
	case fillMask != 0 && useColor:
		return fillColor + string(brailleFromMask(fillMask)) + colorReset
	default:
		return string(brailleFromMask(fillMask))
	}
}

// markerColumns maps each of n input points onto its resampled column.
// Points are only marked when every one gets its own column.
func markerColumns(n, width int) []int {
	if n == 0 || n > width {
		return nil
	}
	if n == 1 {
		return []int{0}
	}
	cols := make([]int, n)
	for i := range cols {
		cols[i] = int(math.Round(float64(i) * float64(width-1) / float64(n-1)))
	}
	return cols
}

// makeAxisLabels labels the top, middle and bottom rows.
func makeAxisLabels(height int, r seriesMinMaxRange, format func(float64) string) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = format(r.max)
	if height > 2 {
		labels[height/2] = format((r.min + r.max) / 2)
	}
	if height > 1 {
		labels[height-1] = format(r.min)
	}
	return labels
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := axisLabelWidth + utf8.RuneCountInString(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	if plotWidth < 1 {
		plotWidth = 1
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := int(float64(i) * float64(len(values)) / float64(width))
			end := int(float64(i+1) * float64(len(values)) / float64(width))
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 {
		out[0] = values[0]
		return out
	}
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func seriesMinMaxSingle(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == math.Inf(1) {
		minVal = 0
	}
	if maxVal == math.Inf(-1) {
		maxVal = 0
	}
	return minVal, maxVal
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY < 0 || cellY >= len(cells) {
		return
	}
	if cellX < 0 || cellX >= len(cells[cellY]) {
		return
	}
	dotMask := brailleDotMask(x%2, y%4)
	cells[cellY][cellX] |= dotMask
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
