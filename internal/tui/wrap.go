package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/speedster/internal/scramble"
)

type styledToken struct {
	s       string
	width   int
	isSpace bool
}

// faceStyles colour each move by the sticker colour of the face it turns.
var faceStyles = map[scramble.Face]lipgloss.Style{
	scramble.FaceU: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")),
	scramble.FaceD: lipgloss.NewStyle().Foreground(lipgloss.Color("#F5D547")),
	scramble.FaceF: lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950")),
	scramble.FaceB: lipgloss.NewStyle().Foreground(lipgloss.Color("#4C8DF6")),
	scramble.FaceL: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0883E")),
	scramble.FaceR: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
}

func buildScrambleTokens(moves []scramble.Move) []styledToken {
	out := make([]styledToken, 0, len(moves)*2)
	for i, mv := range moves {
		if i > 0 {
			out = append(out, styledToken{s: " ", width: 1, isSpace: true})
		}
		text := mv.String()
		style, ok := faceStyles[mv.Face]
		if !ok {
			style = pendingStyle
		}
		out = append(out, styledToken{
			s:     style.Render(text),
			width: runewidth.StringWidth(text),
		})
	}
	return out
}

func renderTokens(tokens []styledToken) string {
	var b strings.Builder
	for _, item := range tokens {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapTokens breaks lines at the last space that keeps each line within width.
func wrapTokens(tokens []styledToken, width int) string {
	if width <= 0 {
		return renderTokens(tokens)
	}
	var out strings.Builder
	line := make([]styledToken, 0, len(tokens))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(tokens); {
		item := tokens[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderTokens(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledToken{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderTokens(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderTokens(line))
	return out.String()
}

func lineWidthOf(line []styledToken) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledToken) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
