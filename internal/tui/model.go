// Package tui provides the Bubble Tea timer interface.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/speedster/internal/countdown"
	"github.com/verte-zerg/speedster/internal/stats"
	"github.com/verte-zerg/speedster/internal/stopwatch"
	"github.com/verte-zerg/speedster/internal/timer"
)

const sparkSolves = 20

// Model implements the Bubble Tea timer UI.
type Model struct {
	machine *timer.Machine
	history stats.Reader

	width  int
	height int

	summary stats.Summary
	spark   string
	err     error
}

var (
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	fasterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950")).Bold(true)
	slowerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a timer TUI model. history is read for the footer
// averages and is normally the same store the machine writes to.
func NewModel(machine *timer.Machine, history stats.Reader) *Model {
	m := &Model{
		machine: machine,
		history: history,
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case " ", "enter":
			return m, m.tap()
		default:
			return m, nil
		}
	case countdown.TickMsg, stopwatch.SampleMsg:
		return m, m.machine.Update(msg)
	default:
		return m, nil
	}
}

func (m *Model) tap() tea.Cmd {
	cmd, err := m.machine.Tap(context.Background())
	m.err = err
	if err != nil {
		log.Printf("solve: %v", err)
	}
	if _, ok := m.machine.Phase().(timer.ShowingResult); ok {
		m.loadFooterStats()
	}
	return cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{m.renderMain()}
	if m.err != nil {
		sections = append(sections, errorStyle.Render(m.err.Error()))
	}
	sections = append(sections, "", pendingStyle.Render(m.renderHint()))
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderMain() string {
	switch p := m.machine.Phase().(type) {
	case timer.Idle:
		return lipgloss.JoinVertical(lipgloss.Center,
			m.renderScramble(),
			"",
			timeStyle.Render(stats.FormatTime(0)),
		)
	case timer.Countdown:
		return accentStyle.Render(fmt.Sprintf("%d", p.Remaining))
	case timer.Running:
		return timeStyle.Render(stats.FormatTime(p.ElapsedMs))
	case timer.ShowingResult:
		lines := []string{resultStyle(p.Result.Faster(), p.Result.Slower()).Render(stats.FormatTime(p.Result.TimeMs))}
		if cmp := renderComparison(p.Result.ComparedToAverageMs, m.machine.Window()); cmp != "" {
			lines = append(lines, cmp)
		}
		return lipgloss.JoinVertical(lipgloss.Center, lines...)
	default:
		return ""
	}
}

func (m *Model) renderScramble() string {
	tokens := buildScrambleTokens(m.machine.Scramble())
	if m.width == 0 {
		return renderTokens(tokens)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	return wrapTokens(tokens, contentWidth)
}

func (m *Model) renderHint() string {
	switch m.machine.Phase().(type) {
	case timer.Idle:
		return "space: start countdown · q: quit"
	case timer.Countdown:
		return "space: cancel"
	case timer.Running:
		return "space: stop"
	default:
		return "space: next scramble · q: quit"
	}
}

func resultStyle(faster, slower bool) lipgloss.Style {
	switch {
	case faster:
		return fasterStyle
	case slower:
		return slowerStyle
	default:
		return accentStyle
	}
}

func renderComparison(diff *int64, window int) string {
	if diff == nil {
		return ""
	}
	switch {
	case *diff < 0:
		return fasterStyle.Render(fmt.Sprintf("%s faster than Avg %d", stats.FormatDifference(*diff), window))
	case *diff > 0:
		return slowerStyle.Render(fmt.Sprintf("%s slower than Avg %d", stats.FormatDifference(*diff), window))
	default:
		return accentStyle.Render(fmt.Sprintf("same as Avg %d", window))
	}
}

func (m *Model) loadFooterStats() {
	summary, solves, err := stats.LoadSummary(context.Background(), m.history, m.machine.Window())
	m.summary = summary
	m.spark = stats.Sparkline(stats.Durations(solves, sparkSolves))
	if err != nil {
		log.Printf("failed to load solve stats: %v", err)
		if m.err == nil {
			m.err = fmt.Errorf("%w: %w", timer.ErrStoreRead, err)
		}
	}
}

func (m *Model) renderFooter() string {
	s := m.summary
	segments := []string{
		fmt.Sprintf("Avg %d %s", s.Window, stats.FormatOptional(s.AvgLastN, s.HasAvgLast)),
		fmt.Sprintf("Avg All %s", stats.FormatOptional(s.AvgAll, s.HasAvgAll)),
		fmt.Sprintf("Best %s", stats.FormatOptional(float64(s.Best), s.HasBest)),
		fmt.Sprintf("Solves %d", s.Count),
	}
	if m.spark != "" {
		segments = append(segments, "["+m.spark+"]")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
