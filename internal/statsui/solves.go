package statsui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/speedster/internal/model"
	"github.com/verte-zerg/speedster/internal/stats"
)

func (m *Model) updateSolves(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevDay):
		m.shiftDay(-1)
		return m, nil
	case key.Matches(msg, m.keys.NextDay):
		m.shiftDay(1)
		return m, nil
	case key.Matches(msg, m.keys.AllDays):
		m.day = nil
		m.refreshSolveList()
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		return m.startDeleteOne()
	case key.Matches(msg, m.keys.DeleteAll):
		return m.startDeleteAll()
	}
	switch msg.String() {
	case "g", "home":
		m.solveTable.GotoTop()
		return m, nil
	case "G", "end":
		m.solveTable.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.solveTable, cmd = m.solveTable.Update(msg)
	return m, cmd
}

// shiftDay moves the day filter. From the all-days list it starts at the
// day of the newest solve, or today when there are none.
func (m *Model) shiftDay(delta int) {
	var day time.Time
	switch {
	case m.day != nil:
		day = m.day.AddDate(0, 0, delta)
	case len(m.report.Solves) > 0:
		day = m.report.Solves[len(m.report.Solves)-1].Timestamp
	default:
		day = m.now()
	}
	d := startOfDay(day)
	m.day = &d
	m.refreshSolveList()
}

func (m *Model) refreshSolveList() {
	if m.day != nil {
		m.listed = stats.SolvesOn(m.report.Solves, *m.day)
	} else {
		m.listed = make([]model.Solve, 0, len(m.report.Solves))
		for i := len(m.report.Solves) - 1; i >= 0; i-- {
			m.listed = append(m.listed, m.report.Solves[i])
		}
	}
	rows := buildSolveRows(m.listed)
	m.solveTable.SetRows(rows)
	if c := m.solveTable.Cursor(); len(rows) > 0 && c >= len(rows) {
		m.solveTable.SetCursor(len(rows) - 1)
	}
	m.tableLayout.rowCount = len(rows)
}

func (m *Model) selectedSolve() (model.Solve, bool) {
	c := m.solveTable.Cursor()
	if c < 0 || c >= len(m.listed) {
		return model.Solve{}, false
	}
	return m.listed[c], true
}

func (m *Model) startDeleteOne() (tea.Model, tea.Cmd) {
	solve, ok := m.selectedSolve()
	if !ok {
		m.notice = "No solve selected."
		return m, nil
	}
	m.confirm = confirmDeleteOne
	m.pending = solve
	return m, nil
}

func (m *Model) startDeleteAll() (tea.Model, tea.Cmd) {
	n, err := m.store.Count(context.Background())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to count solves: %v", err)
		return m, nil
	}
	if n == 0 {
		m.notice = "No solves to delete."
		return m, nil
	}
	m.confirm = confirmDeleteAll
	m.pendingCount = n
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.runDelete()
		return m, nil
	case "n", "N", "esc":
		m.confirm = confirmNone
		return m, nil
	}
	return m, nil
}

func (m *Model) runDelete() {
	ctx := context.Background()
	kind := m.confirm
	m.confirm = confirmNone
	switch kind {
	case confirmDeleteOne:
		if err := m.store.Delete(ctx, m.pending.ID); err != nil {
			m.refreshReport()
			m.errMsg = fmt.Sprintf("failed to delete solve: %v", err)
			return
		}
		m.refreshReport()
		m.notice = fmt.Sprintf("Deleted solve %s.", stats.FormatTime(m.pending.DurationMs))
	case confirmDeleteAll:
		if err := m.store.DeleteAll(ctx); err != nil {
			m.refreshReport()
			m.errMsg = fmt.Sprintf("failed to delete solves: %v", err)
			return
		}
		m.refreshReport()
		m.notice = fmt.Sprintf("Deleted %d solve(s).", m.pendingCount)
	}
	m.pending = model.Solve{}
	m.pendingCount = 0
}

func (m *Model) renderConfirmModal() string {
	var title, text string
	switch m.confirm {
	case confirmDeleteOne:
		title = "Delete Solve"
		text = fmt.Sprintf("Delete the %s solve from %s?",
			stats.FormatTime(m.pending.DurationMs),
			m.pending.Timestamp.Local().Format("2006-01-02 15:04:05"))
	case confirmDeleteAll:
		title = "Delete All Solves"
		text = fmt.Sprintf("This will permanently delete all %d solve(s).", m.pendingCount)
	}
	body := []string{
		cardValueStyle.Render(title),
		text,
		headerStyle.Render("y/enter to confirm / n/esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderSolves() string {
	label := fmt.Sprintf("All days (%d solves)", len(m.listed))
	if m.day != nil {
		label = fmt.Sprintf("Day: %s (%d solves)", m.day.Format(dayLayout), len(m.listed))
	}
	header := headerStyle.Render(truncateLine(label, m.width))
	if len(m.listed) == 0 {
		empty := "No solves yet."
		if m.day != nil {
			empty = "No solves on this day."
		}
		return header + "\n" + empty
	}
	return header + "\n" + tableMutedStyle.Render(m.solveTable.View())
}

func solveColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Completed", Width: 19},
		{Title: "Time", Width: 10},
		{Title: "ID", Width: 36},
	}
}

func buildSolveRows(solves []model.Solve) []table.Row {
	rows := make([]table.Row, 0, len(solves))
	for i, s := range solves {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", len(solves)-i),
			s.Timestamp.Local().Format("2006-01-02 15:04:05"),
			stats.FormatTime(s.DurationMs),
			s.ID,
		})
	}
	return rows
}

func buildSolveTable(solves []model.Solve, width, height int) table.Model {
	t := table.New(
		table.WithColumns(solveColumns()),
		table.WithRows(buildSolveRows(solves)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(solveTableStyles())
	return t
}

func (m *Model) setSolveTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.solveTable.SetWidth(width)
	m.solveTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustSolveTableHeight(height)
	if m.tableLayout.height != viewportHeight {
		m.tableLayout.height = viewportHeight
		m.solveTable.SetHeight(viewportHeight)
	}
}

func solveTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// adjustSolveTableHeight corrects for header and border rows so the rendered
// table fills exactly bodyHeight lines.
func (m *Model) adjustSolveTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.solveTable.Height()
	viewHeight := lipgloss.Height(m.solveTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.solveTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.solveTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Local().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.Local)
}
