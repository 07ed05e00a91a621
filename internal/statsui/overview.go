package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/speedster/internal/model"
	"github.com/verte-zerg/speedster/internal/stats"
)

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Solves) == 0 {
		return renderEmptyState()
	}
	summary := renderSummaryCards(report.Summary, width)
	trend := renderTrend(report.Solves, window, width)
	return strings.TrimRight(summary+"\n\n"+trend, "\n")
}

func renderEmptyState() string {
	return cardValueStyle.Render("No solves yet") + "\n" +
		headerStyle.Render("Complete some solves to see your progression")
}

func renderSummaryCards(s stats.Summary, width int) string {
	cards := []string{
		metricCard("Total Solves", fmt.Sprintf("%d", s.Count)),
		metricCard("Best Time", stats.FormatOptional(float64(s.Best), s.HasBest)),
		metricCard(fmt.Sprintf("Avg %d", s.Window), stats.FormatOptional(s.AvgLastN, s.HasAvgLast)),
		metricCard("Avg All", stats.FormatOptional(s.AvgAll, s.HasAvgAll)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderTrend(solves []model.Solve, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderTrend(&buf, solves, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render progression: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}
