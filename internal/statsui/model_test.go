package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/speedster/internal/model"
	"github.com/verte-zerg/speedster/internal/stats"
)

type fakeStore struct {
	solves     []model.Solve
	listErr    error
	deleted    []string
	deletedAll bool
}

func (f *fakeStore) ListSolves(_ context.Context, since *time.Time) ([]model.Solve, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Solve
	for _, s := range f.solves {
		if since == nil || !s.Timestamp.Before(*since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Count(context.Context) (int, error) {
	return len(f.solves), nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	for i, s := range f.solves {
		if s.ID == id {
			f.solves = append(f.solves[:i], f.solves[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) DeleteAll(context.Context) error {
	f.solves = nil
	f.deletedAll = true
	return nil
}

var day1 = time.Date(2024, 4, 10, 9, 0, 0, 0, time.Local)

func sampleStore() *fakeStore {
	return &fakeStore{solves: []model.Solve{
		{ID: "s1", Timestamp: day1, DurationMs: 15000},
		{ID: "s2", Timestamp: day1.Add(time.Hour), DurationMs: 14000},
		{ID: "s3", Timestamp: day1.Add(24 * time.Hour), DurationMs: 12500},
	}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newSizedModel(t *testing.T, st Store) *Model {
	t.Helper()
	m := NewModel(st, model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestOverviewEmptyState(t *testing.T) {
	out := renderOverview(stats.Report{}, 5, 100)
	if !strings.Contains(out, "No solves yet") || !strings.Contains(out, "Complete some solves to see your progression") {
		t.Fatalf("unexpected empty state: %q", out)
	}
}

func TestSummaryCards(t *testing.T) {
	st := sampleStore()
	out := renderSummaryCards(stats.Summarize(st.solves, 5), 100)
	for _, want := range []string{"Total Solves", "3", "Best Time", "12.500", "Avg 5", "13.833", "Avg All"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in cards: %q", want, out)
		}
	}
}

func TestOverviewShowsChart(t *testing.T) {
	m := newSizedModel(t, sampleStore())
	view := m.View()
	if !strings.Contains(view, "Total Solves") || !strings.Contains(view, "Legend:") {
		t.Fatalf("expected cards and chart in overview: %q", view)
	}
}

func TestDeleteSelectedSolveWithConfirmation(t *testing.T) {
	st := sampleStore()
	m := newSizedModel(t, st)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabSolves {
		t.Fatalf("expected solves tab")
	}
	if !strings.Contains(m.View(), "All days (3 solves)") {
		t.Fatalf("expected all days list")
	}

	m.Update(runes("d"))
	if m.confirm != confirmDeleteOne {
		t.Fatalf("expected delete confirmation")
	}
	if !strings.Contains(m.View(), "Delete the 12.500 solve") {
		t.Fatalf("expected newest solve in confirmation: %q", m.View())
	}
	m.Update(runes("y"))
	if len(st.deleted) != 1 || st.deleted[0] != "s3" {
		t.Fatalf("expected newest solve deleted, got %v", st.deleted)
	}
	if len(m.report.Solves) != 2 || !strings.Contains(m.notice, "Deleted solve 12.500") {
		t.Fatalf("expected refreshed report and notice, got %d / %q", len(m.report.Solves), m.notice)
	}
}

func TestDeleteAllRequiresConfirmation(t *testing.T) {
	st := sampleStore()
	m := newSizedModel(t, st)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	m.Update(runes("D"))
	if !strings.Contains(m.View(), "This will permanently delete all 3 solve(s).") {
		t.Fatalf("expected delete-all warning: %q", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if st.deletedAll || m.confirm != confirmNone {
		t.Fatalf("expected cancel to keep solves")
	}

	m.Update(runes("D"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !st.deletedAll {
		t.Fatalf("expected all solves deleted")
	}
	if len(m.report.Solves) != 0 || m.notice != "Deleted 3 solve(s)." {
		t.Fatalf("unexpected state after delete all: %d / %q", len(m.report.Solves), m.notice)
	}

	m.Update(runes("D"))
	if m.confirm != confirmNone || m.notice != "No solves to delete." {
		t.Fatalf("expected nothing to confirm on empty history")
	}
}

func TestDayNavigation(t *testing.T) {
	m := newSizedModel(t, sampleStore())
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	m.Update(runes("["))
	if m.day == nil || len(m.listed) != 1 || m.listed[0].ID != "s3" {
		t.Fatalf("expected newest day first, got %v", m.listed)
	}
	m.Update(runes("["))
	if len(m.listed) != 2 || m.listed[0].ID != "s2" {
		t.Fatalf("expected previous day newest first, got %v", m.listed)
	}
	if !strings.Contains(m.View(), "Day: 2024-04-10 (2 solves)") {
		t.Fatalf("expected day header")
	}
	m.Update(runes("["))
	if len(m.listed) != 0 || !strings.Contains(m.View(), "No solves on this day.") {
		t.Fatalf("expected empty day")
	}
	m.Update(runes("a"))
	if m.day != nil || len(m.listed) != 3 {
		t.Fatalf("expected all days again")
	}
}

func TestShowDay(t *testing.T) {
	m := NewModel(sampleStore(), model.StatsConfig{})
	m.ShowDay(day1.Add(3 * time.Hour))
	if m.activeTab != tabSolves || len(m.listed) != 2 {
		t.Fatalf("expected solves tab on day one, got tab %d with %d solves", m.activeTab, len(m.listed))
	}
}

func TestSettingsFormAppliesLast(t *testing.T) {
	m := newSizedModel(t, sampleStore())
	m.Update(runes("/"))
	if !m.filterMode {
		t.Fatalf("expected settings form")
	}
	m.filterInputs[1].SetValue("2")
	m.filterInputs[2].SetValue("3")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected form to close")
	}
	if m.cfg.Last != 2 || m.cfg.Window != 3 || len(m.report.Solves) != 2 {
		t.Fatalf("unexpected config %+v with %d solves", m.cfg, len(m.report.Solves))
	}
}

func TestSettingsFormRejectsBadDate(t *testing.T) {
	m := newSizedModel(t, sampleStore())
	m.Update(runes("/"))
	m.filterInputs[0].SetValue("April")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || !strings.Contains(m.filterError, "invalid since date") {
		t.Fatalf("expected validation error, got %q", m.filterError)
	}
}

func TestWindowKeys(t *testing.T) {
	m := newSizedModel(t, sampleStore())
	m.Update(runes("="))
	if m.cfg.Window != 10 {
		t.Fatalf("expected window 10, got %d", m.cfg.Window)
	}
	m.Update(runes("-"))
	m.Update(runes("-"))
	if m.cfg.Window != 1 {
		t.Fatalf("expected window 1, got %d", m.cfg.Window)
	}
}

func TestReadFailureFallsBackToNoData(t *testing.T) {
	m := newSizedModel(t, &fakeStore{listErr: errors.New("locked")})
	if !strings.Contains(m.errMsg, "failed to load solves") {
		t.Fatalf("expected error message, got %q", m.errMsg)
	}
	view := m.View()
	if !strings.Contains(view, stats.NoData) || !strings.Contains(view, "Failed to load solves.") {
		t.Fatalf("expected placeholders on failure: %q", view)
	}
}

func TestNextPrevWindow(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextWindow(tc.in); got != tc.next {
			t.Fatalf("nextWindow(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevWindow(tc.in); got != tc.prev {
			t.Fatalf("prevWindow(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}
