package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"taskml/internal/driver"
)

func newModel(files ...string) *progressModel {
	ch := make(chan driver.Event)
	return NewProgressModel("checking", files, ch).(*progressModel)
}

func TestApplyEventUpdatesItem(t *testing.T) {
	m := newModel("a.tm", "b.tm")

	m.Update(eventMsg{File: "a.tm", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	if got := m.percent(); got != 0.25 {
		t.Errorf("percent = %v, want 0.25", got)
	}

	m.Update(eventMsg{File: "a.tm", Stage: driver.StageCheck, Status: driver.StatusError, Errors: 2, Warnings: 1})
	m.Update(eventMsg{File: "b.tm", Stage: driver.StageCheck, Status: driver.StatusDone, Cached: true})
	if m.items[0].status != "error" || m.items[0].errors != 2 {
		t.Errorf("a.tm = %+v", m.items[0])
	}
	if !m.items[1].cached {
		t.Error("b.tm should be marked cached")
	}
	if got := m.percent(); got != 1 {
		t.Errorf("percent = %v, want 1", got)
	}
}

func TestUnknownFileIgnored(t *testing.T) {
	m := newModel("a.tm")
	if cmd := m.applyEvent(driver.Event{File: "zzz.tm", Status: driver.StatusDone}); cmd != nil {
		t.Error("unknown file should not move progress")
	}
	if m.items[0].status != "queued" {
		t.Errorf("status = %q", m.items[0].status)
	}
}

func TestViewShowsSummary(t *testing.T) {
	m := newModel("plans/a.tm")
	m.Update(eventMsg{File: "plans/a.tm", Stage: driver.StageCheck, Status: driver.StatusError, Errors: 3})
	m.Update(eventMsg{Stage: driver.StageCheck, Status: driver.StatusDone, Errors: 3, Warnings: 4})
	_, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("done should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit message")
	}

	view := m.View()
	for _, want := range []string{"done: checking", "plans/a.tm", "3E", "3 error(s), 4 warning(s)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWindowResize(t *testing.T) {
	m := newModel("a.tm")
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.prog.Width != 116 {
		t.Errorf("width = %d, prog = %d", m.width, m.prog.Width)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short.tm", 20); got != "short.tm" {
		t.Errorf("short value changed: %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Errorf("narrow truncate = %q", got)
	}
	for _, in := range []string{"very/long/path/to/plan.tm", "日本語の計画.tm"} {
		got := truncate(in, 8)
		if !strings.HasSuffix(got, "...") || runewidth.StringWidth(got) > 8 {
			t.Errorf("truncate(%q, 8) = %q", in, got)
		}
	}
}
