package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docwright-ai/docwright/internal/generator"
	"github.com/docwright-ai/docwright/internal/models"
)

func testConfig() Config {
	return Config{
		Root:      "/work/project",
		Templates: []string{"overview", "api-doc"},
		Enhance:   true,
	}
}

func advance(t *testing.T, m tea.Model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, expected model", next)
	}
	return got
}

func TestViewInitial(t *testing.T) {
	m := initialModel(testConfig())
	view := m.View()

	for _, want := range []string{
		"docwright watch",
		"Watching /work/project",
		"templates: overview, api-doc",
		"enhance on",
		"Waiting for changes",
		"No changes seen yet",
		"Press q to quit",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in initial view, got:\n%s", want, view)
		}
	}
}

func TestViewAfterRun(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	m := initialModel(testConfig())

	m = advance(t, m, BatchMsg{Paths: []string{"/work/project/main.go"}, At: at})
	m = advance(t, m, RunStartedMsg{Template: "overview", At: at})

	if view := m.View(); !strings.Contains(view, "Generating overview...") {
		t.Errorf("expected running status in view, got:\n%s", view)
	}

	m = advance(t, m, RunFinishedMsg{
		Template:   "overview",
		OutputPath: "docs/overview.md",
		Status:     models.RunStatusOK,
		Files:      3,
		Enhanced:   true,
		Tokens:     1200,
		CostCents:  2,
		Duration:   150 * time.Millisecond,
		At:         at.Add(time.Second),
	})

	view := m.View()
	for _, want := range []string{
		"Batches: 1 | Runs: 1 ok, 0 fallback, 0 error",
		"AI usage: 1200 tokens, $0.02",
		"changed: main.go",
		"overview -> docs/overview.md (ok, 150ms)",
		"+1200 tokens",
		"Idle. Waiting for changes.",
		"Last change: 12:30:00",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view, got:\n%s", want, view)
		}
	}
}

func TestViewAfterFailure(t *testing.T) {
	m := initialModel(testConfig())
	m = advance(t, m, RunFailedMsg{
		Template: "api-doc",
		Err:      errors.New("analyze source: permission denied"),
		At:       time.Now(),
	})

	view := m.View()
	if !strings.Contains(view, "0 fallback, 1 error") {
		t.Errorf("expected error count in view, got:\n%s", view)
	}
	if !strings.Contains(view, "api-doc failed: analyze source: permission denied") {
		t.Errorf("expected failure line in view, got:\n%s", view)
	}
}

func TestSmallView(t *testing.T) {
	m := initialModel(testConfig())
	m = advance(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})

	view := m.View()
	if !strings.Contains(view, "Terminal too small (40x10)") {
		t.Errorf("expected small-terminal message, got:\n%s", view)
	}
	if !strings.Contains(view, "Resize to at least 60x15") {
		t.Errorf("expected resize hint, got:\n%s", view)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m := initialModel(testConfig())
			msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			switch key {
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			}
			_, cmd := m.Update(msg)
			if cmd == nil {
				t.Fatalf("expected quit command for %q", key)
			}
		})
	}
}

func TestWatchStoppedQuits(t *testing.T) {
	m := initialModel(testConfig())
	_, cmd := m.Update(WatchStoppedMsg{})
	if cmd == nil {
		t.Fatal("expected quit command after watch stop")
	}
}

func TestRunFinishedFromResult(t *testing.T) {
	at := time.Now()
	result := &generator.Result{
		OutputPath:    "docs/overview.md",
		Status:        models.RunStatusFallback,
		FilesAnalyzed: 7,
		TokensUsed:    300,
		CostCents:     1,
		Duration:      2 * time.Second,
	}

	msg := RunFinished("overview", result, at)
	if msg.Template != "overview" {
		t.Errorf("expected template overview, got %q", msg.Template)
	}
	if msg.Status != models.RunStatusFallback {
		t.Errorf("expected fallback status, got %q", msg.Status)
	}
	if msg.Files != 7 || msg.Tokens != 300 || msg.CostCents != 1 {
		t.Errorf("unexpected counters: %+v", msg)
	}
	if !msg.At.Equal(at) {
		t.Errorf("expected At %v, got %v", at, msg.At)
	}
}
