package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docwright-ai/docwright/internal/models"
	"github.com/docwright-ai/docwright/internal/tui/components"
	"github.com/docwright-ai/docwright/internal/tui/styles"
)

// Config describes the watch session the dashboard displays.
type Config struct {
	// Root is the watched directory.
	Root string

	// Templates are the templates regenerated on each change.
	Templates []string

	// Theme names the color theme. Unknown names fall back to default.
	Theme string

	// Enhance reports whether AI enhancement is on for this session.
	Enhance bool
}

// Dashboard wraps the bubbletea program so the watch loop can feed it
// messages while it runs.
type Dashboard struct {
	program *tea.Program
}

// NewDashboard builds the dashboard program without starting it.
func NewDashboard(cfg Config) *Dashboard {
	program := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	return &Dashboard{program: program}
}

// Run starts the dashboard and blocks until the user quits or the watch
// loop sends WatchStoppedMsg.
func (d *Dashboard) Run() error {
	_, err := d.program.Run()
	return err
}

// Send delivers a message to the running dashboard.
func (d *Dashboard) Send(msg tea.Msg) {
	if d != nil && d.program != nil {
		d.program.Send(msg)
	}
}

// Stop asks the dashboard to shut down.
func (d *Dashboard) Stop() {
	d.Send(WatchStoppedMsg{})
}

const (
	minWidth  = 60
	minHeight = 15
	eventKeep = 8
)

type model struct {
	width  int
	height int
	styles styles.Styles
	config Config

	started    time.Time
	now        time.Time
	lastChange time.Time

	batches int
	running string
	counts  map[models.RunStatus]int
	tokens  int64
	cents   int64
	events  *EventRing
}

func initialModel(cfg Config) model {
	now := time.Now()
	return model{
		styles:  styles.StylesFor(cfg.Theme),
		config:  cfg,
		started: now,
		now:     now,
		counts:  make(map[models.RunStatus]int),
		events:  NewEventRing(eventKeep),
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case BatchMsg:
		m.batches++
		m.lastChange = msg.At
		m.events.Add(Event{At: msg.At, Level: EventInfo, Text: batchLine(msg)})
	case RunStartedMsg:
		m.running = msg.Template
	case RunFinishedMsg:
		m.running = ""
		m.counts[msg.Status]++
		m.tokens += msg.Tokens
		m.cents += msg.CostCents
		m.events.Add(Event{At: msg.At, Level: levelForStatus(msg.Status), Text: finishedLine(msg)})
	case RunFailedMsg:
		m.running = ""
		m.counts[models.RunStatusError]++
		m.events.Add(Event{
			At:    msg.At,
			Level: EventError,
			Text:  fmt.Sprintf("%s failed: %v", msg.Template, msg.Err),
		})
	case WatchStoppedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return fmt.Sprintf("%s\n", joinLines(m.smallViewLines()))
		}
	}

	lines := []string{
		m.styles.Title.Render("docwright watch"),
		m.styles.Muted.Render(m.sessionLine()),
		"",
		m.statusLine(),
		m.styles.Text.Render(m.countsLine()),
	}
	if m.config.Enhance {
		lines = append(lines, m.styles.Text.Render(m.usageLine()))
	}

	lines = append(lines, "", m.styles.Accent.Render("Recent activity"))
	lines = append(lines, m.activityLines()...)

	lines = append(lines, "", m.styles.Muted.Render(m.lastChangeLine()))
	lines = append(lines, m.styles.Muted.Render("Press q to quit."))

	return fmt.Sprintf("%s\n", joinLines(lines))
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press q to quit."),
	}
}

func (m model) sessionLine() string {
	line := fmt.Sprintf("Watching %s", m.config.Root)
	if len(m.config.Templates) > 0 {
		line += fmt.Sprintf(" | templates: %s", strings.Join(m.config.Templates, ", "))
	}
	if m.config.Enhance {
		line += " | enhance on"
	}
	return line
}

func (m model) statusLine() string {
	if m.running != "" {
		return m.styles.Accent.Render(fmt.Sprintf("Generating %s...", m.running))
	}
	return m.styles.Text.Render("Idle. Waiting for changes.")
}

func (m model) countsLine() string {
	return fmt.Sprintf("Batches: %d | Runs: %d ok, %d fallback, %d error",
		m.batches,
		m.counts[models.RunStatusOK],
		m.counts[models.RunStatusFallback],
		m.counts[models.RunStatusError])
}

func (m model) usageLine() string {
	dollars := float64(m.cents) / 100
	return fmt.Sprintf("AI usage: %d tokens, $%.2f", m.tokens, dollars)
}

func (m model) activityLines() []string {
	events := m.events.Snapshot()
	if len(events) == 0 {
		return []string{components.WaitingForChanges(m.config.Root).Render(m.styles)}
	}

	lines := make([]string, 0, len(events))
	for _, event := range events {
		stamp := m.styles.Muted.Render(event.At.Format("15:04:05"))
		lines = append(lines, fmt.Sprintf("%s  %s", stamp, m.styleFor(event.Level).Render(event.Text)))
	}
	return lines
}

func (m model) styleFor(level EventLevel) lipgloss.Style {
	switch level {
	case EventOK:
		return m.styles.Success
	case EventWarn:
		return m.styles.Warning
	case EventError:
		return m.styles.Error
	default:
		return m.styles.Text
	}
}

func (m model) lastChangeLine() string {
	uptime := m.now.Sub(m.started).Round(time.Second)
	if m.lastChange.IsZero() {
		return fmt.Sprintf("Started: %s | up %s", m.started.Format("15:04:05"), uptime)
	}
	return fmt.Sprintf("Last change: %s | up %s", m.lastChange.Format("15:04:05"), uptime)
}

func batchLine(msg BatchMsg) string {
	if len(msg.Paths) == 1 {
		return fmt.Sprintf("changed: %s", filepath.Base(msg.Paths[0]))
	}
	return fmt.Sprintf("changed: %d files (%s, ...)", len(msg.Paths), filepath.Base(msg.Paths[0]))
}

func finishedLine(msg RunFinishedMsg) string {
	badge := string(msg.Status)
	line := fmt.Sprintf("%s -> %s (%s, %s)", msg.Template, msg.OutputPath, badge, roundDuration(msg.Duration))
	if msg.Enhanced {
		line += fmt.Sprintf(" +%d tokens", msg.Tokens)
	}
	return line
}

func levelForStatus(status models.RunStatus) EventLevel {
	switch status {
	case models.RunStatusOK:
		return EventOK
	case models.RunStatusFallback:
		return EventWarn
	default:
		return EventError
	}
}

func roundDuration(d time.Duration) time.Duration {
	if d >= time.Second {
		return d.Round(100 * time.Millisecond)
	}
	return d.Round(time.Millisecond)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := lines[0]
	for _, line := range lines[1:] {
		out += "\n" + line
	}
	return out
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
