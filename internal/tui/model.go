// Package tui implements the interactive focus screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomo/internal/service"
	"pomo/internal/timer"
)

// Engine is the part of timer.Engine the screen drives.
type Engine interface {
	Start() error
	Pause() error
	Resume() error
	Reset() error
	Continue() error
	Dismiss() error
	Select(taskID string) error
	Skip() error
	Snapshot() timer.Snapshot
	Subscribe(fn func(timer.Snapshot))
}

// SnapshotMsg carries an engine state change into the update loop.
type SnapshotMsg timer.Snapshot

// Options configures a Model.
type Options struct {
	Theme service.Theme
	// OnTheme persists a theme change.
	OnTheme func(service.Theme) error
	// Preselect is the task id to select initially; "" leaves the cursor on the first task.
	Preselect string
}

// Model is the bubbletea model of the focus screen.
type Model struct {
	engine Engine
	events chan timer.Snapshot

	tasks  []service.Task
	cursor int
	snap   timer.Snapshot

	theme   service.Theme
	onTheme func(service.Theme) error
	styles  Styles
	keys    KeyMap
	help    help.Model

	notice string
	err    string
	width  int
}

// New creates the focus screen for engine over the open tasks. The last row
// of the picker is "no task".
func New(engine Engine, tasks []service.Task, opts Options) Model {
	theme := opts.Theme
	if theme == "" {
		theme = service.ThemeLight
	}
	m := Model{
		engine:  engine,
		events:  make(chan timer.Snapshot, 256),
		tasks:   tasks,
		snap:    engine.Snapshot(),
		theme:   theme,
		onTheme: opts.OnTheme,
		styles:  StylesFor(theme),
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	for i, t := range tasks {
		if t.ID == opts.Preselect {
			m.cursor = i
		}
	}

	events := m.events
	engine.Subscribe(func(s timer.Snapshot) {
		select {
		case events <- s:
		default:
		}
	})
	return m
}

// Run shows the screen until the user quits or ctx is cancelled.
// Cancellation is not an error.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Init starts listening for engine events.
func (m Model) Init() tea.Cmd {
	return m.listen()
}

func (m Model) listen() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return SnapshotMsg(<-events)
	}
}

// Update handles key presses and engine events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case SnapshotMsg:
		m.applySnapshot(timer.Snapshot(msg))
		return m, m.listen()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applySnapshot(s timer.Snapshot) {
	if s.State == timer.StateCompleted {
		if s.Phase == timer.PhaseFocus {
			m.notice = "Focus session complete. Time for a break."
			for i := range m.tasks {
				if m.tasks[i].ID == s.TaskID {
					m.tasks[i].CompletedPomodoros++
				}
			}
		} else {
			m.notice = "Break over. Ready to focus?"
		}
	}
	m.snap = s
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Theme):
		m.theme = m.theme.Toggle()
		m.styles = StylesFor(m.theme)
		if m.onTheme != nil {
			m.setErr(m.onTheme(m.theme))
		}
		return m, nil
	}

	if m.snap.State == timer.StateAwaitingAck {
		switch {
		case key.Matches(msg, m.keys.Continue):
			m.notice = ""
			m.setErr(m.engine.Continue())
		case key.Matches(msg, m.keys.Dismiss):
			m.notice = ""
			m.setErr(m.engine.Dismiss())
		}
		return m.refresh(), nil
	}

	if m.picking() {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.tasks) {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Select):
			m.notice = ""
			if m.cursor < len(m.tasks) {
				m.setErr(m.engine.Select(m.tasks[m.cursor].ID))
			} else {
				m.setErr(m.engine.Skip())
			}
			if m.err == "" {
				m.setErr(m.engine.Start())
			}
			return m.refresh(), nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.notice = ""
		switch m.snap.State {
		case timer.StateRunning:
			m.setErr(m.engine.Pause())
		case timer.StatePaused:
			m.setErr(m.engine.Resume())
		default:
			m.setErr(m.engine.Start())
		}
	case key.Matches(msg, m.keys.Reset):
		m.setErr(m.engine.Reset())
	}
	return m.refresh(), nil
}

// refresh reads the engine state directly so the view never lags a key press.
func (m Model) refresh() Model {
	m.snap = m.engine.Snapshot()
	return m
}

func (m *Model) setErr(err error) {
	if err != nil {
		m.err = err.Error()
	}
}

// picking reports whether the task picker is shown.
func (m Model) picking() bool {
	return m.snap.State == timer.StateIdle && m.snap.Phase == timer.PhaseFocus
}

// View renders the screen.
func (m Model) View() string {
	s := m.styles
	var b strings.Builder

	phase := s.Phase.Foreground(s.PhaseColor(m.snap.Phase == timer.PhaseFocus)).
		Render(strings.ToUpper(m.snap.Phase.String()))
	fmt.Fprintf(&b, "%s  %s\n\n", phase, s.State.Render(m.snap.State.String()))
	b.WriteString(s.Clock.Render(timer.FormatClock(m.snap.SecondsRemaining)))
	b.WriteString("\n\n")

	if title := m.selectedTitle(); title != "" {
		fmt.Fprintf(&b, "Task: %s\n", s.Task.Render(title))
	} else if m.snap.Skipped {
		b.WriteString(s.State.Render("No task selected") + "\n")
	}

	if m.notice != "" {
		b.WriteString("\n" + s.Notice.Render(m.notice) + "\n")
	}
	if m.snap.State == timer.StateAwaitingAck {
		// The snapshot already carries the phase that Continue starts.
		b.WriteString(s.State.Render("enter: start "+m.snap.Phase.String()+"  esc: back to tasks") + "\n")
	}

	if m.picking() {
		b.WriteString("\n")
		for i, t := range m.tasks {
			b.WriteString(m.row(i, taskLabel(t)) + "\n")
		}
		b.WriteString(m.row(len(m.tasks), "No task") + "\n")
	}

	if m.err != "" {
		b.WriteString("\n" + s.Error.Render("error: "+m.err) + "\n")
	}

	frame := s.Frame.Render(strings.TrimRight(b.String(), "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, frame, m.help.View(m.keys))
}

func (m Model) row(i int, label string) string {
	if i == m.cursor {
		return m.styles.Cursor.Render("> " + label)
	}
	return m.styles.Item.Render("  " + label)
}

func (m Model) selectedTitle() string {
	for _, t := range m.tasks {
		if t.ID == m.snap.TaskID && t.ID != "" {
			return t.Title
		}
	}
	return ""
}

func taskLabel(t service.Task) string {
	if t.TargetPomodoros > 0 {
		return fmt.Sprintf("%s  %d/%d", t.Title, t.CompletedPomodoros, t.TargetPomodoros)
	}
	return t.Title
}

// Theme returns the current theme.
func (m Model) Theme() service.Theme {
	return m.theme
}

// Cursor returns the picker position.
func (m Model) Cursor() int {
	return m.cursor
}

// Notice returns the last completion notice.
func (m Model) Notice() string {
	return m.notice
}

// Err returns the last error shown.
func (m Model) Err() string {
	return m.err
}
