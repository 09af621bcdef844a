// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/tasktrack/internal/table"
	"github.com/nibzard/tasktrack/internal/task"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	color   bool
	showAll bool
	output  io.Writer
}

// WithColor enables highlighted rendering of the header and cursor row.
func WithColor(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.color = enabled
	}
}

// WithShowAll starts the TUI with completed tasks visible.
func WithShowAll(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.showAll = enabled
	}
}

// WithOutput sets the terminal the TUI draws on. It defaults to os.Stdout.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// RunTUI browses l interactively. Changes are applied to l in place; the
// caller is responsible for saving it.
func RunTUI(ctx context.Context, l *task.List, clock *task.Clock, opts ...TUIOption) error {
	c := &tuiConfig{output: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(l, clock, c)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(c.output))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type tuiModel struct {
	list     *task.List
	clock    *task.Clock
	table    *table.Table
	showAll  bool
	showHelp bool
	cursor   int
	message  string
	bold     lipgloss.Style
	reverse  lipgloss.Style
	color    bool
}

func newTUIModel(l *task.List, clock *task.Clock, c *tuiConfig) *tuiModel {
	return &tuiModel{
		list:    l,
		clock:   clock,
		table:   table.New(tuiColumns...),
		showAll: c.showAll,
		bold:    lipgloss.NewStyle().Bold(true),
		reverse: lipgloss.NewStyle().Reverse(true),
		color:   c.color,
	}
}

var tuiColumns = []table.Column{
	{Title: "", Width: 4},
	{Title: "ID", Width: 5},
	{Title: "Due Date", Width: 11},
	{Title: "Priority", Width: 11},
	{Title: "Task"},
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

// visible returns the tasks currently shown, in list order.
func (m *tuiModel) visible() []task.Task {
	if m.showAll {
		return m.list.All()
	}
	return m.list.Pending(nil)
}

func (m *tuiModel) selected() (task.Task, bool) {
	tasks := m.visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *tuiModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		m.cursor--
		m.clampCursor()
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.visible()) - 1
		m.clampCursor()
	case "a":
		m.showAll = !m.showAll
		m.clampCursor()
	case " ", "enter":
		m.complete()
	case "x", "delete":
		m.remove()
	}
	return m, nil
}

func (m *tuiModel) complete() {
	t, ok := m.selected()
	if !ok {
		return
	}
	_, err := m.list.Done(t.ID, m.clock.Now())
	switch {
	case errors.Is(err, task.ErrAlreadyCompleted):
		m.message = fmt.Sprintf("Task %d already completed", t.ID)
	case err != nil:
		m.message = err.Error()
	default:
		m.message = fmt.Sprintf("Completed task %d", t.ID)
	}
	m.clampCursor()
}

func (m *tuiModel) remove() {
	t, ok := m.selected()
	if !ok {
		return
	}
	if _, err := m.list.Delete(t.ID); err != nil {
		m.message = err.Error()
		return
	}
	m.message = fmt.Sprintf("Deleted task %d", t.ID)
	m.clampCursor()
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.showAll)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	tasks := m.visible()
	if len(tasks) == 0 {
		if m.showAll {
			b.WriteString("  No tasks yet.\n\n")
		} else {
			b.WriteString("  No pending tasks remaining.\n\n")
		}
	} else {
		header := m.table.Line(titles(tuiColumns))
		if m.color {
			header = m.bold.Render(header)
		}
		b.WriteString(header + "\n")
		for i, t := range tasks {
			line := m.table.Line(m.cells(t, i == m.cursor))
			if i == m.cursor && m.color {
				line = m.reverse.Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
		if t, ok := m.selected(); ok {
			b.WriteString(m.detail(t) + "\n\n")
		}
	}

	if m.message != "" {
		b.WriteString(m.message + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func (m *tuiModel) cells(t task.Task, current bool) []string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	if current {
		mark = ">" + mark
	} else {
		mark = " " + mark
	}
	due := "-"
	if t.Due != nil {
		due = t.Due.String()
	}
	return []string{mark, strconv.Itoa(t.ID), due, strconv.Itoa(t.Priority), t.Name}
}

// detail describes the selected task's timestamps relative to now.
func (m *tuiModel) detail(t task.Task) string {
	now := m.clock.Now()
	parts := []string{"created " + humanize.RelTime(t.Created, now, "ago", "from now")}
	if t.Due != nil {
		parts = append(parts, "due "+humanize.RelTime(t.Due.In(m.clock.Location), now, "ago", "from now"))
	}
	if t.CompletedAt != nil {
		parts = append(parts, "completed "+humanize.RelTime(*t.CompletedAt, now, "ago", "from now"))
	}
	return fmt.Sprintf("  #%d %s: %s", t.ID, t.Name, strings.Join(parts, ", "))
}

func titles(columns []table.Column) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Title
	}
	return out
}

func writeTitle(b *strings.Builder, showAll bool) {
	title := "tasktrack: pending tasks"
	if showAll {
		title = "tasktrack: all tasks"
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, esc       Quit and save\n")
	b.WriteString("  j, down      Move down\n")
	b.WriteString("  k, up        Move up\n")
	b.WriteString("  g, G         Jump to first or last task\n")
	b.WriteString("  space, enter Mark task complete\n")
	b.WriteString("  x, delete    Delete task\n")
	b.WriteString("  a            Toggle completed tasks\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("Press h for help | a to show all | q to quit\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
