// Package ui provides the interactive terminal task viewer.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/gitdo/internal/store"
	"github.com/nibzard/gitdo/internal/task"
)

// Run starts the TUI over the given store.
func Run(ctx context.Context, st *store.Store) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	m := newModel(st)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// IsTTY reports whether the writer is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}

type model struct {
	st           *store.Store
	tasks        []task.Task
	visible      []task.Task
	loadErr      error
	cursor       int
	filter       task.Status // empty means no filter
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func newModel(st *store.Store) *model {
	return &model{
		st:           st,
		tickInterval: time.Second,
	}
}

func (m *model) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "j", "down":
			m.moveCursor(1)
			return m, nil
		case "k", "up":
			m.moveCursor(-1)
			return m, nil
		case "1":
			m.setFilter(task.StatusPending)
			return m, nil
		case "2":
			m.setFilter(task.StatusInProgress)
			return m, nil
		case "3":
			m.setFilter(task.StatusCompleted)
			return m, nil
		case "0":
			m.setFilter("")
			return m, nil
		case "s":
			m.applyToSelected(m.st.Start)
			return m, nil
		case "c":
			m.applyToSelected(m.st.Complete)
			return m, nil
		case "d":
			m.applyToSelected(m.st.Remove)
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("gitdo") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	if m.loadErr != nil {
		b.WriteString("Error loading tasks:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render("No tasks.") + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	for i, t := range m.visible {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s  %s  %s\n",
			marker,
			dimStyle.Render(shortID(t.ID)),
			statusStyle(t.Status).Render(fmt.Sprintf("%-10s", t.Status)),
			t.Title,
		))
	}
	b.WriteString("\n")
	writeCounts(&b, m.tasks)
	writeFooter(&b, m.tickInterval)
	return b.String()
}

// refresh reloads the collection from disk and reapplies the filter.
func (m *model) refresh() {
	tasks, err := m.st.Load()
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		m.visible = nil
		return
	}
	m.loadErr = nil
	m.tasks = tasks
	m.applyFilter()
}

func (m *model) applyFilter() {
	if m.filter == "" {
		m.visible = m.tasks
	} else {
		m.visible = nil
		for _, t := range m.tasks {
			if t.Status == m.filter {
				m.visible = append(m.visible, t)
			}
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) setFilter(status task.Status) {
	m.filter = status
	m.cursor = 0
	m.applyFilter()
}

func (m *model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// applyToSelected routes a mutation for the task under the cursor through
// the store (full id, no prefix ambiguity) and reloads.
func (m *model) applyToSelected(op func(id string) (bool, error)) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return
	}
	if _, err := op(m.visible[m.cursor].ID); err != nil {
		m.loadErr = err
		return
	}
	m.refresh()
}

func statusStyle(s task.Status) lipgloss.Style {
	switch s {
	case task.StatusCompleted:
		return doneStyle
	case task.StatusInProgress:
		return progressStyle
	default:
		return pendingStyle
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func writeCounts(b *strings.Builder, tasks []task.Task) {
	counts := map[task.Status]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Pending: %d  In progress: %d  Completed: %d",
		counts[task.StatusPending],
		counts[task.StatusInProgress],
		counts[task.StatusCompleted],
	)) + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh\n")
	b.WriteString("  j/k, arrows  Move cursor\n")
	b.WriteString("  s            Start selected task\n")
	b.WriteString("  c            Complete selected task\n")
	b.WriteString("  d            Remove selected task\n")
	b.WriteString("  1            Filter by pending\n")
	b.WriteString("  2            Filter by inprogress\n")
	b.WriteString("  3            Filter by completed\n")
	b.WriteString("  0            Clear filter\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(dimStyle.Render(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s", interval)) + "\n")
}
