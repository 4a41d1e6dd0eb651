package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/gitdo/internal/task"
)

// Styles holds the lipgloss styles for table output.
type Styles struct {
	Header     lipgloss.Style
	Success    lipgloss.Style
	Dim        lipgloss.Style
	Pending    lipgloss.Style
	InProgress lipgloss.Style
	Completed  lipgloss.Style

	noColor bool
}

// newStyles builds the output styles. With noColor set every style is a
// no-op so output stays plain text.
func newStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{
			Header: plain, Success: plain, Dim: plain,
			Pending: plain, InProgress: plain, Completed: plain,
			noColor: true,
		}
	}
	return Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Dim:        lipgloss.NewStyle().Faint(true),
		Pending:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		InProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Completed:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// Check returns the success marker.
func (s Styles) Check() string {
	return s.Success.Render("✓")
}

// StatusStyle returns the style for a status tag.
func (s Styles) StatusStyle(status task.Status) lipgloss.Style {
	switch status {
	case task.StatusCompleted:
		return s.Completed
	case task.StatusInProgress:
		return s.InProgress
	default:
		return s.Pending
	}
}

// renderTaskTable renders the task list as a columned table with the
// status cell colored by state.
func renderTaskTable(tasks []task.Task, styles Styles) string {
	headers := []string{"ID", "Task", "Status", "Created"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			shortID(t.ID),
			t.Title,
			string(t.Status),
			t.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	return renderTable(headers, rows, tasks, 2, styles)
}

// renderPreviewTable renders the import preview (title and status only).
func renderPreviewTable(tasks []task.Task, styles Styles) string {
	headers := []string{"Task", "Status"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.Title, string(t.Status)})
	}
	return renderTable(headers, rows, tasks, 1, styles)
}

// renderTable lays out rows in padded columns. statusCol is the column
// index that gets per-status coloring; cells are padded before styling so
// widths are computed on plain text.
func renderTable(headers []string, rows [][]string, tasks []task.Task, statusCol int, styles Styles) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(styles.Header.Render(pad(h, widths[i])))
		if i < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for i, w := range widths {
		b.WriteString(styles.Dim.Render(strings.Repeat("-", w)))
		if i < len(widths)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for r, row := range rows {
		for i, cell := range row {
			padded := pad(cell, widths[i])
			if i == statusCol {
				padded = styles.StatusStyle(tasks[r].Status).Render(padded)
			}
			b.WriteString(padded)
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
