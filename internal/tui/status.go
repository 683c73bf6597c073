package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/creolewiki/internal/styles"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.Comment))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.Foreground))
)

// StatusData holds all the information for the status display
type StatusData struct {
	Store         string
	OutputDir     string
	Interval      time.Duration
	PageCount     int
	Attachments   int
	Changed       []string
	Removed       []string
	BrokenLinks   map[string]int
	LastRunID     string
	LastPublished time.Time
	RecentLog     []string
}

// StatusMsg is sent when status data is ready
type StatusMsg struct {
	Data *StatusData
	Err  error
}

type statusModel struct {
	spinner  spinner.Model
	data     *StatusData
	table    table.Model
	err      error
	scanning bool
	ready    bool
	width    int
	height   int
	refresh  func() tea.Msg
}

// InitStatusModel creates a new status display model. refresh is run to
// (re)load the status data and must return a StatusMsg.
func InitStatusModel(refresh func() tea.Msg) statusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TitleStyle

	columns := []table.Column{
		{Title: "Page", Width: 40},
		{Title: "Status", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	return statusModel{
		spinner:  s,
		scanning: true,
		table:    t,
		refresh:  refresh,
	}
}

func (m statusModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh)
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			if m.scanning {
				return m, nil
			}
			m.scanning = true
			return m, tea.Batch(m.spinner.Tick, m.refresh)
		case "up", "k", "down", "j":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case StatusMsg:
		m.scanning = false
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err

		if m.data != nil {
			m.table.SetRows(statusRows(m.data))
		}
		return m, nil

	case spinner.TickMsg:
		if m.scanning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// statusRows lists removed pages first, then changed ones
func statusRows(d *StatusData) []table.Row {
	rows := []table.Row{}
	for _, name := range d.Removed {
		rows = append(rows, table.Row{name, "Removed"})
	}
	for _, name := range d.Changed {
		status := "Changed"
		if n := d.BrokenLinks[name]; n > 0 {
			status = fmt.Sprintf("Changed, ⚠ %d broken", n)
		}
		rows = append(rows, table.Row{name, status})
	}
	return rows
}

func (m statusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Creole Wiki Status"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if m.scanning {
		b.WriteString(fmt.Sprintf("%s Rendering pages...\n", m.spinner.View()))
		return b.String()
	}

	if !m.ready || m.data == nil {
		return b.String()
	}

	b.WriteString(labelStyle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Pages:            %s\n", valueStyle.Render(m.data.Store)))
	b.WriteString(fmt.Sprintf("  Output directory: %s\n", valueStyle.Render(m.data.OutputDir)))
	b.WriteString(fmt.Sprintf("  Watch interval:   %s\n", valueStyle.Render(m.data.Interval.String())))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Wiki"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Pages:       %s\n", valueStyle.Render(fmt.Sprintf("%d", m.data.PageCount))))
	b.WriteString(fmt.Sprintf("  Attachments: %s\n", valueStyle.Render(fmt.Sprintf("%d", m.data.Attachments))))
	broken := 0
	for _, n := range m.data.BrokenLinks {
		broken += n
	}
	if broken > 0 {
		b.WriteString(fmt.Sprintf("  %s\n", styles.WarningStyle.Render(fmt.Sprintf("⚠ %d link(s) to missing pages", broken))))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Last Publish"))
	b.WriteString("\n")
	if m.data.LastPublished.IsZero() {
		b.WriteString(fmt.Sprintf("  %s\n", styles.DimStyle.Render("never")))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			valueStyle.Render(m.data.LastPublished.Format(time.RFC3339)),
			styles.DimStyle.Render("("+m.data.LastRunID+")")))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Pending Changes"))
	b.WriteString("\n")
	total := len(m.data.Changed) + len(m.data.Removed)
	if total == 0 {
		b.WriteString(fmt.Sprintf("  %s\n", styles.SuccessStyle.Render("✓ Output is up to date")))
	} else {
		if len(m.data.Changed) > 0 {
			b.WriteString(fmt.Sprintf("  %s\n", styles.HighlightStyle.Render(fmt.Sprintf("● %d page(s) to publish", len(m.data.Changed)))))
		}
		if len(m.data.Removed) > 0 {
			b.WriteString(fmt.Sprintf("  %s\n", styles.HighlightStyle.Render(fmt.Sprintf("● %d page(s) to remove", len(m.data.Removed)))))
		}
		b.WriteString("\n")
		b.WriteString(styles.TableStyle.Render(m.table.View()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.data.RecentLog) > 0 {
		b.WriteString(labelStyle.Render("Recent Activity"))
		b.WriteString("\n")
		for _, line := range m.data.RecentLog {
			b.WriteString("  " + styles.DimStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	if total > 0 {
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • r refresh • q/ctrl+c quit"))
	} else {
		b.WriteString(styles.HelpStyle.Render("r refresh • q/ctrl+c quit"))
	}
	b.WriteString("\n")

	return b.String()
}
