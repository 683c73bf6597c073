package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/creolewiki/internal/styles"
)

// BrowseData holds the pages of the wiki
type BrowseData struct {
	Pages []PageInfo
}

// PageInfo is one row of the page browser
type PageInfo struct {
	Name       string
	Revision   int64
	Links      int
	Broken     int
	Attributes int
}

// PreviewMode selects what the preview pane shows
type PreviewMode int

const (
	// PreviewRendered shows the page rendered for the terminal
	PreviewRendered PreviewMode = iota
	// PreviewSource shows the markup
	PreviewSource
	// PreviewLinks lists the links of the page and where they resolve
	PreviewLinks
)

func (m PreviewMode) String() string {
	switch m {
	case PreviewSource:
		return "Source"
	case PreviewLinks:
		return "Links"
	}
	return "Preview"
}

// PreviewFunc produces the preview pane content for a page
type PreviewFunc func(name string, mode PreviewMode) (string, error)

// BrowseMsg is sent when browse data is ready
type BrowseMsg struct {
	Data *BrowseData
	Err  error
}

// PreviewMsg is sent when a preview is ready
type PreviewMsg struct {
	Name    string
	Mode    PreviewMode
	Content string
	Err     error
}

type browseModel struct {
	table        table.Model
	viewport     viewport.Model
	data         *BrowseData
	err          error
	ready        bool
	showPreview  bool
	mode         PreviewMode
	selectedPage *PageInfo
	width        int
	height       int
	preview      PreviewFunc
}

// InitBrowseModel creates a new page browser model
func InitBrowseModel(preview PreviewFunc) browseModel {
	columns := []table.Column{
		{Title: "Page", Width: 40},
		{Title: "Revision", Width: 12},
		{Title: "Links", Width: 8},
		{Title: "Broken", Width: 8},
		{Title: "Attributes", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
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

	vp := viewport.New(100, 20)
	vp.Style = styles.PreviewStyle

	return browseModel{
		table:    t,
		viewport: vp,
		preview:  preview,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 10)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8

	case tea.KeyMsg:
		if m.showPreview {
			switch msg.String() {
			case "q", "esc":
				m.showPreview = false
				return m, nil
			case "p":
				return m.open(PreviewRendered)
			case "s":
				return m.open(PreviewSource)
			case "l":
				return m.open(PreviewLinks)
			default:
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter", "p":
			return m.open(PreviewRendered)
		case "s":
			return m.open(PreviewSource)
		case "l":
			return m.open(PreviewLinks)
		default:
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case BrowseMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err

		if m.data != nil {
			rows := make([]table.Row, 0, len(m.data.Pages))
			for _, p := range m.data.Pages {
				broken := "-"
				if p.Broken > 0 {
					broken = fmt.Sprintf("⚠ %d", p.Broken)
				}
				rows = append(rows, table.Row{
					p.Name,
					fmt.Sprintf("%d", p.Revision),
					fmt.Sprintf("%d", p.Links),
					broken,
					fmt.Sprintf("%d", p.Attributes),
				})
			}
			m.table.SetRows(rows)
		}
		return m, nil

	case PreviewMsg:
		if m.selectedPage == nil || msg.Name != m.selectedPage.Name || msg.Mode != m.mode {
			// a stale preview for a page no longer shown
			return m, nil
		}
		content := msg.Content
		if msg.Err != nil {
			content = styles.ErrorStyle.Render("✗ " + msg.Err.Error())
		}
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

// open shows the preview pane for the selected page and loads it
func (m browseModel) open(mode PreviewMode) (tea.Model, tea.Cmd) {
	if m.data == nil || len(m.data.Pages) == 0 {
		return m, nil
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.data.Pages) {
		return m, nil
	}

	m.selectedPage = &m.data.Pages[idx]
	m.showPreview = true
	m.mode = mode
	m.viewport.SetContent(styles.DimStyle.Render("Loading..."))
	return m, m.loadPreview(m.selectedPage.Name, mode)
}

func (m browseModel) loadPreview(name string, mode PreviewMode) tea.Cmd {
	preview := m.preview
	return func() tea.Msg {
		if preview == nil {
			return PreviewMsg{Name: name, Mode: mode, Err: fmt.Errorf("no preview available")}
		}
		content, err := preview(name, mode)
		return PreviewMsg{Name: name, Mode: mode, Content: content, Err: err}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Creole Wiki Page Browser"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		return b.String()
	}

	if m.showPreview {
		b.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("%s: %s", m.mode, m.selectedPage.Name)))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • p preview • s source • l links • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("Pages: %d", len(m.data.Pages))))
	b.WriteString("\n\n")
	b.WriteString(styles.TableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter/p preview • s source • l links • q quit"))
	b.WriteString("\n")
	return b.String()
}
