package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/creolewiki/internal/styles"
)

// PublishSummary holds the outcome of a publish run
type PublishSummary struct {
	Published int
	Skipped   int
	Removed   int
	Errors    []error
	Duration  time.Duration
}

// PublishMsg is sent when publishing completes
type PublishMsg struct {
	Summary *PublishSummary
	Err     error
}

// publishModel is the Bubble Tea model for the publish progress display
type publishModel struct {
	spinner  spinner.Model
	status   string
	complete bool
	summary  *PublishSummary
	err      error
}

// InitPublishModel creates a new publish progress model
func InitPublishModel(outputDir string) publishModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TitleStyle

	return publishModel{
		spinner: s,
		status:  "Publishing to " + outputDir + "...",
	}
}

func (m publishModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m publishModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case PublishMsg:
		m.complete = true
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m publishModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Publish failed: "+m.err.Error()) + "\n"
	}

	s := m.summary
	took := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", s.Duration.Round(time.Millisecond)))
	if s.Published == 0 && s.Removed == 0 && len(s.Errors) == 0 {
		return styles.SuccessStyle.Render("✓ Nothing changed") + "\n" + took + "\n"
	}

	msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Published %d page(s)", s.Published))
	if s.Skipped > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d unchanged", s.Skipped))
	}
	if s.Removed > 0 {
		msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d removed", s.Removed))
	}
	if len(s.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(s.Errors)))
		for _, err := range s.Errors {
			msg += "\n  " + styles.ErrorStyle.Render("✗ "+err.Error())
		}
	}
	return msg + "\n" + took + "\n"
}
