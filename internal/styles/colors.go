package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	// Base colors
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	// Accent colors
	Red     = "#FF6188" // Errors, broken links
	Orange  = "#FC9867" // Warnings, new pages
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success, existing pages
	Cyan    = "#78DCE8" // Info, interwiki links
	Blue    = "#AB9DF2" // External links
	Magenta = "#FF6188" // Titles, emphasis

	// UI colors
	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	// Table/list styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Magenta))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(Border))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Yellow))

	PreviewStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(0, 1)
)

// linkStyles colour link classes as the wiki stylesheet would
var linkStyles = map[string]lipgloss.Style{
	"existing-page": lipgloss.NewStyle().Foreground(lipgloss.Color(Green)),
	"new-page":      lipgloss.NewStyle().Foreground(lipgloss.Color(Orange)).Italic(true),
	"inter-wiki":    lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan)),
	"external":      lipgloss.NewStyle().Foreground(lipgloss.Color(Blue)).Underline(true),
	"attachment":    lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)),
}

// LinkStyle returns the style for a link CSS class. Unresolved links use
// ErrorStyle.
func LinkStyle(class string) lipgloss.Style {
	if s, ok := linkStyles[class]; ok {
		return s
	}
	return ErrorStyle
}
