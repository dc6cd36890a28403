package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#10B981") // Green
	Accent     = lipgloss.Color("#F59E0B") // Amber
	Danger     = lipgloss.Color("#EF4444") // Red
	MutedColor = lipgloss.Color("#6B7280") // Gray
	Subtle     = lipgloss.Color("#374151") // Dark gray

	Muted = lipgloss.NewStyle().
		Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	// Section headers inside the plan view
	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	ManifestHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(Primary).
			Padding(0, 1)

	// Plan actions
	ActionCreate = lipgloss.NewStyle().
			Foreground(Accent).
			SetString("+")

	ActionCopy = lipgloss.NewStyle().
			Foreground(Secondary).
			SetString("→")

	Source = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF"))

	Destination = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	// Summary panel
	InfoBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Subtle).
		Padding(0, 1)

	InfoLabel = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(12)

	InfoValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// Messages
	ErrorMsg = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	SuccessMsg = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Primary)
)

// FormatHelp formats help text with highlighted keys
func FormatHelp(pairs ...string) string {
	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += "  "
		}
		result += HelpKey.Render(pairs[i]) + " " + pairs[i+1]
	}
	return HelpBar.Render(result)
}

// FormatInfo renders label/value pairs as aligned rows
func FormatInfo(pairs ...string) string {
	rows := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, InfoLabel.Render(pairs[i])+InfoValue.Render(pairs[i+1]))
	}
	return strings.Join(rows, "\n")
}
