package output

import "github.com/charmbracelet/lipgloss"

// Color palette for order previews and validation reports.
var (
	ColorGreen   = lipgloss.Color("82")  // Green for credits
	ColorRed     = lipgloss.Color("196") // Red for debits and errors
	ColorWarning = lipgloss.Color("220") // Yellow for warnings
	ColorMuted   = lipgloss.Color("241") // Gray
)

var (
	CreditStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	DebitStyle = lipgloss.NewStyle().Foreground(ColorRed)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)

	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	LabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	ValueStyle = lipgloss.NewStyle().Bold(true)
)
