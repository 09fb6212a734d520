package report

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed    = lipgloss.Color("#ff5555")
	colorGreen  = lipgloss.Color("#50fa7b")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorBlue   = lipgloss.Color("#8be9fd")
	colorPurple = lipgloss.Color("#bd93f9")
	colorDim    = lipgloss.Color("#6272a4")
	colorFg     = lipgloss.Color("#f8f8f2")
	colorOrange = lipgloss.Color("#ffb86c")
	colorBorder = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	badgeLowStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	badgeMediumStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)

	badgeHighStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	statAddStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	statDelStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	checkStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)
