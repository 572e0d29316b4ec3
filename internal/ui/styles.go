package ui

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
)

// headerStyle renders the active timeframe heading.
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorBlue).
	Padding(0, 1)

// tabStyle renders inactive timeframe tabs.
var tabStyle = lipgloss.NewStyle().
	Foreground(colorGray).
	Padding(0, 1)

// categoryStyle renders category group headings.
var categoryStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorYellow)

// selectedStyle highlights the focused goal row.
var selectedStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorBlue)

// doneStyle dims completed goals.
var doneStyle = lipgloss.NewStyle().
	Strikethrough(true).
	Foreground(colorGray)

// futureStyle marks goals that have not started yet.
var futureStyle = lipgloss.NewStyle().
	Foreground(colorSubtle)

// statsStyle renders the home statistics line.
var statsStyle = lipgloss.NewStyle().
	Foreground(colorGreen)

// toastStyle renders transient feedback messages.
var toastStyle = lipgloss.NewStyle().
	Foreground(colorYellow).
	Italic(true)

// helpStyle renders the key hint footer.
var helpStyle = lipgloss.NewStyle().
	Foreground(colorGray)
