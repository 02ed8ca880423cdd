package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#E50914")
	secondaryColor = lipgloss.Color("#F5F5F1")
	accentColor    = lipgloss.Color("#564D4D")
	mutedColor     = lipgloss.Color("#8A8A8A")
	toastBgColor   = lipgloss.Color("#363636")
	errorColor     = lipgloss.Color("#FF5F5F")
	successColor   = lipgloss.Color("#5FD787")

	appTitleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	searchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	searchBoxFocusedStyle = searchBoxStyle.
				BorderForeground(primaryColor)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	selectedTileStyle = tileStyle.
				BorderForeground(primaryColor)

	tileTitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	faintStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ratingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5C518"))

	pageStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Padding(0, 1)

	activePageStyle = pageStyle.
			Foreground(primaryColor).
			Bold(true).
			Underline(true)

	disabledPageStyle = pageStyle.
				Foreground(accentColor)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	backdropStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#303030"))

	toastStyle = lipgloss.NewStyle().
			Background(toastBgColor).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2)

	toastErrorIconStyle = lipgloss.NewStyle().
				Background(toastBgColor).
				Foreground(errorColor)

	toastSuccessIconStyle = lipgloss.NewStyle().
				Background(toastBgColor).
				Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)
