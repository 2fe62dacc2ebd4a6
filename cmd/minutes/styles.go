package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Club colors
var (
	// Club gold: #F2C14E
	clubGold = lipgloss.Color("#F2C14E")
	// Success green
	successGreen = lipgloss.Color("#00C853")
	// Warning yellow
	warningYellow = lipgloss.Color("#FFC107")
	// Info blue
	infoBlue = lipgloss.Color("#2196F3")
	// Muted gray
	mutedGray = lipgloss.Color("#9E9E9E")
)

// Style definitions
var (
	// Title style - bold with gold accent
	titleStyle = lipgloss.NewStyle().
			Foreground(clubGold).
			Bold(true)

	// Search term markers in direct results
	highlightStyle = lipgloss.NewStyle().
			Foreground(warningYellow).
			Bold(true)

	// Success style
	successStyle = lipgloss.NewStyle().
			Foreground(successGreen).
			Bold(true)

	// Muted text style
	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	// Date column style
	dateStyle = lipgloss.NewStyle().
			Foreground(infoBlue)

	// Input prompt style
	promptStyle = lipgloss.NewStyle().
			Foreground(clubGold)

	// URL style
	urlStyle = lipgloss.NewStyle().
			Foreground(infoBlue).
			Underline(true)
)

// printLogo prints the styled logo with version
func printLogo(w io.Writer, ver string) {
	// Gradient blocks █▓▒░
	gradient := lipgloss.NewStyle().Foreground(clubGold).Render("█▓▒░")
	title := titleStyle.Render("minutes")
	versionText := mutedStyle.Render(ver)

	fmt.Fprintf(w, "%s %s %s\n", gradient, title, versionText)
	fmt.Fprintln(w, mutedStyle.Render("Meeting minutes search"))
	fmt.Fprintln(w)
}

// printSuccess prints a success message
func printSuccess(w io.Writer, text string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+text))
}

// printPrompt prints an input prompt on same line
func printPrompt(w io.Writer, text string) {
	fmt.Fprint(w, promptStyle.Render(text))
}
