package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ColorScheme holds all adaptive color definitions for the TUI
type ColorScheme struct {
	// Title and branding
	Title   lipgloss.AdaptiveColor
	Wave    string // Pre-rendered gradient mark
	Version lipgloss.AdaptiveColor
	Source  lipgloss.AdaptiveColor // Where the minutes were read from

	// Input prompt
	Prompt lipgloss.AdaptiveColor

	// Result list
	Normal     lipgloss.AdaptiveColor
	Selected   lipgloss.AdaptiveColor
	SelectedBg lipgloss.AdaptiveColor
	Highlight  lipgloss.AdaptiveColor // Search term markers
	Excerpt    lipgloss.AdaptiveColor
	Date       lipgloss.AdaptiveColor

	// Status and counts
	Count       lipgloss.AdaptiveColor
	CountActive lipgloss.AdaptiveColor // Filtered count
	Facet       lipgloss.AdaptiveColor // Year facet and view mode

	// Indicators
	Cursor lipgloss.AdaptiveColor

	// Status indicators
	StatusActive lipgloss.AdaptiveColor // Green while loading
	StatusError  lipgloss.AdaptiveColor // Red when the last load failed
	StatusIdle   lipgloss.AdaptiveColor // Gray for idle

	// Help text
	Help lipgloss.AdaptiveColor
}

// NewColorScheme creates a new color scheme with adaptive colors for terminal theme
func NewColorScheme() *ColorScheme {
	return &ColorScheme{
		// Title: club gold on dark, deep brown on light
		Title: lipgloss.AdaptiveColor{
			Light: "#6B4E16", // Deep brown for light backgrounds
			Dark:  "#F2C14E", // Club gold for dark backgrounds
		},

		// Gradient mark (generated once)
		Wave: renderWave(),

		// Version info: muted for both
		Version: lipgloss.AdaptiveColor{
			Light: "#666666",
			Dark:  "#6967A3",
		},

		// Source: same as version
		Source: lipgloss.AdaptiveColor{
			Light: "#666666",
			Dark:  "#6967A3",
		},

		// Prompt: gold, darker on light backgrounds
		Prompt: lipgloss.AdaptiveColor{
			Light: "#B7791F", // Dark gold
			Dark:  "#F2C14E", // Club gold
		},

		// Normal text: dark on light, light on dark
		Normal: lipgloss.AdaptiveColor{
			Light: "#1A1A1A", // Almost black for light backgrounds
			Dark:  "#F7F1FF", // Off-white for dark backgrounds
		},

		// Selected card text: ensure contrast
		Selected: lipgloss.AdaptiveColor{
			Light: "#000000", // Black text on light selection
			Dark:  "#E4E4E4", // Light gray text on dark selection
		},

		// Selected card background
		SelectedBg: lipgloss.AdaptiveColor{
			Light: "#E0E0E0", // Light gray for light theme
			Dark:  "#303030", // Dark gray for dark theme
		},

		// Search term highlight: yellow/orange
		Highlight: lipgloss.AdaptiveColor{
			Light: "#D97706", // Orange for light backgrounds
			Dark:  "#FCE566", // Yellow for dark backgrounds
		},

		// Excerpt text: muted gray
		Excerpt: lipgloss.AdaptiveColor{
			Light: "#737373",
			Dark:  "#999999",
		},

		// Meeting date: blue on light, cyan on dark
		Date: lipgloss.AdaptiveColor{
			Light: "#0066CC", // Darker blue for light backgrounds
			Dark:  "#5AD4E6", // Bright cyan for dark backgrounds
		},

		// Count: muted
		Count: lipgloss.AdaptiveColor{
			Light: "#666666",
			Dark:  "#6967A3",
		},

		// Active count: highlighted yellow
		CountActive: lipgloss.AdaptiveColor{
			Light: "#D97706", // Orange
			Dark:  "#FCE566", // Yellow
		},

		// Facet label: green, stands apart from the counts
		Facet: lipgloss.AdaptiveColor{
			Light: "#16A34A", // Darker green
			Dark:  "#7BD88F", // Bright green
		},

		// Cursor indicator: same gold as the prompt
		Cursor: lipgloss.AdaptiveColor{
			Light: "#B7791F", // Dark gold for visibility
			Dark:  "#F2C14E", // Club gold
		},

		// Status active: green
		StatusActive: lipgloss.AdaptiveColor{
			Light: "#16A34A", // Darker green
			Dark:  "#7BD88F", // Bright green
		},

		// Status error: red/pink
		StatusError: lipgloss.AdaptiveColor{
			Light: "#DC2626", // Darker red
			Dark:  "#FC618D", // Bright pink
		},

		// Status idle: gray
		StatusIdle: lipgloss.AdaptiveColor{
			Light: "#737373",
			Dark:  "#666666",
		},

		// Help text: muted
		Help: lipgloss.AdaptiveColor{
			Light: "#737373",
			Dark:  "#666666",
		},
	}
}

// renderWave creates the gradient mark █▓▒░ from brown to gold
func renderWave() string {
	from := [3]int{0x8C, 0x5A, 0x1E}
	to := [3]int{0xF2, 0xC1, 0x4E}
	chars := []string{"█", "▓", "▒", "░"}

	var result string
	for i, char := range chars {
		pos := float64(i) / float64(len(chars)-1)
		r := int(float64(from[0]) + float64(to[0]-from[0])*pos)
		g := int(float64(from[1]) + float64(to[1]-from[1])*pos)
		b := int(float64(from[2]) + float64(to[2]-from[2])*pos)

		color := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
		result += lipgloss.NewStyle().Foreground(color).Render(char)
	}

	return result
}

// GetStyles returns pre-configured lipgloss styles using the color scheme
func (cs *ColorScheme) GetStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(cs.Title),

		Version: lipgloss.NewStyle().
			Foreground(cs.Version),

		Source: lipgloss.NewStyle().
			Foreground(cs.Source),

		Prompt: lipgloss.NewStyle().
			Foreground(cs.Prompt),

		Normal: lipgloss.NewStyle().
			Foreground(cs.Normal),

		Selected: lipgloss.NewStyle().
			Foreground(cs.Selected).
			Background(cs.SelectedBg),

		Highlight: lipgloss.NewStyle().
			Foreground(cs.Highlight).
			Bold(true),

		Excerpt: lipgloss.NewStyle().
			Foreground(cs.Excerpt).
			Italic(true),

		Date: lipgloss.NewStyle().
			Foreground(cs.Date),

		Count: lipgloss.NewStyle().
			Foreground(cs.Count),

		CountActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(cs.CountActive),

		Facet: lipgloss.NewStyle().
			Foreground(cs.Facet),

		Cursor: lipgloss.NewStyle().
			Foreground(cs.Cursor).
			Bold(true),

		StatusActive: lipgloss.NewStyle().
			Foreground(cs.StatusActive),

		StatusError: lipgloss.NewStyle().
			Foreground(cs.StatusError),

		StatusIdle: lipgloss.NewStyle().
			Foreground(cs.StatusIdle),

		Help: lipgloss.NewStyle().
			Foreground(cs.Help),
	}
}

// Styles holds pre-configured lipgloss styles
type Styles struct {
	Title        lipgloss.Style
	Version      lipgloss.Style
	Source       lipgloss.Style
	Prompt       lipgloss.Style
	Normal       lipgloss.Style
	Selected     lipgloss.Style
	Highlight    lipgloss.Style
	Excerpt      lipgloss.Style
	Date         lipgloss.Style
	Count        lipgloss.Style
	CountActive  lipgloss.Style
	Facet        lipgloss.Style
	Cursor       lipgloss.Style
	StatusActive lipgloss.Style
	StatusError  lipgloss.Style
	StatusIdle   lipgloss.Style
	Help         lipgloss.Style
}

// HighlightMark returns the function that marks search terms in result text
func HighlightMark() func(string) string {
	style := NewColorScheme().GetStyles().Highlight
	return func(s string) string {
		return style.Render(s)
	}
}
