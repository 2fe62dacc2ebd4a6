package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccowmu/minutes/internal/index"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/present"
	"github.com/ccowmu/minutes/internal/search"
	"github.com/ccowmu/minutes/internal/store"
)

// DocumentsLoadedMsg is sent when a (re)load of the source completes
type DocumentsLoadedMsg struct {
	Store *store.Store
	Index index.Searcher
	Err   error
}

// SourceChangedMsg is sent when the watched source changes on disk
type SourceChangedMsg struct{}

// WaitForChange blocks until the watcher signals, then reports a SourceChangedMsg.
// A nil channel yields a nil command.
func WaitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return SourceChangedMsg{}
	}
}

// Model represents the TUI state
type Model struct {
	textInput   textinput.Model  // Search input field
	styles      Styles           // Pre-configured styles
	colorScheme *ColorScheme     // Adaptive color scheme
	adapter     *present.Adapter // Filter state and rendered cards
	onLoad      func() tea.Cmd   // Callback to (re)load the source
	changes     <-chan struct{}  // Watcher signals, nil when not watching
	selected    string           // URL of the chosen minutes (when user presses Enter)
	source      string           // Source location (for header display)
	version     string           // Application version
	loadErr     error            // Last load error if any
	cursor      int              // Position within the visible cards
	width       int              // Terminal width
	height      int              // Terminal height
	loading     bool             // Whether a load is in progress
	quitting    bool             // Whether user is quitting
	showHelp    bool             // Whether to show help text
}

// New creates a TUI over an adapter. The adapter may be empty; onLoad is
// then run from Init and its DocumentsLoadedMsg fills it.
func New(adapter *present.Adapter, initialQuery string, onLoad func() tea.Cmd, changes <-chan struct{}, source, version string) Model {
	colorScheme := NewColorScheme()
	styles := colorScheme.GetStyles()

	ti := textinput.New()
	ti.Placeholder = "Search minutes..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 50
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt

	if adapter == nil {
		adapter = present.NewAdapter(nil, present.NewPage(), nil, present.Options{Mark: HighlightMark()})
	}
	if page := adapter.Page(); page != nil {
		page.SearchInput.Focus()
	}

	if initialQuery != "" {
		ti.SetValue(initialQuery)
		adapter.SetQuery(initialQuery)
	}

	// Strip protocol for display
	source = strings.TrimPrefix(source, "https://")
	source = strings.TrimPrefix(source, "http://")
	source = strings.TrimSuffix(source, "/")

	return Model{
		textInput:   ti,
		styles:      styles,
		colorScheme: colorScheme,
		adapter:     adapter,
		onLoad:      onLoad,
		changes:     changes,
		source:      source,
		version:     version,
		loading:     onLoad != nil && !adapter.Ready(),
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}

	if m.loading {
		cmds = append(cmds, m.onLoad())
	}
	if m.changes != nil {
		cmds = append(cmds, WaitForChange(m.changes))
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "esc":
			// First esc clears the search, second one quits
			if m.textInput.Value() == "" {
				m.quitting = true
				return m, tea.Quit
			}
			if m.adapter.Escape() {
				m.textInput.SetValue("")
				m.textInput.Focus()
				m.cursor = 0
			}

		case "ctrl+l":
			m.adapter.ClearAll()
			m.textInput.SetValue("")
			m.textInput.Focus()
			m.cursor = 0

		case "ctrl+y":
			m.adapter.CycleFacet()
			m.cursor = 0

		case "ctrl+v":
			m.adapter.ToggleView()

		case "ctrl+r":
			if m.onLoad != nil && !m.loading {
				m.loading = true
				m.loadErr = nil
				return m, m.onLoad()
			}

		case "enter":
			cards := m.adapter.Page().VisibleCards()
			if m.cursor < len(cards) {
				m.selected = cards[m.cursor].URL
			}
			m.quitting = true
			return m, tea.Quit

		case "?":
			m.showHelp = !m.showHelp

		case "down", "ctrl+n":
			if m.cursor < len(m.adapter.Page().VisibleCards())-1 {
				m.cursor++
			}

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		default:
			m.textInput, cmd = m.textInput.Update(msg)
			m.adapter.SetQuery(m.textInput.Value())
			m.cursor = 0
		}

	case DocumentsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			// Keep showing what was loaded before
			m.loadErr = msg.Err
			return m, nil
		}
		m.loadErr = nil
		m.adapter.Load(msg.Store, msg.Index)
		if visible := len(m.adapter.Page().VisibleCards()); m.cursor >= visible {
			m.cursor = max(visible-1, 0)
		}

	case SourceChangedMsg:
		cmds := []tea.Cmd{WaitForChange(m.changes)}
		if m.onLoad != nil && !m.loading {
			m.loading = true
			cmds = append(cmds, m.onLoad())
		}
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, cmd
}

// Selected returns the URL of the chosen minutes (or empty string if none)
func (m Model) Selected() string {
	return m.selected
}

// Adapter returns the presentation adapter backing the model
func (m Model) Adapter() *present.Adapter {
	return m.adapter
}

// linesPerItem is the height of one result in the current layout
func (m Model) linesPerItem() int {
	if m.adapter.State().ViewMode == model.ViewList {
		return 1
	}
	return 3
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	state := m.adapter.State()
	visible := m.adapter.Visible()

	// Status indicator: ○ idle, ● loading (green) or error (red)
	var statusIndicator string
	if m.loading {
		statusIndicator = m.styles.StatusActive.Render("●")
	} else if m.loadErr != nil {
		statusIndicator = m.styles.StatusError.Render("●")
	} else {
		statusIndicator = m.styles.StatusIdle.Render("○")
	}

	titleLeft := fmt.Sprintf("%s %s %s",
		m.colorScheme.Wave,
		m.styles.Title.Render("minutes"),
		m.styles.Version.Render(m.version))

	count := formatCount(visible.Len(), visible.Total, m.styles.Count, m.styles.CountActive)

	year := "all years"
	if !search.IsFacetAll(state.Facet) {
		year = state.Facet
	}
	filterInfo := m.styles.Facet.Render(fmt.Sprintf("[%s · %s]", year, state.ViewMode))
	sourceInfo := m.styles.Source.Render(fmt.Sprintf("[ %s ]", m.source))
	helpIndicator := m.styles.Help.Render("[?] Help")

	leftWidth := lipgloss.Width(titleLeft)
	minWidth := leftWidth + lipgloss.Width(count) + lipgloss.Width(filterInfo) + lipgloss.Width(statusIndicator) + 4

	var titleRight string
	if m.width < minWidth+20 {
		titleRight = fmt.Sprintf("%s %s %s", count, filterInfo, statusIndicator)
	} else if m.source == "" || m.width < minWidth+lipgloss.Width(sourceInfo)+20 {
		titleRight = fmt.Sprintf("%s %s %s %s", count, filterInfo, helpIndicator, statusIndicator)
	} else {
		titleRight = fmt.Sprintf("%s %s %s %s %s", count, filterInfo, sourceInfo, helpIndicator, statusIndicator)
	}

	rightWidth := lipgloss.Width(titleRight)
	spacing := " "
	if m.width > leftWidth+rightWidth {
		spacing = strings.Repeat(" ", m.width-leftWidth-rightWidth)
	}

	b.WriteString(titleLeft)
	b.WriteString(spacing)
	b.WriteString(titleRight)
	b.WriteString("\n")

	if m.width > 0 {
		b.WriteString(m.styles.Help.Render(strings.Repeat("─", m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	switch {
	case !m.adapter.Ready() && m.loadErr != nil:
		b.WriteString(m.styles.StatusError.Render("Failed to load minutes: " + m.loadErr.Error()))
		b.WriteString("\n")
	case !m.adapter.Ready():
		b.WriteString(m.styles.Help.Render("Loading minutes..."))
		b.WriteString("\n")
	case visible.Empty():
		b.WriteString(m.styles.Help.Render("No minutes match your search."))
		b.WriteString("\n")
	default:
		m.renderCards(&b, m.adapter.Page().VisibleCards(), state.ViewMode)
	}

	if m.showHelp {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("↑/↓: navigate • enter: open • ctrl+y: year • ctrl+v: card/list • esc: clear • ctrl+l: reset • ctrl+r: reload • ?: toggle help"))
	}

	return b.String()
}

// renderCards writes the visible window of results, keeping the cursor in view
func (m Model) renderCards(b *strings.Builder, cards []*present.Card, mode model.ViewMode) {
	usedLines := 6 // Title, separator, blank, input, two blanks
	if m.showHelp {
		usedLines += 3
	}

	maxItems := (m.height - usedLines - 2) / m.linesPerItem()
	if maxItems < 1 {
		maxItems = 1
	}

	start := 0
	if m.cursor >= maxItems {
		start = m.cursor - maxItems + 1
	}

	lineWidth := m.width - 2 // Cursor + margin
	if lineWidth < 20 {
		lineWidth = 80
	}
	clip := lipgloss.NewStyle().MaxWidth(lineWidth)

	for i := start; i < len(cards) && i < start+maxItems; i++ {
		card := cards[i]

		var lines []string
		if mode == model.ViewList {
			lines = []string{fmt.Sprintf("%s  %s", m.styles.Date.Render(fmt.Sprintf("%-10s", card.Date)), card.Title.Text())}
		} else {
			lines = []string{
				card.Title.Text(),
				m.styles.Date.Render(card.Date),
				m.styles.Excerpt.Render(card.Excerpt.Text()),
			}
		}

		for lineIdx, line := range lines {
			if lineIdx == 0 && i == m.cursor {
				b.WriteString(m.styles.Cursor.Render("▌"))
			} else {
				b.WriteString(" ")
			}

			content := clip.Render(" " + line)
			if i == m.cursor {
				b.WriteString(m.styles.Selected.Width(lineWidth).Render(content))
			} else {
				b.WriteString(m.styles.Normal.Render(content))
			}
			b.WriteString("\n")
		}
	}
}

// formatCount renders "12/340 minutes", or just the total when nothing is filtered out
func formatCount(visible, total int, countStyle lipgloss.Style, activeStyle lipgloss.Style) string {
	bold := lipgloss.NewStyle().Bold(true).Inherit(countStyle)

	if visible == total {
		return countStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left,
			bold.Render(formatNumber(total)),
			" minutes"))
	}

	return countStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left,
		activeStyle.Render(formatNumber(visible)),
		"/",
		bold.Render(formatNumber(total)),
		" minutes"))
}

// formatNumber groups digits in threes: 1234567 -> "1,234,567"
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	s := strconv.Itoa(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
