package model

// ViewMode is the layout of the results list
type ViewMode string

const (
	// ViewCard shows each minutes entry as a card with its excerpt
	ViewCard ViewMode = "card"
	// ViewList shows one line per entry
	ViewList ViewMode = "list"

	// DefaultViewMode is used when no valid preference is stored
	DefaultViewMode = ViewCard
)

// Valid reports whether v is one of the two layout modes
func (v ViewMode) Valid() bool {
	return v == ViewCard || v == ViewList
}

// Toggle returns the other layout mode
func (v ViewMode) Toggle() ViewMode {
	if v == ViewList {
		return ViewCard
	}
	return ViewList
}

// ParseViewMode validates a stored value, returning ok=false for anything else
func ParseViewMode(s string) (ViewMode, bool) {
	v := ViewMode(s)
	if !v.Valid() {
		return "", false
	}
	return v, true
}
