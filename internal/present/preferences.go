package present

import "sync"

// ViewPreferenceKey is the key the view mode is stored under
const ViewPreferenceKey = "minutes-view"

// PreferenceStore persists small string values across runs.
// Get returns "" with a nil error for a missing key.
type PreferenceStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// MemoryPreferences keeps preferences for the life of the process
type MemoryPreferences struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryPreferences creates an empty in-memory store
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{values: make(map[string]string)}
}

// Get returns the stored value or ""
func (m *MemoryPreferences) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

// Set stores a value
func (m *MemoryPreferences) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
