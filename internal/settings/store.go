package settings

import (
	"sync"

	"fyne.io/fyne/v2"
)

// Store is the key-value port the settings are persisted through.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemoryStore is an in-process Store, used by tests and headless runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// PreferencesStore adapts the Fyne application preferences, the desktop's
// local key-value store.
type PreferencesStore struct {
	Prefs fyne.Preferences
}

func (p PreferencesStore) Get(key string) (string, bool) {
	v := p.Prefs.String(key)
	return v, v != ""
}

func (p PreferencesStore) Set(key, value string) error {
	p.Prefs.SetString(key, value)
	return nil
}
