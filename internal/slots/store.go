package slots

import "sync"

// Store is the externally-owned conversation slot store. The core reads the
// raw facet toggles and values through it and writes back normalized state;
// who persists the slots between turns is the caller's concern.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	ResetAll()
}

// LoadConfig rebuilds the filter configuration from the slot store.
func LoadConfig(s Store) FilterConfig {
	return FilterConfig{
		Genres:     loadFacet(s, SlotGenresFilter, SlotGenres),
		Publishers: loadFacet(s, SlotPublishersFilter, SlotPublishers),
	}
}

// SaveConfig writes both facets back to the slot store.
func SaveConfig(s Store, cfg FilterConfig) {
	saveFacet(s, SlotGenresFilter, SlotGenres, cfg.Genres)
	saveFacet(s, SlotPublishersFilter, SlotPublishers, cfg.Publishers)
}

// FacetKeys maps a facet to its toggle/values slot keys.
func FacetKeys(name FacetName) (toggleKey, valuesKey string) {
	if name == FacetPublishers {
		return SlotPublishersFilter, SlotPublishers
	}
	return SlotGenresFilter, SlotGenres
}

// LoadFacet reads one facet from the slot store.
func LoadFacet(s Store, name FacetName) Facet {
	toggleKey, valuesKey := FacetKeys(name)
	return loadFacet(s, toggleKey, valuesKey)
}

// SaveFacet writes one facet back to the slot store.
func SaveFacet(s Store, name FacetName, f Facet) {
	toggleKey, valuesKey := FacetKeys(name)
	saveFacet(s, toggleKey, valuesKey, f)
}

func loadFacet(s Store, toggleKey, valuesKey string) Facet {
	toggle, _ := s.Get(toggleKey)
	values, _ := s.Get(valuesKey)
	return FacetFromSlots(toggle, values)
}

func saveFacet(s Store, toggleKey, valuesKey string, f Facet) {
	toggle, values := f.ToSlots()
	s.Set(toggleKey, toggle)
	s.Set(valuesKey, values)
}

// MemoryStore is a plain in-process slot store, enough for the CLI client
// and for tests. One instance belongs to one conversation.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]any)}
}

func (m *MemoryStore) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (m *MemoryStore) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == nil {
		delete(m.values, key)
		return
	}
	m.values[key] = value
}

func (m *MemoryStore) ResetAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]any)
}
