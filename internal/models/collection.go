package models

import "strconv"

// LocationMap is a keyed collection that remembers insertion order.
type LocationMap struct {
	keys  []string
	items map[string]*Location
}

// NewLocationMap creates an empty collection.
func NewLocationMap() *LocationMap {
	return &LocationMap{items: make(map[string]*Location)}
}

// Put stores loc under key. Replacing an existing key keeps its position.
func (m *LocationMap) Put(key string, loc *Location) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = loc
}

// Keys returns the keys in insertion order.
func (m *LocationMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the locations in insertion order.
func (m *LocationMap) Values() []*Location {
	out := make([]*Location, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.items[k])
	}
	return out
}

// Len returns the number of entries. A nil map is empty.
func (m *LocationMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Add stores loc under its group key, appending " (n)" when the key is
// already taken, and returns the key used.
func (m *LocationMap) Add(loc *Location) string {
	base := loc.GroupKey()
	key := base
	for n := 2; ; n++ {
		if _, taken := m.items[key]; !taken {
			break
		}
		key = base + " (" + strconv.Itoa(n) + ")"
	}
	m.Put(key, loc)
	return key
}
