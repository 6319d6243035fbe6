package chart

import (
	"sort"

	"github.com/c9s/chartsync/pkg/types"
)

// VisibilityMap stores the visibility toggle of each logical key.
// Keys that were never toggled are visible.
type VisibilityMap struct {
	hidden map[types.LogicalKey]bool
}

func NewVisibilityMap() *VisibilityMap {
	return &VisibilityMap{hidden: make(map[types.LogicalKey]bool)}
}

func (m *VisibilityMap) IsVisible(key types.LogicalKey) bool {
	return !m.hidden[key]
}

func (m *VisibilityMap) Set(key types.LogicalKey, visible bool) {
	if visible {
		delete(m.hidden, key)
		return
	}
	m.hidden[key] = true
}

// Toggle flips the visibility of the key and returns the new value.
func (m *VisibilityMap) Toggle(key types.LogicalKey) bool {
	visible := !m.IsVisible(key)
	m.Set(key, visible)
	return visible
}

// Hidden returns the hidden keys in sorted order.
func (m *VisibilityMap) Hidden() []types.LogicalKey {
	var keys []types.LogicalKey
	for k := range m.hidden {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
