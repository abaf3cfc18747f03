package util

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// OrderedMap is a map whose iteration is ordered by key. Inserting an existing key
// replaces its value.
type OrderedMap[K constraints.Ordered, V any] struct {
	data map[K]V
}

// OrderedMapEntry is a single (key, value) pair of the map.
type OrderedMapEntry[K constraints.Ordered, V any] struct {
	Key   K
	Value V
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K constraints.Ordered, V any]() OrderedMap[K, V] {
	return OrderedMap[K, V]{data: map[K]V{}}
}

func (m *OrderedMap[K, V]) Insert(key K, value V) {
	m.data[key] = value
}

func (m *OrderedMap[K, V]) Lookup(key K) (V, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *OrderedMap[K, V]) Len() int {
	return len(m.data)
}

// Entries returns all entries ordered by key.
func (m *OrderedMap[K, V]) Entries() []OrderedMapEntry[K, V] {
	result := make([]OrderedMapEntry[K, V], 0, len(m.data))
	for _, k := range m.Keys() {
		result = append(result, OrderedMapEntry[K, V]{Key: k, Value: m.data[k]})
	}
	return result
}

func (m *OrderedMap[K, V]) Keys() []K {
	return OrderedKeys(m.data)
}

// Values returns the values ordered by their keys.
func (m *OrderedMap[K, V]) Values() []V {
	result := make([]V, 0, len(m.data))
	for _, k := range m.Keys() {
		result = append(result, m.data[k])
	}
	return result
}

// OrderedKeys returns the keys of a map in order.
func OrderedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
