package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedMap(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Insert("X64", 64)
	m.Insert("IA32", 32)
	m.Insert("AARCH64", 1)
	m.Insert("AARCH64", 64)

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"AARCH64", "IA32", "X64"}, m.Keys())
	assert.Equal(t, []int{64, 32, 64}, m.Values())
	assert.Equal(t, []OrderedMapEntry[string, int]{
		{"AARCH64", 64},
		{"IA32", 32},
		{"X64", 64},
	}, m.Entries())

	v, ok := m.Lookup("IA32")
	assert.True(t, ok)
	assert.Equal(t, 32, v)
	_, ok = m.Lookup("ia32")
	assert.False(t, ok)
}

func TestEmptyOrderedMap(t *testing.T) {
	m := NewOrderedMap[string, string]()
	assert.Empty(t, m.Keys())
	assert.Empty(t, m.Entries())
}

func TestOrderedKeys(t *testing.T) {
	assert.Equal(t, []string{"BOARD", "TARGET", "TOOL_CHAIN_TAG"}, OrderedKeys(map[string]bool{
		"TOOL_CHAIN_TAG": true,
		"BOARD":          true,
		"TARGET":         false,
	}))
}
