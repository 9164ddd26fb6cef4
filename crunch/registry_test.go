package crunch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileRegistry(t *testing.T) {
	registry := NewFileRegistry()

	entry1 := &FileEntry{Path: "a.txt", Size: 3}
	entry2 := &FileEntry{Path: "b/c.bin", Size: 9000}

	assert.NoError(t, registry.Register(entry1))
	assert.NoError(t, registry.Register(entry2))
	assert.Equal(t, 2, registry.Len())

	got, ok := registry.Lookup("a.txt")
	assert.True(t, ok)
	assert.Equal(t, entry1, got)

	size, ok := registry.SizeOf("b/c.bin")
	assert.True(t, ok)
	assert.Equal(t, uint64(9000), size)

	_, ok = registry.Lookup("missing")
	assert.False(t, ok)
	_, ok = registry.SizeOf("missing")
	assert.False(t, ok)

	// Paths enumerate in registration order.
	assert.Equal(t, []string{"a.txt", "b/c.bin"}, registry.Paths())
}

func TestFileRegistryDuplicate(t *testing.T) {
	registry := NewFileRegistry()

	assert.NoError(t, registry.Register(&FileEntry{Path: "same"}))

	err := registry.Register(&FileEntry{Path: "same"})
	assert.Error(t, err)
	var dup *DuplicatePathError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "same", dup.Path)
	assert.Equal(t, 1, registry.Len())
}
