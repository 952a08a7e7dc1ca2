package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirEntry_MarshalRoundTrips(t *testing.T) {
	entry := DirEntry{ID: 42, Name: "hello.txt"}
	buf := entry.marshal()
	require.Len(t, buf, DirEntrySize)

	got := unmarshalDirEntry(buf)
	assert.Equal(t, entry, got)
}

func TestDirEntry_NameIsNulPadded(t *testing.T) {
	entry := DirEntry{ID: 1, Name: "a"}
	buf := entry.marshal()
	for i := 3; i < DirEntrySize; i++ {
		assert.Equal(t, byte(0), buf[i], "byte %d should be zero padding", i)
	}
}

func TestUnmarshalDirEntry_EmptySlotHasEmptyName(t *testing.T) {
	got := unmarshalDirEntry(make([]byte, DirEntrySize))
	assert.Equal(t, NodeID(0), got.ID)
	assert.Equal(t, "", got.Name)
}

func TestDirEntry_NameFitsInBudget(t *testing.T) {
	longest := make([]byte, dirEntryNameSize)
	for i := range longest {
		longest[i] = 'x'
	}
	entry := DirEntry{ID: 1, Name: string(longest)}
	buf := entry.marshal()
	got := unmarshalDirEntry(buf)
	assert.Equal(t, entry.Name, got.Name)
}
