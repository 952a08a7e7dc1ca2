package fs

import (
	"bytes"
	"encoding/binary"
)

// DirEntrySize is the exact on-disk size of a directory entry.
const DirEntrySize = 64

// dirEntryNameSize is the fixed width of the name field.
const dirEntryNameSize = DirEntrySize - 2

// DirEntry is a single (id, name) pair stored inside a directory's data
// blocks.
type DirEntry struct {
	ID   NodeID
	Name string
}

func (e DirEntry) marshal() []byte {
	buf := make([]byte, DirEntrySize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(e.ID))
	copy(buf[2:], e.Name)
	return buf
}

func unmarshalDirEntry(slot []byte) DirEntry {
	id := NodeID(binary.LittleEndian.Uint16(slot[0:2]))
	name := slot[2:DirEntrySize]
	nul := bytes.IndexByte(name, 0)
	if nul >= 0 {
		name = name[:nul]
	}
	return DirEntry{ID: id, Name: string(name)}
}
