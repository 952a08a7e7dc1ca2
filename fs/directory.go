package fs

import (
	"github.com/Vild/PNFS/blockdev"
	"github.com/Vild/PNFS/ferrors"
)

// entriesPerBlock is how many 64-byte directory entries fit in one
// 512-byte block.
const entriesPerBlock = blockdev.BlockSize / DirEntrySize

// DirectoryEntries decodes every entry stored in a DIRECTORY node, in
// on-disk order (which always starts with "." and "..").
func (sb *Superblock) DirectoryEntries(node NodeRecord) ([]DirEntry, int) {
	count := int(node.Size) / DirEntrySize
	entries := make([]DirEntry, 0, count)
	for i := 0; i < count; i++ {
		blockID, err := sb.resolveBlock(node, i/entriesPerBlock)
		if err != nil {
			break
		}
		data, err := sb.device.Read(blockID)
		if err != nil {
			break
		}
		slot := i % entriesPerBlock
		entries = append(entries, unmarshalDirEntry(data[slot*DirEntrySize:(slot+1)*DirEntrySize]))
	}
	return entries, len(entries)
}

func (sb *Superblock) writeDirSlot(node *NodeRecord, index int, entry DirEntry) error {
	blockID, err := sb.resolveBlock(*node, index/entriesPerBlock)
	if err != nil {
		return err
	}
	data, err := sb.device.Read(blockID)
	if err != nil {
		return err
	}
	slot := index % entriesPerBlock
	copy(data[slot*DirEntrySize:(slot+1)*DirEntrySize], entry.marshal())
	return sb.device.Write(blockID, data)
}

// InsertDirEntry appends entry to the end of parent's entry list, growing
// parent onto a new block if the current last block is full. Rejects a
// duplicate name.
func (sb *Superblock) InsertDirEntry(parent *NodeRecord, entry DirEntry) error {
	entries, count := sb.DirectoryEntries(*parent)
	for _, e := range entries {
		if e.Name == entry.Name {
			return ferrors.ErrExists
		}
	}

	blockIdx := count / entriesPerBlock
	var blockID blockdev.BlockID
	var err error
	if blockIdx < int(parent.BlockCount) {
		blockID, err = sb.resolveBlock(*parent, blockIdx)
	} else {
		blockID, err = sb.addBlock(parent)
		if err == nil {
			err = sb.device.Write(blockID, make([]byte, blockdev.BlockSize))
		}
	}
	if err != nil {
		return err
	}

	data, err := sb.device.Read(blockID)
	if err != nil {
		return err
	}
	slot := count % entriesPerBlock
	copy(data[slot*DirEntrySize:(slot+1)*DirEntrySize], entry.marshal())
	if err := sb.device.Write(blockID, data); err != nil {
		return err
	}

	parent.Size += DirEntrySize
	return sb.SaveNode(*parent)
}

// RemoveDirEntry removes the entry for id from parent. Every entry after it
// shifts left by one slot, cascading across block boundaries, and the
// vacated trailing slot is zeroed. A block left entirely empty by the shift
// is freed.
func (sb *Superblock) RemoveDirEntry(parent *NodeRecord, id NodeID) error {
	entries, count := sb.DirectoryEntries(*parent)
	pos := -1
	for i, e := range entries {
		if e.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return ferrors.ErrNotFound
	}

	for i := pos; i < count-1; i++ {
		if err := sb.writeDirSlot(parent, i, entries[i+1]); err != nil {
			return err
		}
	}
	if err := sb.writeDirSlot(parent, count-1, DirEntry{}); err != nil {
		return err
	}
	parent.Size -= DirEntrySize

	newCount := count - 1
	lastBlockIdx := (count - 1) / entriesPerBlock
	if lastBlockIdx > 0 && newCount <= lastBlockIdx*entriesPerBlock {
		if err := sb.truncateBlocks(parent, lastBlockIdx); err != nil {
			return err
		}
	}
	return sb.SaveNode(*parent)
}
