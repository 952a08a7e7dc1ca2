package fs

import (
	"github.com/Vild/PNFS/blockdev"
	"github.com/Vild/PNFS/ferrors"
)

// ReadData reads up to length bytes starting at offset from a FILE node,
// clamped to the node's recorded Size. Reading past end-of-file returns an
// empty slice rather than an error.
func (sb *Superblock) ReadData(node NodeRecord, offset, length int) ([]byte, error) {
	if node.Type != NodeTypeFile {
		return nil, ferrors.ErrInvalidNodeType
	}
	if offset < 0 || length < 0 {
		return nil, ferrors.ErrRejected
	}

	size := int(node.Size)
	if offset >= size {
		return []byte{}, nil
	}
	end := offset + length
	if end > size {
		end = size
	}

	out := make([]byte, 0, end-offset)
	for pos := offset; pos < end; {
		idx := pos / blockdev.BlockSize
		blockID, err := sb.resolveBlock(node, idx)
		if err != nil {
			return nil, err
		}
		block, err := sb.device.Read(blockID)
		if err != nil {
			return nil, err
		}
		blockStart := idx * blockdev.BlockSize
		lo := pos - blockStart
		hi := blockdev.BlockSize
		if blockStart+hi > end {
			hi = end - blockStart
		}
		out = append(out, block[lo:hi]...)
		pos = blockStart + hi
	}
	return out, nil
}

// WriteData writes data at offset into a FILE node, allocating new blocks as
// needed and growing Size if the write extends past the current end. It
// never shrinks a file; use Truncate for that.
func (sb *Superblock) WriteData(node *NodeRecord, offset int, data []byte) error {
	if node.Type != NodeTypeFile {
		return ferrors.ErrInvalidNodeType
	}
	if offset < 0 {
		return ferrors.ErrRejected
	}
	if len(data) == 0 {
		return nil
	}

	end := offset + len(data)
	needed := (end-1)/blockdev.BlockSize + 1
	for int(node.BlockCount) < needed {
		if _, err := sb.addBlock(node); err != nil {
			return err
		}
	}

	for pos := offset; pos < end; {
		idx := pos / blockdev.BlockSize
		blockStart := idx * blockdev.BlockSize

		blockID, err := sb.resolveBlock(*node, idx)
		if err != nil {
			return err
		}

		block, err := sb.device.Read(blockID)
		if err != nil {
			return err
		}
		lo := pos - blockStart
		hi := blockdev.BlockSize
		if blockStart+hi > end {
			hi = end - blockStart
		}
		copy(block[lo:hi], data[blockStart+lo-offset:blockStart+hi-offset])
		if err := sb.device.Write(blockID, block); err != nil {
			return err
		}
		pos = blockStart + hi
	}

	if end > int(node.Size) {
		node.Size = uint16(end)
	}
	return sb.SaveNode(*node)
}

// Truncate sets a FILE node's size, freeing any blocks that fall outside
// the new size. Growing via Truncate leaves the new tail unwritten (zeroed
// on disk, since Format/addBlock always zero new blocks).
func (sb *Superblock) Truncate(node *NodeRecord, newSize int) error {
	if node.Type != NodeTypeFile {
		return ferrors.ErrInvalidNodeType
	}
	if newSize < 0 {
		return ferrors.ErrRejected
	}

	newBlockCount := 0
	if newSize > 0 {
		newBlockCount = (newSize-1)/blockdev.BlockSize + 1
	}
	if newBlockCount < int(node.BlockCount) {
		if err := sb.truncateBlocks(node, newBlockCount); err != nil {
			return err
		}
	}
	for int(node.BlockCount) < newBlockCount {
		if _, err := sb.addBlock(node); err != nil {
			return err
		}
	}
	node.Size = uint16(newSize)
	return sb.SaveNode(*node)
}
