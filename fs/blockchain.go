package fs

import (
	"github.com/Vild/PNFS/blockdev"
	"github.com/Vild/PNFS/ferrors"
)

// resolveBlock returns the physical block backing the index-th logical block
// of node's data, following the inline dataBlocks vector and then the
// block-block chain as needed.
func (sb *Superblock) resolveBlock(node NodeRecord, index int) (blockdev.BlockID, error) {
	if index < 0 || index >= int(node.BlockCount) {
		return 0, ferrors.ErrNotFound
	}
	if index < nodeBlockCount {
		return node.DataBlocks[index], nil
	}

	idx := index - nodeBlockCount
	curr := node.Next
	for {
		if curr == 0 {
			return 0, ferrors.ErrCorrupt.WithMessage("block-block chain ended before reaching the requested index")
		}
		data, err := sb.device.Read(curr)
		if err != nil {
			return 0, err
		}
		bb := unmarshalBlockBlock(data)
		if idx < blockBlockSlots {
			return bb.DataBlocks[idx], nil
		}
		idx -= blockBlockSlots
		curr = bb.Next
	}
}

// setDataBlock writes blockID into node's index-th logical slot, allocating
// and chaining new block-blocks as needed to reach that index. It mutates
// node.Next in place but leaves BlockCount and persistence to the caller.
func (sb *Superblock) setDataBlock(node *NodeRecord, index int, blockID blockdev.BlockID) error {
	if index < nodeBlockCount {
		node.DataBlocks[index] = blockID
		return nil
	}

	idx := index - nodeBlockCount
	var prev blockdev.BlockID
	curr := node.Next
	for {
		if curr == 0 {
			newBB, err := sb.allocateBlock()
			if err != nil {
				return err
			}
			if err := sb.device.Write(newBB, make([]byte, blockdev.BlockSize)); err != nil {
				return err
			}
			if prev == 0 {
				node.Next = newBB
			} else {
				pdata, err := sb.device.Read(prev)
				if err != nil {
					return err
				}
				pbb := unmarshalBlockBlock(pdata)
				pbb.Next = newBB
				if err := sb.device.Write(prev, pbb.marshal()); err != nil {
					return err
				}
			}
			curr = newBB
		}

		data, err := sb.device.Read(curr)
		if err != nil {
			return err
		}
		bb := unmarshalBlockBlock(data)
		if idx < blockBlockSlots {
			bb.DataBlocks[idx] = blockID
			return sb.device.Write(curr, bb.marshal())
		}
		idx -= blockBlockSlots
		prev = curr
		curr = bb.Next
	}
}

// addBlock allocates a new zeroed block, appends it as node's next logical
// block, and bumps BlockCount. The caller is responsible for persisting node.
func (sb *Superblock) addBlock(node *NodeRecord) (blockdev.BlockID, error) {
	newBlockID, err := sb.allocateBlock()
	if err != nil {
		return 0, err
	}
	if err := sb.device.Write(newBlockID, make([]byte, blockdev.BlockSize)); err != nil {
		return 0, err
	}
	if err := sb.setDataBlock(node, int(node.BlockCount), newBlockID); err != nil {
		return 0, err
	}
	node.BlockCount++
	return newBlockID, nil
}

// truncateBlocks frees every logical block at index >= newCount, including
// any block-blocks that become entirely empty, and lowers node.BlockCount
// to newCount. The caller is responsible for persisting node.
func (sb *Superblock) truncateBlocks(node *NodeRecord, newCount int) error {
	keepChain := newCount > nodeBlockCount
	for i := int(node.BlockCount) - 1; i >= newCount; i-- {
		blockID, err := sb.resolveBlock(*node, i)
		if err != nil {
			return err
		}
		if blockID != 0 {
			if err := sb.SetBlockFree(blockID); err != nil {
				return err
			}
		}
		if i < nodeBlockCount {
			node.DataBlocks[i] = 0
		} else if keepChain {
			if err := sb.setDataBlock(node, i, 0); err != nil {
				return err
			}
		}
	}

	if !keepChain {
		next := node.Next
		for next != 0 {
			data, err := sb.device.Read(next)
			if err != nil {
				return err
			}
			bb := unmarshalBlockBlock(data)
			toFree := next
			next = bb.Next
			if err := sb.SetBlockFree(toFree); err != nil {
				return err
			}
		}
		node.Next = 0
	}

	node.BlockCount = uint16(newCount)
	return nil
}
