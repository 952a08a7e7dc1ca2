package fs

import (
	"encoding/binary"

	"github.com/Vild/PNFS/blockdev"
)

// blockBlockSlots is M: the number of additional data-block IDs a block-block
// carries, derived from a full 512-byte block minus the 2-byte next pointer.
const blockBlockSlots = blockdev.BlockSize/2 - 1

// blockBlock is an indirect block chaining additional data-block IDs onto a
// node that has outgrown its inline dataBlocks vector.
type blockBlock struct {
	DataBlocks [blockBlockSlots]blockdev.BlockID
	Next       blockdev.BlockID
}

func (b blockBlock) marshal() []byte {
	buf := make([]byte, blockdev.BlockSize)
	off := 0
	for _, id := range b.DataBlocks {
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(id))
		off += 2
	}
	binary.LittleEndian.PutUint16(buf[off:off+2], uint16(b.Next))
	return buf
}

func unmarshalBlockBlock(data []byte) blockBlock {
	var b blockBlock
	off := 0
	for i := range b.DataBlocks {
		b.DataBlocks[i] = blockdev.BlockID(binary.LittleEndian.Uint16(data[off : off+2]))
		off += 2
	}
	b.Next = blockdev.BlockID(binary.LittleEndian.Uint16(data[off : off+2]))
	return b
}
