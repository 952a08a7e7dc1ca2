package fs

import (
	"encoding/binary"
	"fmt"

	"github.com/Vild/PNFS/blockdev"
)

// NodeID identifies a slot in the 128-entry node table.
type NodeID uint16

// NodeInvalid is the reserved ID for an empty/never-allocated slot. It is
// never returned as a successful allocation; exhaustion is reported as an
// error instead (see ferrors.ErrNoFreeNodes).
const NodeInvalid NodeID = 0

// NodeRoot is the reserved ID of the filesystem root directory.
const NodeRoot NodeID = 1

// TotalNodes is the fixed size of the node table.
const TotalNodes = 128

// NodesPerBlock is how many 64-byte node records fit in one 512-byte block.
const NodesPerBlock = 8

// NodeTableFirstBlock / NodeTableLastBlock are the inclusive block range
// holding the node table (blocks 1..16).
const (
	NodeTableFirstBlock blockdev.BlockID = 1
	NodeTableLastBlock  blockdev.BlockID = 16
)

// NodeRecordSize is the exact on-disk size of a node record, in bytes.
const NodeRecordSize = 64

// nodeBlockCount is PNFS_NODE_BLOCKCOUNT: the number of inline data-block
// slots a node record carries, derived from the 64-byte budget minus the
// fixed-size fields (id, type, size, blockCount, next, 2 bytes each).
const nodeBlockCount = (NodeRecordSize - 2*5) / 2

// NodeType tags what a node record represents.
type NodeType uint16

const (
	NodeTypeInvalid    NodeType = 0
	NodeTypeFile       NodeType = 1
	NodeTypeDirectory  NodeType = 2
	NodeTypeNeverValid NodeType = 3
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeFile:
		return "FILE"
	case NodeTypeDirectory:
		return "DIRECTORY"
	case NodeTypeNeverValid:
		return "NEVER_VALID"
	default:
		return "INVALID"
	}
}

// NodeRecord is the in-memory handle for one node-table slot: a value copy
// of the on-disk record. Mutations are local until passed to
// Superblock.SaveNode.
type NodeRecord struct {
	ID         NodeID
	Type       NodeType
	Size       uint16
	BlockCount uint16
	DataBlocks [nodeBlockCount]blockdev.BlockID
	Next       blockdev.BlockID
}

// slotOffset returns the block holding id's record and the byte offset of
// its 64-byte slot within that block.
func slotOffset(id NodeID) (blockdev.BlockID, int) {
	block := blockdev.BlockID(id/NodesPerBlock) + NodeTableFirstBlock
	offset := int(id%NodesPerBlock) * NodeRecordSize
	return block, offset
}

// marshal writes the record into a NodeRecordSize-byte slot, preserving the
// exact on-disk layout spec'd for PNFS node records.
func (n NodeRecord) marshal() []byte {
	buf := make([]byte, NodeRecordSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(n.ID))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(n.Type))
	binary.LittleEndian.PutUint16(buf[4:6], n.Size)
	binary.LittleEndian.PutUint16(buf[6:8], n.BlockCount)
	off := 8
	for _, b := range n.DataBlocks {
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(b))
		off += 2
	}
	binary.LittleEndian.PutUint16(buf[off:off+2], uint16(n.Next))
	return buf
}

// unmarshalNodeRecord reads a NodeRecordSize-byte slot back into a record.
func unmarshalNodeRecord(id NodeID, slot []byte) (NodeRecord, error) {
	if len(slot) != NodeRecordSize {
		return NodeRecord{}, fmt.Errorf("node slot must be %d bytes, got %d", NodeRecordSize, len(slot))
	}
	var n NodeRecord
	n.ID = NodeID(binary.LittleEndian.Uint16(slot[0:2]))
	n.Type = NodeType(binary.LittleEndian.Uint16(slot[2:4]))
	n.Size = binary.LittleEndian.Uint16(slot[4:6])
	n.BlockCount = binary.LittleEndian.Uint16(slot[6:8])
	off := 8
	for i := range n.DataBlocks {
		n.DataBlocks[i] = blockdev.BlockID(binary.LittleEndian.Uint16(slot[off : off+2]))
		off += 2
	}
	n.Next = blockdev.BlockID(binary.LittleEndian.Uint16(slot[off : off+2]))
	_ = id
	return n, nil
}
