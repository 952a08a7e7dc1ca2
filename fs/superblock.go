package fs

import (
	"encoding/binary"

	bitmap "github.com/boljen/go-bitmap"
	"github.com/hashicorp/go-multierror"
	"github.com/noxer/bytewriter"

	"github.com/Vild/PNFS/blockdev"
	"github.com/Vild/PNFS/ferrors"
)

// Magic is the 32-bit superblock signature: the ASCII bytes "PNFS" read as a
// little-endian uint32.
const Magic uint32 = 0x53464E50

// bitmapSize is the exact on-disk size of the free-block bitmap, in bytes.
// 250 blocks rounds up to 32 bytes (256 bits).
const bitmapSize = (blockdev.TotalBlocks + 7) / 8

// Superblock mediates every node load/save against the block device and owns
// the free-block bitmap. It is a single concrete type; there's no
// vtable-style dispatch because PNFS has exactly one on-disk
// format.
type Superblock struct {
	device     *blockdev.Device
	freeBlocks bitmap.Bitmap
}

// NewSuperblock wraps a device. The caller must call Format or LoadImage
// before using the filesystem.
func NewSuperblock(device *blockdev.Device) *Superblock {
	return &Superblock{
		device:     device,
		freeBlocks: bitmap.New(blockdev.TotalBlocks),
	}
}

// persist writes the magic and free-block bitmap back to block 0.
func (sb *Superblock) persist() error {
	buf := make([]byte, blockdev.BlockSize)
	writer := bytewriter.New(buf)
	binary.Write(writer, binary.LittleEndian, Magic)
	writer.Write(sb.freeBlocks.Data(false))
	return sb.device.Write(0, buf)
}

// readHeader reloads the magic and bitmap from block 0. It does not format
// the device; the caller decides what to do if the magic doesn't match.
func (sb *Superblock) readHeader() (uint32, error) {
	block, err := sb.device.Read(0)
	if err != nil {
		return 0, err
	}
	magic := binary.LittleEndian.Uint32(block[0:4])
	sb.freeBlocks = bitmap.Bitmap(append([]byte(nil), block[4:4+bitmapSize]...))
	return magic, nil
}

// Format zeroes the device and re-initializes the superblock and root
// directory. Calling Format twice produces byte-identical images.
func (sb *Superblock) Format() error {
	sb.device.Clear()
	sb.freeBlocks = bitmap.New(blockdev.TotalBlocks)

	sb.freeBlocks.Set(0, true)
	for b := NodeTableFirstBlock; b <= NodeTableLastBlock; b++ {
		sb.freeBlocks.Set(int(b), true)
	}
	if err := sb.persist(); err != nil {
		return err
	}

	if err := sb.SaveNode(NodeRecord{ID: NodeInvalid, Type: NodeTypeNeverValid}); err != nil {
		return err
	}

	blockID, err := sb.allocateBlock()
	if err != nil {
		return err
	}
	root := NodeRecord{ID: NodeRoot, Type: NodeTypeDirectory, Size: 2 * DirEntrySize, BlockCount: 1}
	root.DataBlocks[0] = blockID
	if err := sb.writeDirBlock(blockID, []DirEntry{
		{ID: NodeRoot, Name: "."},
		{ID: NodeRoot, Name: ".."},
	}); err != nil {
		return err
	}
	return sb.SaveNode(root)
}

// LoadImage restores the device from a raw 128,000-byte image and re-reads
// the superblock header from block 0. It does not format the device if the
// magic doesn't match; callers (the shell's restoreImage command) are
// expected to fall back to Format themselves.
func (sb *Superblock) LoadImage(data []byte) error {
	if err := sb.device.LoadFromImage(data); err != nil {
		return err
	}
	magic, err := sb.readHeader()
	if err != nil {
		return err
	}
	if magic != Magic {
		return ferrors.ErrCorrupt.WithMessage("image magic does not match PNFS")
	}
	return nil
}

// SaveImage returns the raw byte dump of the entire device.
func (sb *Superblock) SaveImage() []byte {
	return sb.device.SaveToImage()
}

func (sb *Superblock) writeDirBlock(id blockdev.BlockID, entries []DirEntry) error {
	buf := make([]byte, blockdev.BlockSize)
	for i, e := range entries {
		copy(buf[i*DirEntrySize:(i+1)*DirEntrySize], e.marshal())
	}
	return sb.device.Write(id, buf)
}

// GetNode always returns a record, even for a slot whose on-disk type is
// NodeTypeInvalid; callers inspect Type to see whether it's valid.
func (sb *Superblock) GetNode(id NodeID) NodeRecord {
	block, offset := slotOffset(id)
	data, err := sb.device.Read(block)
	if err != nil {
		return NodeRecord{ID: id}
	}
	rec, err := unmarshalNodeRecord(id, data[offset:offset+NodeRecordSize])
	if err != nil {
		return NodeRecord{ID: id}
	}
	return rec
}

// SaveNode rewrites a node's slot via read-modify-write of its containing
// block.
func (sb *Superblock) SaveNode(node NodeRecord) error {
	block, offset := slotOffset(node.ID)
	data, err := sb.device.Read(block)
	if err != nil {
		return err
	}
	copy(data[offset:offset+NodeRecordSize], node.marshal())
	return sb.device.Write(block, data)
}

// GetFreeNodeID scans the node table for the first slot whose on-disk type
// is NodeTypeInvalid. It returns ferrors.ErrNoFreeNodes if the table is
// full; NodeInvalid (0) is never returned as a successful allocation.
func (sb *Superblock) GetFreeNodeID() (NodeID, error) {
	for i := NodeID(0); i < TotalNodes; i++ {
		if sb.GetNode(i).Type == NodeTypeInvalid {
			return i, nil
		}
	}
	return NodeInvalid, ferrors.ErrNoFreeNodes
}

// GetFreeBlockID scans the free-block bitmap for the first clear bit. It
// returns ferrors.ErrNoFreeBlocks if the device is full.
func (sb *Superblock) GetFreeBlockID() (blockdev.BlockID, error) {
	for i := 0; i < blockdev.TotalBlocks; i++ {
		if !sb.freeBlocks.Get(i) {
			return blockdev.BlockID(i), nil
		}
	}
	return 0, ferrors.ErrNoFreeBlocks
}

// SetBlockUsed marks a block used and immediately persists the superblock.
func (sb *Superblock) SetBlockUsed(id blockdev.BlockID) error {
	sb.freeBlocks.Set(int(id), true)
	return sb.persist()
}

// SetBlockFree marks a block free and immediately persists the superblock.
func (sb *Superblock) SetBlockFree(id blockdev.BlockID) error {
	sb.freeBlocks.Set(int(id), false)
	return sb.persist()
}

// allocateBlock finds a free block, marks it used, and returns its ID.
func (sb *Superblock) allocateBlock() (blockdev.BlockID, error) {
	id, err := sb.GetFreeBlockID()
	if err != nil {
		return 0, err
	}
	if err := sb.SetBlockUsed(id); err != nil {
		return 0, err
	}
	return id, nil
}

// AddNode allocates a free node ID and creates a FILE or DIRECTORY under
// parent, inserting (newID, name) into parent's entries.
func (sb *Superblock) AddNode(parentID NodeID, typ NodeType, name string) (NodeRecord, error) {
	parent := sb.GetNode(parentID)
	if parent.Type != NodeTypeDirectory {
		return NodeRecord{}, ferrors.ErrNotADirectory
	}

	entries, count := sb.DirectoryEntries(parent)
	for i := 0; i < count; i++ {
		if entries[i].Name == name {
			return NodeRecord{}, ferrors.ErrExists
		}
	}

	newID, err := sb.GetFreeNodeID()
	if err != nil {
		return NodeRecord{}, err
	}

	var rec NodeRecord
	switch typ {
	case NodeTypeFile:
		rec = NodeRecord{ID: newID, Type: NodeTypeFile}
	case NodeTypeDirectory:
		blockID, err := sb.allocateBlock()
		if err != nil {
			return NodeRecord{}, err
		}
		rec = NodeRecord{ID: newID, Type: NodeTypeDirectory, Size: 2 * DirEntrySize, BlockCount: 1}
		rec.DataBlocks[0] = blockID
		if err := sb.writeDirBlock(blockID, []DirEntry{
			{ID: newID, Name: "."},
			{ID: parentID, Name: ".."},
		}); err != nil {
			return NodeRecord{}, err
		}
	default:
		return NodeRecord{}, ferrors.ErrInvalidNodeType
	}

	if err := sb.SaveNode(rec); err != nil {
		return NodeRecord{}, err
	}
	if err := sb.InsertDirEntry(&parent, DirEntry{ID: newID, Name: name}); err != nil {
		return NodeRecord{}, err
	}
	return rec, nil
}

// RemoveNode removes id from parent, recursively removing a directory's
// children first. It rejects an attempt to remove a node's own self-entry
// (id == parent.id), which is also how removing the root is rejected, since
// the root is its own parent. It's idempotent on an already-invalid node.
func (sb *Superblock) RemoveNode(parentID, id NodeID) (bool, error) {
	if id == parentID {
		return false, nil
	}

	node := sb.GetNode(id)
	if node.Type == NodeTypeInvalid {
		return false, nil
	}

	if node.Type == NodeTypeDirectory {
		entries, count := sb.DirectoryEntries(node)
		var merr *multierror.Error
		for i := 0; i < count; i++ {
			e := entries[i]
			if e.Name == "." || e.Name == ".." {
				continue
			}
			if _, err := sb.RemoveNode(id, e.ID); err != nil {
				merr = multierror.Append(merr, err)
			}
		}
		if err := merr.ErrorOrNil(); err != nil {
			return false, err
		}
	}

	if err := sb.truncateBlocks(&node, 0); err != nil {
		return false, err
	}

	parent := sb.GetNode(parentID)
	if err := sb.RemoveDirEntry(&parent, id); err != nil {
		return false, err
	}

	if err := sb.SaveNode(NodeRecord{ID: id}); err != nil {
		return false, err
	}
	return true, nil
}
