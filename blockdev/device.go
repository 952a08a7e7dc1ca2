// Package blockdev implements the PNFS block device: a fixed array of
// 250 blocks of 512 bytes each, held in host memory and addressable only in
// whole-block units.
package blockdev

import (
	"fmt"
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// BlockSize is the size, in bytes, of a single block.
const BlockSize = 512

// TotalBlocks is the fixed number of blocks the device exposes.
const TotalBlocks = 250

// ImageSize is the exact size, in bytes, of a saved/restored host image.
const ImageSize = BlockSize * TotalBlocks

// BlockID addresses one of the device's blocks. It's a precondition of every
// operation below that id is in [0, TotalBlocks); callers (the superblock
// and node table) are expected to have validated this already, since an
// out-of-range ID here is a programmer error, not a recoverable filesystem
// condition.
type BlockID uint16

// Device is the fixed-capacity block store backing a PNFS volume. Its fields
// are unexported; the device is accessed only through Read, Write, Clear,
// LoadFromImage and SaveToImage.
type Device struct {
	buf    []byte
	stream io.ReadWriteSeeker
}

// New creates a zero-initialized device of exactly TotalBlocks blocks.
func New() *Device {
	buf := make([]byte, ImageSize)
	return &Device{
		buf:    buf,
		stream: bytesextra.NewReadWriteSeeker(buf),
	}
}

func (d *Device) checkRange(id BlockID) error {
	if uint(id) >= TotalBlocks {
		return fmt.Errorf("block id %d out of range [0, %d)", id, TotalBlocks)
	}
	return nil
}

func (d *Device) seekToBlock(id BlockID) error {
	if err := d.checkRange(id); err != nil {
		return err
	}
	_, err := d.stream.Seek(int64(id)*BlockSize, io.SeekStart)
	return err
}

// Read returns a copy of the BlockSize bytes stored at id.
func (d *Device) Read(id BlockID) ([]byte, error) {
	if err := d.seekToBlock(id); err != nil {
		return nil, err
	}
	block := make([]byte, BlockSize)
	if _, err := io.ReadFull(d.stream, block); err != nil {
		return nil, err
	}
	return block, nil
}

// Write overwrites the block at id with data, which must be exactly
// BlockSize bytes.
func (d *Device) Write(id BlockID, data []byte) error {
	if len(data) != BlockSize {
		return fmt.Errorf("write to block %d: data must be %d bytes, got %d", id, BlockSize, len(data))
	}
	if err := d.seekToBlock(id); err != nil {
		return err
	}
	_, err := d.stream.Write(data)
	return err
}

// Clear zeroes every block on the device.
func (d *Device) Clear() {
	for i := range d.buf {
		d.buf[i] = 0
	}
}

// LoadFromImage replaces the device's contents with data, which must be
// exactly ImageSize bytes: the concatenation of all 250 blocks in index
// order.
func (d *Device) LoadFromImage(data []byte) error {
	if len(data) != ImageSize {
		return fmt.Errorf("image is %d bytes, expected exactly %d", len(data), ImageSize)
	}
	copy(d.buf, data)
	return nil
}

// SaveToImage returns a copy of the device's entire contents, suitable for a
// bulk byte dump to a host file.
func (d *Device) SaveToImage() []byte {
	out := make([]byte, ImageSize)
	copy(out, d.buf)
	return out
}
