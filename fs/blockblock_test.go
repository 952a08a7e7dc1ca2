package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vild/PNFS/blockdev"
)

func TestBlockBlock_MarshalRoundTrips(t *testing.T) {
	bb := blockBlock{Next: 17}
	bb.DataBlocks[0] = 3
	bb.DataBlocks[blockBlockSlots-1] = 250

	buf := bb.marshal()
	assert.Len(t, buf, blockdev.BlockSize)

	got := unmarshalBlockBlock(buf)
	assert.Equal(t, bb, got)
}

func TestBlockBlockSlots_FitsExactlyInOneBlock(t *testing.T) {
	assert.Equal(t, blockdev.BlockSize, (blockBlockSlots+1)*2)
}
