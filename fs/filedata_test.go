package fs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vild/PNFS/blockdev"
	"github.com/Vild/PNFS/ferrors"
)

func TestWriteThenReadData_RoundTrips(t *testing.T) {
	sb := newFormatted(t)
	rec, err := sb.AddNode(NodeRoot, NodeTypeFile, "f")
	require.NoError(t, err)

	content := []byte("hello, pnfs")
	require.NoError(t, sb.WriteData(&rec, 0, content))
	assert.Equal(t, uint16(len(content)), rec.Size)

	got, err := sb.ReadData(rec, 0, len(content))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestWriteData_PartialOverwriteInTheMiddle(t *testing.T) {
	sb := newFormatted(t)
	rec, err := sb.AddNode(NodeRoot, NodeTypeFile, "f")
	require.NoError(t, err)

	require.NoError(t, sb.WriteData(&rec, 0, []byte("0123456789")))
	require.NoError(t, sb.WriteData(&rec, 3, []byte("XYZ")))

	got, err := sb.ReadData(rec, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("012XYZ6789"), got)
}

func TestReadData_ClampsPastEndOfFile(t *testing.T) {
	sb := newFormatted(t)
	rec, err := sb.AddNode(NodeRoot, NodeTypeFile, "f")
	require.NoError(t, err)
	require.NoError(t, sb.WriteData(&rec, 0, []byte("short")))

	got, err := sb.ReadData(rec, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), got)

	got, err = sb.ReadData(rec, 100, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, got)
}

func TestReadData_RejectsDirectory(t *testing.T) {
	sb := newFormatted(t)
	root := sb.GetNode(NodeRoot)
	_, err := sb.ReadData(root, 0, 10)
	assert.ErrorIs(t, err, ferrors.ErrInvalidNodeType)
}

func TestWriteData_SpillsIntoABlockBlock(t *testing.T) {
	sb := newFormatted(t)
	rec, err := sb.AddNode(NodeRoot, NodeTypeFile, "big")
	require.NoError(t, err)

	// nodeBlockCount inline slots, plus a handful more to force indirection.
	totalBlocks := nodeBlockCount + 3
	content := bytes.Repeat([]byte{0xAB}, totalBlocks*blockdev.BlockSize)
	require.NoError(t, sb.WriteData(&rec, 0, content))

	assert.Equal(t, uint16(totalBlocks), rec.BlockCount)
	assert.NotEqual(t, blockdev.BlockID(0), rec.Next)

	got, err := sb.ReadData(rec, 0, len(content))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestTruncate_ShrinksAndFreesBlocks(t *testing.T) {
	sb := newFormatted(t)
	rec, err := sb.AddNode(NodeRoot, NodeTypeFile, "f")
	require.NoError(t, err)
	require.NoError(t, sb.WriteData(&rec, 0, bytes.Repeat([]byte{1}, 3*blockdev.BlockSize)))

	freeBefore, err := sb.GetFreeBlockID()
	require.NoError(t, err)

	require.NoError(t, sb.Truncate(&rec, blockdev.BlockSize))
	assert.Equal(t, uint16(1), rec.BlockCount)
	assert.Equal(t, uint16(blockdev.BlockSize), rec.Size)

	freeAfter, err := sb.GetFreeBlockID()
	require.NoError(t, err)
	assert.NotEqual(t, freeBefore, freeAfter)
}

func TestWriteData_GapPastEndOfFileLandsAtCorrectOffset(t *testing.T) {
	sb := newFormatted(t)
	rec, err := sb.AddNode(NodeRoot, NodeTypeFile, "f")
	require.NoError(t, err)

	require.NoError(t, sb.WriteData(&rec, 0, []byte("AAAA")))

	gapOffset := 2 * blockdev.BlockSize
	require.NoError(t, sb.WriteData(&rec, gapOffset, []byte("ZZZZ")))
	assert.Equal(t, uint16(3), rec.BlockCount)

	tail, err := sb.ReadData(rec, gapOffset, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("ZZZZ"), tail)

	head, err := sb.ReadData(rec, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("AAAA"), head)
}

func TestWriteData_RejectsDirectory(t *testing.T) {
	sb := newFormatted(t)
	root := sb.GetNode(NodeRoot)
	err := sb.WriteData(&root, 0, []byte("x"))
	assert.ErrorIs(t, err, ferrors.ErrInvalidNodeType)
}
