// Package fixtures builds in-memory PNFS volumes and images for use in
// tests elsewhere in the module.
package fixtures

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Vild/PNFS/blockdev"
	"github.com/Vild/PNFS/compression"
	"github.com/Vild/PNFS/fs"
	"github.com/Vild/PNFS/geometry"
)

// NewFormattedVolume returns a freshly formatted Superblock over a blank
// device, failing the test immediately if formatting fails.
func NewFormattedVolume(t *testing.T) *fs.Superblock {
	t.Helper()
	sb := fs.NewSuperblock(blockdev.New())
	require.NoError(t, sb.Format())
	return sb
}

// LoadCompressedImage decompresses an RLE8+gzip-encoded fixture (typically
// embedded with go:embed) and validates it against the standard PNFS
// geometry before returning it.
func LoadCompressedImage(t *testing.T, compressedBytes []byte) []byte {
	t.Helper()
	require.Greater(t, len(compressedBytes), 0, "compressed fixture is empty")

	image, err := compression.DecompressImageToBytes(bytes.NewReader(compressedBytes))
	require.NoError(t, err)
	require.NoError(t, geometry.Standard().Validate(len(image)))
	return image
}

// NewVolumeFromImage restores a Superblock from a raw (uncompressed) image,
// failing the test if the image is corrupt or the wrong size.
func NewVolumeFromImage(t *testing.T, image []byte) *fs.Superblock {
	t.Helper()
	sb := fs.NewSuperblock(blockdev.New())
	require.NoError(t, sb.LoadImage(image))
	return sb
}
