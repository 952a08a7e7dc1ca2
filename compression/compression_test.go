package compression_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vild/PNFS/compression"
)

func TestCompressDecompressImage_RoundTrips(t *testing.T) {
	original := bytes.Repeat([]byte{0}, 4096)
	copy(original[1000:1010], []byte("some data "))

	var compressed bytes.Buffer
	n, err := compression.CompressImage(bytes.NewReader(original), &compressed)
	require.NoError(t, err)
	assert.EqualValues(t, compressed.Len(), n)

	restored, err := compression.DecompressImageToBytes(&compressed)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestCompressImage_ShrinksARepetitiveImage(t *testing.T) {
	original := bytes.Repeat([]byte{0}, 128000)

	var compressed bytes.Buffer
	_, err := compression.CompressImage(bytes.NewReader(original), &compressed)
	require.NoError(t, err)

	assert.Less(t, compressed.Len(), len(original))
}
