package fixtures_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vild/PNFS/fixtures"
	"github.com/Vild/PNFS/fs"
)

func TestNewFormattedVolume_HasRoot(t *testing.T) {
	sb := fixtures.NewFormattedVolume(t)
	root := sb.GetNode(fs.NodeRoot)
	assert.Equal(t, fs.NodeTypeDirectory, root.Type)
}

func TestNewVolumeFromImage_RoundTripsAFormattedVolume(t *testing.T) {
	sb := fixtures.NewFormattedVolume(t)
	_, err := sb.AddNode(fs.NodeRoot, fs.NodeTypeFile, "seed")
	require.NoError(t, err)

	restored := fixtures.NewVolumeFromImage(t, sb.SaveImage())
	root := restored.GetNode(fs.NodeRoot)
	entries, count := restored.DirectoryEntries(root)
	require.Equal(t, 3, count)
	assert.Equal(t, "seed", entries[2].Name)
}
