package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy_CopiesSourceContentsNotAHostFile(t *testing.T) {
	s := newShell()
	var out bytes.Buffer
	app := newApp(s)
	app.Writer = &out

	require.NoError(t, app.Run([]string{"pnfs", "create", "src"}))
	id, err := s.sb.Resolve(s.cwd, "src")
	require.NoError(t, err)
	node := s.sb.GetNode(id)
	require.NoError(t, s.sb.WriteData(&node, 0, []byte("volume contents")))

	require.NoError(t, app.Run([]string{"pnfs", "copy", "src", "dst"}))

	out.Reset()
	require.NoError(t, app.Run([]string{"pnfs", "cat", "dst"}))
	assert.Equal(t, "volume contents", out.String())
}

func TestCopy_OverwritesAnExistingDestination(t *testing.T) {
	s := newShell()
	var out bytes.Buffer
	app := newApp(s)
	app.Writer = &out

	require.NoError(t, app.Run([]string{"pnfs", "create", "src"}))
	srcID, err := s.sb.Resolve(s.cwd, "src")
	require.NoError(t, err)
	srcNode := s.sb.GetNode(srcID)
	require.NoError(t, s.sb.WriteData(&srcNode, 0, []byte("new")))

	require.NoError(t, app.Run([]string{"pnfs", "create", "dst"}))
	dstID, err := s.sb.Resolve(s.cwd, "dst")
	require.NoError(t, err)
	dstNode := s.sb.GetNode(dstID)
	require.NoError(t, s.sb.WriteData(&dstNode, 0, []byte("stale contents to be replaced")))

	require.NoError(t, app.Run([]string{"pnfs", "copy", "src", "dst"}))

	out.Reset()
	require.NoError(t, app.Run([]string{"pnfs", "cat", "dst"}))
	assert.Equal(t, "new", out.String())
}

func TestCopy_RejectsMissingSource(t *testing.T) {
	s := newShell()
	app := newApp(s)
	require.Error(t, app.Run([]string{"pnfs", "copy", "nope", "dst"}))
}
