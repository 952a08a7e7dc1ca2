// Package fs implements the PNFS on-disk structures: the node table, free-
// block bitmap, directory entries, indirect block-blocks, and the path
// resolution and read/write engine built on top of them. It has exactly one
// on-disk layout; there's no driver registry or capability negotiation,
// unlike a filesystem package built to support several formats.
package fs
