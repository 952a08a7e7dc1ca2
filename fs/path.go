package fs

import (
	"strings"

	"github.com/Vild/PNFS/ferrors"
)

// tokenize splits a path on "/" and drops empty segments, so "a//b/" and
// "a/b" tokenize identically. "." and ".." are returned as ordinary tokens;
// they're resolved by walking real directory entries, not by string-level
// normalization, since a node's own "." and ".." entries are the only
// authority on where they point.
func tokenize(path string) []string {
	raw := strings.Split(path, "/")
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Resolve walks path one entry at a time starting from start, looking up
// each component in the current node's directory entries. An absolute path
// (leading "/") starts from the root regardless of start.
func (sb *Superblock) Resolve(start NodeID, path string) (NodeID, error) {
	current := start
	if strings.HasPrefix(path, "/") {
		current = NodeRoot
	}

	for _, part := range tokenize(path) {
		node := sb.GetNode(current)
		if node.Type != NodeTypeDirectory {
			return NodeInvalid, ferrors.ErrNotADirectory
		}
		entries, count := sb.DirectoryEntries(node)
		found := false
		for i := 0; i < count; i++ {
			if entries[i].Name == part {
				current = entries[i].ID
				found = true
				break
			}
		}
		if !found {
			return NodeInvalid, ferrors.ErrNotFound
		}
	}
	return current, nil
}

// ResolveParentAndName splits path into the directory containing its last
// component and that component's name, resolving the directory relative to
// start the same way Resolve does. It rejects "/" and "" since neither names
// a removable/creatable entry.
func (sb *Superblock) ResolveParentAndName(start NodeID, path string) (NodeID, string, error) {
	parts := tokenize(path)
	if len(parts) == 0 {
		return NodeInvalid, "", ferrors.ErrRejected
	}

	name := parts[len(parts)-1]
	base := start
	if strings.HasPrefix(path, "/") {
		base = NodeRoot
	}

	parentID := base
	for _, part := range parts[:len(parts)-1] {
		node := sb.GetNode(parentID)
		if node.Type != NodeTypeDirectory {
			return NodeInvalid, "", ferrors.ErrNotADirectory
		}
		entries, count := sb.DirectoryEntries(node)
		found := false
		for i := 0; i < count; i++ {
			if entries[i].Name == part {
				parentID = entries[i].ID
				found = true
				break
			}
		}
		if !found {
			return NodeInvalid, "", ferrors.ErrNotFound
		}
	}
	return parentID, name, nil
}
