package vfs

import (
	"fmt"
	"strings"
	"time"
)

// CreateResult reports the outcome of CreatePath. On a final-segment
// collision the tree is returned unchanged and Collision names the existing
// node so the caller can offer an overwrite.
type CreateResult struct {
	Root        *Node
	CreatedName string
	Collision   *Node
}

// CreatePath creates a file (or directory, when input ends with "/") under
// the directory at dirPath, creating intermediate directories as needed.
// Multi-segment input like "a/b/c" is accepted.
func CreatePath(root *Node, dirPath Path, input string, now time.Time) (CreateResult, error) {
	newRoot := Clone(root)
	parent := NodeByPath(newRoot, dirPath)
	if parent == nil || !parent.IsDir() {
		return CreateResult{}, fmt.Errorf("current path: %w", ErrNotFound)
	}

	isDirEnding := strings.HasSuffix(input, "/")
	var parts []string
	for _, p := range strings.Split(input, "/") {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return CreateResult{}, fmt.Errorf("empty name: %w", ErrNotFound)
	}

	current := parent
	var createdName string
	for i, part := range parts {
		isLast := i == len(parts)-1
		kind := KindDir
		if isLast && !isDirEnding {
			kind = KindFile
		}

		var existing *Node
		for _, c := range current.Children {
			if c.Name == part {
				existing = c
				break
			}
		}
		if existing != nil {
			if isLast {
				// Collision on the final target; caller decides on overwrite.
				return CreateResult{Root: root, Collision: existing}, nil
			}
			if !existing.IsDir() {
				return CreateResult{}, fmt.Errorf("cannot create inside file %s: %w", part, ErrNotDir)
			}
			current = existing
			continue
		}

		node := &Node{
			ID:         NewID(),
			Name:       part,
			Kind:       kind,
			ModifiedAt: now,
		}
		if kind == KindDir {
			node.Children = []*Node{}
		}
		insert(current, node)
		current = node
		if isLast {
			createdName = part
		}
	}

	return CreateResult{Root: newRoot, CreatedName: createdName}, nil
}
