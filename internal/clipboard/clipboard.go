// Package clipboard implements grab (cut/yank) and the two paste flows.
// A grab captures deep snapshots; the clipboard stays valid even if the
// originals are deleted or moved afterwards.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/mkersey/subshell/internal/vfs"
)

// Op distinguishes cut from yank. A cut paste moves and clears the
// clipboard; a yank paste duplicates and keeps it.
type Op int

const (
	OpCut Op = iota
	OpYank
)

func (o Op) String() string {
	if o == OpCut {
		return "cut"
	}
	return "yank"
}

// Entry is one grabbed node with the directory it was grabbed from. Origin
// is resolved against the live tree at grab time, so entries grabbed out of
// a search view still point at their true location.
type Entry struct {
	Node   *vfs.Node
	Origin vfs.Path
}

// Clipboard holds the grabbed set. The zero value is empty.
type Clipboard struct {
	Entries []Entry
	Op      Op
}

func (cb Clipboard) Empty() bool { return len(cb.Entries) == 0 }

// Contains reports whether a node with the given ID is on the clipboard.
func (cb Clipboard) Contains(id string) bool {
	for _, e := range cb.Entries {
		if e.Node.ID == id {
			return true
		}
	}
	return false
}

// Grab snapshots the given nodes onto a fresh clipboard, deduplicating by
// ID. Nodes no longer present in the tree are skipped.
func Grab(root *vfs.Node, nodes []*vfs.Node, op Op) Clipboard {
	cb := Clipboard{Op: op}
	seen := make(map[string]bool)
	for _, n := range nodes {
		if n == nil || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		path, ok := vfs.PathByID(root, n.ID)
		if !ok {
			continue
		}
		cb.Entries = append(cb.Entries, Entry{
			Node:   vfs.Clone(n),
			Origin: path.Parent(),
		})
	}
	return cb
}

// Report describes a paste outcome. Root is always the tree to adopt: on a
// partial failure it reflects the entries applied before the failing one.
type Report struct {
	Root   *vfs.Node
	Pasted int
	Failed string
	Err    error
}

// Paste applies the clipboard into the directory at dest. Cut entries are
// removed from their origin first; an origin that has since vanished is not
// an error, the snapshot still pastes. Name collisions at the destination
// resolve to a derived unique name. Yank entries insert with fresh IDs.
// Entries apply in order and the first failure stops the run; earlier
// entries stay pasted.
func Paste(root *vfs.Node, dest vfs.Path, cb Clipboard) Report {
	current := root
	for i, e := range cb.Entries {
		next, err := pasteOne(current, dest, e, cb.Op)
		if err != nil {
			return Report{Root: current, Pasted: i, Failed: e.Node.Name, Err: err}
		}
		current = next
	}
	return Report{Root: current, Pasted: len(cb.Entries)}
}

func pasteOne(root *vfs.Node, dest vfs.Path, e Entry, op Op) (*vfs.Node, error) {
	current := root
	node := e.Node
	if op == OpCut {
		next, err := vfs.Remove(current, e.Origin, node.ID)
		switch {
		case err == nil:
			current = next
		case errors.Is(err, vfs.ErrNotFound):
			// Origin already gone; the snapshot pastes regardless.
		default:
			return nil, err
		}
	} else {
		node = vfs.Reissue(node)
	}
	return vfs.AddRenamed(current, dest, node)
}

// ForcePaste applies the clipboard into dest, overwriting. For each entry an
// existing destination child with the same name and kind is deleted first; a
// failed overwrite delete aborts that entry. The insert keeps the original
// name, and for cut entries the origin is removed last so a failed overwrite
// never loses the source.
func ForcePaste(root *vfs.Node, dest vfs.Path, cb Clipboard) Report {
	current := root
	for i, e := range cb.Entries {
		next, err := forcePasteOne(current, dest, e, cb.Op)
		if err != nil {
			return Report{Root: current, Pasted: i, Failed: e.Node.Name, Err: err}
		}
		current = next
	}
	return Report{Root: current, Pasted: len(cb.Entries)}
}

func forcePasteOne(root *vfs.Node, dest vfs.Path, e Entry, op Op) (*vfs.Node, error) {
	current := root
	target := vfs.NodeByPath(current, dest)
	if target == nil {
		return nil, fmt.Errorf("target directory: %w", vfs.ErrNotFound)
	}
	if !target.IsDir() {
		return nil, fmt.Errorf("%s: %w", target.Name, vfs.ErrNotDir)
	}
	if op == OpCut {
		// A cut directory still lives at its origin; pasting inside its own
		// subtree would delete the copy along with the original.
		for _, id := range dest {
			if id == e.Node.ID {
				return nil, fmt.Errorf("%s: cannot move into its own subtree", e.Node.Name)
			}
		}
	}
	node := e.Node
	for _, c := range target.Children {
		if c.Name == node.Name && c.Kind == node.Kind {
			next, err := vfs.Remove(current, dest, c.ID)
			if err != nil {
				return nil, fmt.Errorf("overwrite %s: %w", c.Name, err)
			}
			current = next
			break
		}
	}
	if op == OpYank {
		node = vfs.Reissue(node)
	}
	next, err := vfs.Add(current, dest, node)
	if err != nil {
		return nil, err
	}
	current = next
	if op == OpCut && !dest.Equal(e.Origin) {
		next, err := vfs.Remove(current, e.Origin, node.ID)
		switch {
		case err == nil:
			current = next
		case errors.Is(err, vfs.ErrNotFound):
			// Benign: origin vanished, or source was the overwritten child.
		default:
			return nil, err
		}
	}
	return current, nil
}
